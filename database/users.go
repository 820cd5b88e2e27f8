package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/moviepick/go_movie_recommender/logger"
)

type User struct {
	ID               uint
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	IsActive         bool      `db:"is_active"`
	Username         string
	Password         string       `json:"-"`
	EmailConfirmedAt sql.NullTime `db:"email_confirmed_at"`
	FirstName        string       `db:"first_name"`
	LastName         string       `db:"last_name"`
}

type JobHistory struct {
	ID        uint
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	JobType   string    `db:"job_type"`
	JobGroup  string    `db:"job_group"`
	Started   sql.NullTime
	Ended     sql.NullTime
}

func GetUser(qu Query) (User, error) {
	qu.Limit = 1
	results, err := QueryUser(qu)
	if err != nil {
		return User{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return User{}, errors.New("no result")
}

func QueryUser(qu Query) ([]User, error) {
	columns := "id,created_at,updated_at,is_active,username,password,email_confirmed_at,first_name,last_name"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("users", qu)
	if counter == 0 || counterr != nil {
		return []User{}, nil
	}
	query := buildquery(columns, "users", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []User{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]User, 0, counter)
	for rows.Next() {
		item := User{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []User{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}

func QueryJobHistory(qu Query) ([]JobHistory, error) {
	columns := "id,created_at,updated_at,job_type,job_group,started,ended"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("job_histories", qu)
	if counter == 0 || counterr != nil {
		return []JobHistory{}, nil
	}
	query := buildquery(columns, "job_histories", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []JobHistory{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]JobHistory, 0, counter)
	for rows.Next() {
		item := JobHistory{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []JobHistory{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}
