package database

import (
	"errors"
	"time"

	"github.com/moviepick/go_movie_recommender/logger"
)

type Rating struct {
	ID        uint
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	MovieID   uint      `db:"movie_id"`
	UserID    uint      `db:"user_id"`
	Rating    float64
	Timestamp time.Time
}

type TagName struct {
	ID        uint
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Name      string
}

type Tag struct {
	ID        uint
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	TagID     uint      `db:"tag_id"`
	MovieID   uint      `db:"movie_id"`
	UserID    uint      `db:"user_id"`
	Timestamp time.Time
}

func GetRating(qu Query) (Rating, error) {
	qu.Limit = 1
	results, err := QueryRating(qu)
	if err != nil {
		return Rating{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return Rating{}, errors.New("no result")
}

func QueryRating(qu Query) ([]Rating, error) {
	columns := "id,created_at,updated_at,movie_id,user_id,rating,timestamp"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("movie_ratings", qu)
	if counter == 0 || counterr != nil {
		return []Rating{}, nil
	}
	query := buildquery(columns, "movie_ratings", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []Rating{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]Rating, 0, counter)
	for rows.Next() {
		item := Rating{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []Rating{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}

func GetTagName(qu Query) (TagName, error) {
	qu.Limit = 1
	results, err := QueryTagName(qu)
	if err != nil {
		return TagName{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return TagName{}, errors.New("no result")
}

func QueryTagName(qu Query) ([]TagName, error) {
	columns := "id,created_at,updated_at,name"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("movie_tagnames", qu)
	if counter == 0 || counterr != nil {
		return []TagName{}, nil
	}
	query := buildquery(columns, "movie_tagnames", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []TagName{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]TagName, 0, counter)
	for rows.Next() {
		item := TagName{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []TagName{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}

func GetTag(qu Query) (Tag, error) {
	qu.Limit = 1
	results, err := QueryTag(qu)
	if err != nil {
		return Tag{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return Tag{}, errors.New("no result")
}

func QueryTag(qu Query) ([]Tag, error) {
	columns := "id,created_at,updated_at,tag_id,movie_id,user_id,timestamp"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("movie_tags", qu)
	if counter == 0 || counterr != nil {
		return []Tag{}, nil
	}
	query := buildquery(columns, "movie_tags", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []Tag{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]Tag, 0, counter)
	for rows.Next() {
		item := Tag{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []Tag{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}
