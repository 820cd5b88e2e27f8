package database

import (
	"errors"
	"time"

	"github.com/moviepick/go_movie_recommender/logger"
)

type Movie struct {
	ID              uint
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	Title           string
	TitleNormalized string `db:"title_normalized"`
	Slug            string
	Year            int
}

type MovieGenre struct {
	ID        uint
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	MovieID   uint      `db:"movie_id"`
	Genre     string
}

type MovieLink struct {
	ID        uint
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	MovieID   uint      `db:"movie_id"`
	MlLink    string    `db:"ml_link"`
	ImdbLink  string    `db:"imdb_link"`
	TmdbLink  string    `db:"tmdb_link"`
}

func GetMovie(qu Query) (Movie, error) {
	qu.Limit = 1
	results, err := QueryMovie(qu)
	if err != nil {
		return Movie{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return Movie{}, errors.New("no result")
}

func QueryMovie(qu Query) ([]Movie, error) {
	columns := "id,created_at,updated_at,title,title_normalized,slug,year"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("movies", qu)
	if counter == 0 || counterr != nil {
		return []Movie{}, nil
	}
	query := buildquery(columns, "movies", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []Movie{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]Movie, 0, counter)
	for rows.Next() {
		item := Movie{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []Movie{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}

func GetMovieGenre(qu Query) (MovieGenre, error) {
	qu.Limit = 1
	results, err := QueryMovieGenre(qu)
	if err != nil {
		return MovieGenre{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return MovieGenre{}, errors.New("no result")
}

func QueryMovieGenre(qu Query) ([]MovieGenre, error) {
	columns := "id,created_at,updated_at,movie_id,genre"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("movie_genres", qu)
	if counter == 0 || counterr != nil {
		return []MovieGenre{}, nil
	}
	query := buildquery(columns, "movie_genres", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []MovieGenre{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]MovieGenre, 0, counter)
	for rows.Next() {
		item := MovieGenre{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []MovieGenre{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}

//QueryGenres returns the distinct genre labels.
func QueryGenres() ([]string, error) {
	rows, err := DB.Query("select distinct genre from movie_genres order by genre")
	if err != nil {
		logger.Log.Error("Query genres error: ", err)
		return []string{}, err
	}
	defer rows.Close()
	result := make([]string, 0, 20)
	for rows.Next() {
		var genre string
		if err2 := rows.Scan(&genre); err2 != nil {
			return []string{}, err2
		}
		result = append(result, genre)
	}
	return result, nil
}

func GetMovieLink(qu Query) (MovieLink, error) {
	qu.Limit = 1
	results, err := QueryMovieLink(qu)
	if err != nil {
		return MovieLink{}, err
	}
	if len(results) >= 1 {
		return results[0], nil
	}
	return MovieLink{}, errors.New("no result")
}

func QueryMovieLink(qu Query) ([]MovieLink, error) {
	columns := "id,created_at,updated_at,movie_id,ml_link,imdb_link,tmdb_link"
	if qu.Select != "" {
		columns = qu.Select
	}
	counter, counterr := CountRows("movie_links", qu)
	if counter == 0 || counterr != nil {
		return []MovieLink{}, nil
	}
	query := buildquery(columns, "movie_links", qu, false)
	if logSQLDebug() {
		logger.Log.Debug("query: ", query, " -args: ", qu.WhereArgs)
	}
	rows, err := DB.Queryx(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", query, " error: ", err)
		return []MovieLink{}, err
	}

	defer rows.Close()
	if qu.Limit >= 1 && qu.Limit < uint64(counter) {
		counter = int(qu.Limit)
	}
	result := make([]MovieLink, 0, counter)
	for rows.Next() {
		item := MovieLink{}
		err2 := rows.StructScan(&item)
		if err2 != nil {
			logger.Log.Error("Query2: ", query, " error: ", err2)
			return []MovieLink{}, err2
		}
		result = append(result, item)
	}
	return result, nil
}
