package database

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestDb(t *testing.T) {
	t.Helper()
	DBFile = filepath.Join(t.TempDir(), "data.db")
	InitDb("info")
	schema, err := os.ReadFile("../schema/db/000001_create_tables.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DB.Exec(string(schema)); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { DB.Close() })
}

func TestBuildquery(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		query := buildquery("id,title", "movies", Query{}, false)
		if query != "select id,title from movies" {
			t.Error("wrong query: ", query)
		}
	})
	t.Run("WhereOrderLimit", func(t *testing.T) {
		query := buildquery("id", "movies", Query{Where: "year = ?", OrderBy: "title", Limit: 10}, false)
		if query != "select id from movies where year = ? order by title limit 10" {
			t.Error("wrong query: ", query)
		}
	})
	t.Run("Offset", func(t *testing.T) {
		query := buildquery("id", "movies", Query{Limit: 10, Offset: 20}, false)
		if query != "select id from movies limit 20, 10" {
			t.Error("wrong query: ", query)
		}
	})
	t.Run("InnerJoinCount", func(t *testing.T) {
		query := buildquery("count(*)", "movies", Query{InnerJoin: "movie_genres on movie_genres.movie_id = movies.id"}, true)
		if query != "select count(*) from movies inner join movie_genres on movie_genres.movie_id = movies.id" {
			t.Error("wrong query: ", query)
		}
	})
	t.Run("InnerJoinColumns", func(t *testing.T) {
		query := buildquery("movies.id, movies.title", "movies", Query{InnerJoin: "movie_genres on movie_genres.movie_id = movies.id"}, false)
		if query != "select movies.id, movies.title from movies inner join movie_genres on movie_genres.movie_id = movies.id" {
			t.Error("wrong query: ", query)
		}
	})
}

func TestInsertAndQuery(t *testing.T) {
	setupTestDb(t)
	_, err := InsertArray("movies", []string{"id", "title", "title_normalized", "slug", "year"},
		[]interface{}{1, "Toy Story (1995)", "Toy Story", "toy-story", 1995})
	if err != nil {
		t.Fatal(err)
	}
	counter, err := CountRows("movies", Query{Where: "year = ?", WhereArgs: []interface{}{1995}})
	if err != nil {
		t.Fatal(err)
	}
	if counter != 1 {
		t.Error("wrong count: ", counter)
	}
	movie, err := GetMovie(Query{Where: "slug = ?", WhereArgs: []interface{}{"toy-story"}})
	if err != nil {
		t.Fatal(err)
	}
	if movie.Title != "Toy Story (1995)" || movie.Year != 1995 {
		t.Error("wrong movie: ", movie.Title, movie.Year)
	}
}

func TestUpsert(t *testing.T) {
	setupTestDb(t)
	_, err := InsertArray("movies", []string{"id", "title", "title_normalized", "slug", "year"},
		[]interface{}{1, "Toy Story (1995)", "Toy Story", "toy-story", 1995})
	if err != nil {
		t.Fatal(err)
	}
	_, err = InsertArray("users", []string{"id", "username", "password", "is_active"},
		[]interface{}{7, "user_7", "", true})
	if err != nil {
		t.Fatal(err)
	}

	filter := Query{Where: "movie_id = ? and user_id = ?", WhereArgs: []interface{}{1, 7}}
	_, err = Upsert("movie_ratings", map[string]interface{}{"movie_id": 1, "user_id": 7, "rating": 4.0, "timestamp": "2015-01-01 00:00:00"}, filter)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Upsert("movie_ratings", map[string]interface{}{"movie_id": 1, "user_id": 7, "rating": 2.5, "timestamp": "2015-01-02 00:00:00"}, filter)
	if err != nil {
		t.Fatal(err)
	}

	counter, _ := CountRows("movie_ratings", filter)
	if counter != 1 {
		t.Error("upsert should keep one row: ", counter)
	}
	rating, err := GetRating(filter)
	if err != nil {
		t.Fatal(err)
	}
	if rating.Rating != 2.5 {
		t.Error("wrong rating after upsert: ", rating.Rating)
	}
}

func TestUpdateColumn(t *testing.T) {
	setupTestDb(t)
	dbresult, err := InsertArray("job_histories", []string{"job_type", "job_group", "started"},
		[]interface{}{"import", "movies", "2015-01-01 00:00:00"})
	if err != nil {
		t.Fatal(err)
	}
	dbid, _ := dbresult.LastInsertId()
	_, err = UpdateColumn("job_histories", "ended", "2015-01-01 00:05:00", Query{Where: "id=?", WhereArgs: []interface{}{dbid}})
	if err != nil {
		t.Fatal(err)
	}
	jobs, err := QueryJobHistory(Query{Where: "id=?", WhereArgs: []interface{}{dbid}})
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || !jobs[0].Ended.Valid {
		t.Error("job end not recorded")
	}
}
