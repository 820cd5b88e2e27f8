package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/database"
	gin "github.com/gin-gonic/gin"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.ConfigSet("general", config.GeneralConfig{WebPort: "9090", LogLevel: "info", RatingMin: 0, RatingMax: 5})

	database.DBFile = filepath.Join(t.TempDir(), "data.db")
	database.InitDb("info")
	schema, err := os.ReadFile("../schema/db/000001_create_tables.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := database.DB.Exec(string(schema)); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.DB.Close() })

	router := gin.New()
	AddGeneralRoutes(router.Group("/api"))
	AddMoviesRoutes(router.Group("/api/movies"))
	AddUsersRoutes(router.Group("/api/users"))
	return router
}

func insertRouterTestMovie(t *testing.T, id int, title string, year int, genres ...string) {
	t.Helper()
	_, err := database.InsertArray("movies", []string{"id", "title", "title_normalized", "slug", "year"},
		[]interface{}{id, title, title, title, year})
	if err != nil {
		t.Fatal(err)
	}
	for _, genre := range genres {
		if _, err := database.InsertArray("movie_genres", []string{"movie_id", "genre"}, []interface{}{id, genre}); err != nil {
			t.Fatal(err)
		}
	}
}

func insertRouterTestUser(t *testing.T, id int, username string) {
	t.Helper()
	_, err := database.InsertArray("users", []string{"id", "username", "password", "is_active"},
		[]interface{}{id, username, "", true})
	if err != nil {
		t.Fatal(err)
	}
}

func doRequest(router *gin.Engine, method string, path string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestMovieList(t *testing.T) {
	router := setupTestRouter(t)
	insertRouterTestMovie(t, 1, "Toy Story", 1995, "Adventure", "Animation")
	insertRouterTestMovie(t, 2, "Heat", 1995, "Crime")
	insertRouterTestMovie(t, 3, "Casino", 1995, "Crime")

	t.Run("All", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/api/movies/", "")
		if recorder.Code != http.StatusOK {
			t.Fatal("wrong status: ", recorder.Code)
		}
		var response struct {
			Rows int `json:"rows"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatal(err)
		}
		if response.Rows != 3 {
			t.Error("wrong row count: ", response.Rows)
		}
	})
	t.Run("GenreFilter", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/api/movies/?genre=Crime", "")
		var response struct {
			Rows int `json:"rows"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatal(err)
		}
		if response.Rows != 2 {
			t.Error("wrong row count: ", response.Rows)
		}
	})
	t.Run("Limit", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/api/movies/?limit=1&offset=1", "")
		var response struct {
			Rows int `json:"rows"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatal(err)
		}
		if response.Rows != 1 {
			t.Error("wrong row count: ", response.Rows)
		}
	})
	t.Run("BadLimit", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/api/movies/?limit=abc", "")
		if recorder.Code != http.StatusBadRequest {
			t.Error("wrong status: ", recorder.Code)
		}
	})
	t.Run("Genres", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/api/movies/genres", "")
		var response struct {
			Rows int `json:"rows"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatal(err)
		}
		if response.Rows != 3 {
			t.Error("wrong genre count: ", response.Rows)
		}
	})
}

func TestMovieRate(t *testing.T) {
	router := setupTestRouter(t)
	insertRouterTestMovie(t, 1, "Toy Story", 1995, "Adventure")
	insertRouterTestUser(t, 7, "user_7")

	t.Run("Accepted", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/movies/1/rate", `{"user_id":7,"rating":4.5}`)
		if recorder.Code != http.StatusOK {
			t.Fatal("wrong status: ", recorder.Code, recorder.Body.String())
		}
		rating, err := database.GetRating(database.Query{Where: "user_id = ? and movie_id = ?", WhereArgs: []interface{}{7, 1}})
		if err != nil {
			t.Fatal(err)
		}
		if rating.Rating != 4.5 {
			t.Error("wrong rating: ", rating.Rating)
		}
	})
	t.Run("NumericStringAccepted", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/movies/1/rate", `{"user_id":7,"rating":"3.5"}`)
		if recorder.Code != http.StatusOK {
			t.Fatal("wrong status: ", recorder.Code, recorder.Body.String())
		}
	})
	t.Run("OverwritesExisting", func(t *testing.T) {
		doRequest(router, "POST", "/api/movies/1/rate", `{"user_id":7,"rating":2}`)
		counter, _ := database.CountRows("movie_ratings", database.Query{Where: "user_id = ? and movie_id = ?", WhereArgs: []interface{}{7, 1}})
		if counter != 1 {
			t.Error("rating should be overwritten, not duplicated: ", counter)
		}
		rating, _ := database.GetRating(database.Query{Where: "user_id = ? and movie_id = ?", WhereArgs: []interface{}{7, 1}})
		if rating.Rating != 2 {
			t.Error("wrong rating: ", rating.Rating)
		}
	})
	t.Run("NotANumber", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/movies/1/rate", `{"user_id":7,"rating":"abc"}`)
		if recorder.Code != http.StatusBadRequest {
			t.Fatal("wrong status: ", recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "rating must be a number") {
			t.Error("wrong error: ", recorder.Body.String())
		}
	})
	t.Run("OutOfRange", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/movies/1/rate", `{"user_id":7,"rating":6}`)
		if recorder.Code != http.StatusBadRequest {
			t.Fatal("wrong status: ", recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "rating must be between 0 and 5") {
			t.Error("wrong error: ", recorder.Body.String())
		}
	})
	t.Run("UnknownMovie", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/movies/99/rate", `{"user_id":7,"rating":3}`)
		if recorder.Code != http.StatusNotFound {
			t.Error("wrong status: ", recorder.Code)
		}
	})
	t.Run("UnknownUser", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/movies/1/rate", `{"user_id":99,"rating":3}`)
		if recorder.Code != http.StatusNotFound {
			t.Error("wrong status: ", recorder.Code)
		}
	})
}

func TestUserCreate(t *testing.T) {
	router := setupTestRouter(t)
	t.Run("Created", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/users/", `{"username":"alice","password":"secret"}`)
		if recorder.Code != http.StatusOK {
			t.Fatal("wrong status: ", recorder.Code, recorder.Body.String())
		}
		counter, _ := database.CountRows("users", database.Query{Where: "username = ?", WhereArgs: []interface{}{"alice"}})
		if counter != 1 {
			t.Error("user not created")
		}
	})
	t.Run("DuplicateRejected", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/users/", `{"username":"alice"}`)
		if recorder.Code != http.StatusConflict {
			t.Error("wrong status: ", recorder.Code)
		}
	})
	t.Run("MissingUsername", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/api/users/", `{"password":"x"}`)
		if recorder.Code != http.StatusBadRequest {
			t.Error("wrong status: ", recorder.Code)
		}
	})
}

func TestStats(t *testing.T) {
	router := setupTestRouter(t)
	insertRouterTestMovie(t, 1, "Toy Story", 1995, "Adventure")
	recorder := doRequest(router, "GET", "/api/stats", "")
	if recorder.Code != http.StatusOK {
		t.Fatal("wrong status: ", recorder.Code)
	}
	var response map[string]int
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response["movies"] != 1 || response["genres"] != 1 {
		t.Error("wrong stats: ", response)
	}
}
