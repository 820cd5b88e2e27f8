// movies
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/moviepick/go_movie_recommender/apiexternal"
	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/database"
	gin "github.com/gin-gonic/gin"
)

func AddMoviesRoutes(routermovies *gin.RouterGroup) {
	routermovies.GET("/", apiMovieList)
	routermovies.GET("/genres", func(ctx *gin.Context) {
		genres, _ := database.QueryGenres()
		ctx.JSON(http.StatusOK, gin.H{"data": genres, "rows": len(genres)})
	})
	routermovies.GET("/:id", apiMovieGet)
	routermovies.GET("/:id/ratings", func(ctx *gin.Context) {
		ratings, _ := database.QueryRating(database.Query{Where: "movie_id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
		ctx.JSON(http.StatusOK, gin.H{"data": ratings, "rows": len(ratings)})
	})
	routermovies.GET("/:id/tags", func(ctx *gin.Context) {
		tags, _ := database.QueryTag(database.Query{Where: "movie_id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
		ctx.JSON(http.StatusOK, gin.H{"data": tags, "rows": len(tags)})
	})
	routermovies.GET("/:id/external", apiMovieExternal)
	routermovies.POST("/:id/rate", apiMovieRate)
}

var movieListColumns = "movies.id, movies.created_at, movies.updated_at, movies.title, movies.title_normalized, movies.slug, movies.year"

func apiMovieList(ctx *gin.Context) {
	query := database.Query{OrderBy: "title", Select: movieListColumns}
	if queryParam, ok := ctx.GetQuery("limit"); ok {
		limit, err := strconv.ParseUint(queryParam, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		query.Limit = limit
	}
	if queryParam, ok := ctx.GetQuery("offset"); ok {
		offset, err := strconv.ParseUint(queryParam, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a number"})
			return
		}
		query.Offset = offset
	}
	where := ""
	whereargs := []interface{}{}
	if queryParam, ok := ctx.GetQuery("genre"); ok {
		query.InnerJoin = "movie_genres on movie_genres.movie_id = movies.id"
		where = "movie_genres.genre = ?"
		whereargs = append(whereargs, queryParam)
	}
	if queryParam, ok := ctx.GetQuery("year"); ok {
		if where != "" {
			where += " and "
		}
		where += "movies.year = ?"
		whereargs = append(whereargs, queryParam)
	}
	if queryParam, ok := ctx.GetQuery("title"); ok {
		if where != "" {
			where += " and "
		}
		where += "movies.title_normalized like ?"
		whereargs = append(whereargs, "%"+queryParam+"%")
	}
	query.Where = where
	query.WhereArgs = whereargs

	movies, _ := database.QueryMovie(query)
	ctx.JSON(http.StatusOK, gin.H{"data": movies, "rows": len(movies)})
}

func apiMovieGet(ctx *gin.Context) {
	movie, err := database.GetMovie(database.Query{Where: "id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}
	genres, _ := database.QueryMovieGenre(database.Query{Where: "movie_id = ?", WhereArgs: []interface{}{movie.ID}})
	link, _ := database.GetMovieLink(database.Query{Where: "movie_id = ?", WhereArgs: []interface{}{movie.ID}})
	ratings, _ := database.CountRows("movie_ratings", database.Query{Where: "movie_id = ?", WhereArgs: []interface{}{movie.ID}})
	ctx.JSON(http.StatusOK, gin.H{"data": movie, "genres": genres, "link": link, "ratings": ratings})
}

func apiMovieExternal(ctx *gin.Context) {
	link, err := database.GetMovieLink(database.Query{Where: "movie_id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}
	tmdbid := tmdbIDFromLink(link.TmdbLink)
	if tmdbid == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no themoviedb id"})
		return
	}
	moviedbdetails, err := apiexternal.TmdbApi.GetMovie(tmdbid)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": moviedbdetails})
}

func tmdbIDFromLink(link string) int {
	for i := len(link) - 1; i >= 0; i-- {
		if link[i] == '/' {
			id, err := strconv.Atoi(link[i+1:])
			if err != nil {
				return 0
			}
			return id
		}
	}
	return 0
}

type apiRate struct {
	UserID uint        `json:"user_id"`
	Rating interface{} `json:"rating"`
}

func apiMovieRate(ctx *gin.Context) {
	movieid, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "movie id must be a number"})
		return
	}
	counter, _ := database.CountRows("movies", database.Query{Where: "id = ?", WhereArgs: []interface{}{movieid}})
	if counter == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}
	var getrate apiRate
	if err := ctx.ShouldBindJSON(&getrate); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, ok := ratingValue(getrate.Rating)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "rating must be a number"})
		return
	}
	cfg_general := config.ConfigGet("general").Data.(config.GeneralConfig)
	if value < cfg_general.RatingMin || value > cfg_general.RatingMax {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between " +
			strconv.FormatFloat(cfg_general.RatingMin, 'f', -1, 64) + " and " +
			strconv.FormatFloat(cfg_general.RatingMax, 'f', -1, 64)})
		return
	}
	counter, _ = database.CountRows("users", database.Query{Where: "id = ?", WhereArgs: []interface{}{getrate.UserID}})
	if counter == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	_, err = database.Upsert("movie_ratings",
		map[string]interface{}{"movie_id": movieid, "user_id": getrate.UserID, "rating": value, "timestamp": time.Now()},
		database.Query{Where: "movie_id = ? and user_id = ?", WhereArgs: []interface{}{movieid, getrate.UserID}})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "ok"})
}

// ratingValue accepts the rating as a json number or as a numeric string.
func ratingValue(raw interface{}) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
