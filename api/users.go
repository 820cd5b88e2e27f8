// users
package api

import (
	"net/http"

	"github.com/moviepick/go_movie_recommender/database"
	gin "github.com/gin-gonic/gin"
)

func AddUsersRoutes(routerusers *gin.RouterGroup) {
	routerusers.GET("/", func(ctx *gin.Context) {
		users, _ := database.QueryUser(database.Query{OrderBy: "id"})
		ctx.JSON(http.StatusOK, gin.H{"data": users, "rows": len(users)})
	})
	routerusers.GET("/:id", apiUserGet)
	routerusers.GET("/:id/ratings", func(ctx *gin.Context) {
		ratings, _ := database.QueryRating(database.Query{Where: "user_id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
		ctx.JSON(http.StatusOK, gin.H{"data": ratings, "rows": len(ratings)})
	})
	routerusers.POST("/", apiUserCreate)
	routerusers.DELETE("/:id", func(ctx *gin.Context) {
		database.DeleteRow("movie_ratings", database.Query{Where: "user_id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
		database.DeleteRow("movie_tags", database.Query{Where: "user_id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
		database.DeleteRow("users", database.Query{Where: "id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
		ctx.JSON(http.StatusOK, gin.H{"data": "ok"})
	})
}

func apiUserGet(ctx *gin.Context) {
	user, err := database.GetUser(database.Query{Where: "id = ?", WhereArgs: []interface{}{ctx.Param("id")}})
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	ratings, _ := database.CountRows("movie_ratings", database.Query{Where: "user_id = ?", WhereArgs: []interface{}{user.ID}})
	ctx.JSON(http.StatusOK, gin.H{"data": user, "ratings": ratings})
}

type apiUser struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func apiUserCreate(ctx *gin.Context) {
	var getuser apiUser
	if err := ctx.ShouldBindJSON(&getuser); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if getuser.Username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	counter, _ := database.CountRows("users", database.Query{Where: "username = ?", WhereArgs: []interface{}{getuser.Username}})
	if counter >= 1 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	dbresult, err := database.InsertRowMap("users", map[string]interface{}{
		"username":   getuser.Username,
		"password":   getuser.Password,
		"first_name": getuser.FirstName,
		"last_name":  getuser.LastName,
		"is_active":  true,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dbid, _ := dbresult.LastInsertId()
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"id": dbid}})
}
