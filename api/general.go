package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/database"
	"github.com/moviepick/go_movie_recommender/importer"
	"github.com/moviepick/go_movie_recommender/logger"
	"github.com/moviepick/go_movie_recommender/scheduler"
	"github.com/moviepick/go_movie_recommender/tasks"
	gin "github.com/gin-gonic/gin"
)

func AddGeneralRoutes(routerapi *gin.RouterGroup) {
	routerapi.GET("/stats", apiStats)
	routerapi.GET("/queue", func(ctx *gin.Context) {
		jobs := tasks.GetQueue()
		ctx.JSON(http.StatusOK, gin.H{"data": jobs, "rows": len(jobs)})
	})
	routerapi.GET("/jobs", func(ctx *gin.Context) {
		jobs, _ := database.QueryJobHistory(database.Query{OrderBy: "started desc", Limit: 100})
		ctx.JSON(http.StatusOK, gin.H{"data": jobs, "rows": len(jobs)})
	})

	routerapi.GET("/data/import", apiDataImport)

	routerapi.GET("/scheduler/stop", func(ctx *gin.Context) {
		scheduler.QueueData.Stop()
		scheduler.QueueFeeds.Stop()
		ctx.JSON(http.StatusOK, "ok")
	})
	routerapi.GET("/scheduler/start", func(ctx *gin.Context) {
		scheduler.QueueData.Start()
		scheduler.QueueFeeds.Start()
		ctx.JSON(http.StatusOK, "ok")
	})

	routerdb := routerapi.Group("/db")
	{
		routerdb.GET("/backup", apiDbBackup)
		routerdb.GET("/integrity", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"data": database.DbQuickCheck()})
		})
		routerdb.GET("/vacuum", func(ctx *gin.Context) {
			database.ReadWriteMu.Lock()
			database.DB.Exec("VACUUM;")
			database.ReadWriteMu.Unlock()
			ctx.JSON(http.StatusOK, "ok")
		})
	}
}

func apiStats(ctx *gin.Context) {
	movies, _ := database.CountRows("movies", database.Query{})
	genres, _ := database.CountRows("movie_genres", database.Query{})
	ratings, _ := database.CountRows("movie_ratings", database.Query{})
	tags, _ := database.CountRows("movie_tags", database.Query{})
	tagnames, _ := database.CountRows("movie_tagnames", database.Query{})
	links, _ := database.CountRows("movie_links", database.Query{})
	users, _ := database.CountRows("users", database.Query{})
	ctx.JSON(http.StatusOK, gin.H{
		"movies":    movies,
		"genres":    genres,
		"ratings":   ratings,
		"tags":      tags,
		"tag_names": tagnames,
		"links":     links,
		"users":     users,
	})
}

func apiDataImport(ctx *gin.Context) {
	scheduler.QueueFeeds.DispatchIn("Import Data", func() {
		if _, err := importer.CheckAndReadData(); err != nil {
			logger.Log.Errorln("Import failed: ", err)
			return
		}
		importer.EnsureTestUser()
	}, time.Second*1)
	ctx.JSON(http.StatusOK, gin.H{"data": "Import started"})
}

func apiDbBackup(ctx *gin.Context) {
	cfg_general := config.ConfigGet("general").Data.(config.GeneralConfig)
	scheduler.QueueData.DispatchIn("Backup Database", func() {
		database.Backup(database.DB, fmt.Sprintf("%s.%s", "./backup/data.db", time.Now().Format("20060102_150405")), cfg_general.MaxDatabaseBackups)
	}, time.Second*1)
	ctx.JSON(http.StatusOK, gin.H{"data": "Backup started"})
}
