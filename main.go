package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"os"

	"github.com/moviepick/go_movie_recommender/api"
	"github.com/moviepick/go_movie_recommender/apiexternal"
	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/database"
	"github.com/moviepick/go_movie_recommender/importer"
	"github.com/moviepick/go_movie_recommender/logger"
	"github.com/moviepick/go_movie_recommender/scheduler"
	"github.com/recoilme/pudge"

	"github.com/DeanThompson/ginpprof"

	"github.com/gin-gonic/gin"
	ginlog "github.com/toorop/gin-logrus"
)

func main() {
	debug.SetGCPercent(20)

	pudb, _ := config.OpenConfig("config.db")
	config.ConfigDB = pudb
	pudge.BackupAll("")

	_, errcfg := config.LoadCfgDB(config.Configfile)
	if errcfg != nil {
		log.Println("config load: ", errcfg)
	}
	cfg_general := config.ConfigGet("general").Data.(config.GeneralConfig)

	if cfg_general.WebPort == "" {
		log.Println("Checked for general - config is missing", cfg_general)
		os.Exit(0)
	}

	logger.InitLogger(logger.LoggerConfig{
		LogLevel:     cfg_general.LogLevel,
		LogFileSize:  cfg_general.LogFileSize,
		LogFileCount: cfg_general.LogFileCount,
		LogCompress:  cfg_general.LogCompress,
	})
	logger.Log.Infoln("Starting go_movie_recommender")
	logger.Log.Infoln("------------------------------")

	if cfg_general.TheMovieDBApiKey != "" {
		apiexternal.NewTmdbClient(cfg_general.TheMovieDBApiKey, cfg_general.Tmdblimiterseconds, cfg_general.Tmdblimitercalls)
	}

	logger.Log.Infoln("Initialize Database")
	database.InitDb(cfg_general.DBLogLevel)

	logger.Log.Infoln("Check Database for Upgrades")
	database.UpgradeDB()

	logger.Log.Infoln("Check Database for Errors")
	str := database.DbQuickCheck()
	if str != "ok" {
		logger.Log.Errorln("integrity check failed", str)
		config.ConfigDB.Close()
		database.DB.Close()
		os.Exit(100)
	}

	logger.Log.Infoln("Remove Old DB Backups")
	database.RemoveOldDbBackups(cfg_general.MaxDatabaseBackups)

	logger.Log.Infoln("Checking data import")
	userstotal, err := importer.CheckAndReadData()
	if err != nil {
		logger.Log.Errorln("Data import failed: ", err)
		config.ConfigDB.Close()
		database.DB.Close()
		os.Exit(101)
	}
	if err := importer.EnsureTestUser(); err != nil {
		logger.Log.Errorln("Test user: ", err)
	}
	if userstotal != 0 && config.ConfigCheck("notification") {
		cfg_notification := config.ConfigGet("notification").Data.(config.NotificationConfig)
		if cfg_notification.PushoverApiKey != "" {
			apiexternal.NewPushOverClient(cfg_notification.PushoverApiKey)
			err := apiexternal.PushoverApi.SendMessage("Data import finished, users created: "+strconv.Itoa(userstotal),
				"Data Import", cfg_notification.Recipient)
			if err != nil {
				logger.Log.Errorln("Notification failed: ", err)
			}
		}
	}

	logger.Log.Infoln("Starting Scheduler")
	scheduler.InitScheduler()

	logger.Log.Infoln("Starting API")
	router := gin.New()
	if !strings.EqualFold(cfg_general.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(ginlog.Logger(logger.Log), gin.Recovery())

	routerapi := router.Group("/api")
	api.AddGeneralRoutes(routerapi)

	routermovies := routerapi.Group("/movies")
	api.AddMoviesRoutes(routermovies)

	routerusers := routerapi.Group("/users")
	api.AddUsersRoutes(routerusers)

	if strings.EqualFold(cfg_general.LogLevel, "Debug") {
		ginpprof.Wrap(router)
	}

	logger.Log.Infoln("Starting API Webserver on port", cfg_general.WebPort)
	server := &http.Server{
		Addr:    ":" + cfg_general.WebPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			config.ConfigDB.Close()
			database.DB.Close()
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("receive interrupt signal")

	scheduler.QueueData.Stop()
	scheduler.QueueFeeds.Stop()

	config.Slepping(true, 5)

	database.DB.Close()
	config.ConfigDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	if err := pudge.CloseAll(); err != nil {
		log.Fatal("Database Shutdown:", err)
	}

	log.Println("Server exiting")
}
