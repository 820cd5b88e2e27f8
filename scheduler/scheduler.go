package scheduler

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/database"
	"github.com/moviepick/go_movie_recommender/logger"
	"github.com/moviepick/go_movie_recommender/tasks"
)

func converttime(interval string) time.Duration {
	if strings.Contains(interval, "d") {
		intvar, _ := strconv.Atoi(strings.Replace(interval, "d", "", 1))
		dur, _ := time.ParseDuration(strconv.Itoa(intvar*24) + "h")
		return dur
	}
	dur, _ := time.ParseDuration(interval)
	return dur
}

func convertcron(interval string) string {
	if strings.Contains(interval, "d") {
		h := strconv.Itoa(rand.Intn(24))
		m := strconv.Itoa(rand.Intn(60))
		return "0 " + m + " " + h + " */" + strings.Replace(interval, "d", "", 1) + " * *"
	}
	if strings.Contains(interval, "h") {
		m := strconv.Itoa(rand.Intn(60))
		return "0 " + m + " */" + strings.Replace(interval, "h", "", 1) + " * * *"
	}
	return "0 */" + strings.Replace(interval, "m", "", 1) + " * * * *"
}

// QueueFeeds runs csv imports, QueueData runs database maintenance.
var QueueFeeds *tasks.Dispatcher
var QueueData *tasks.Dispatcher

// InitScheduler starts the dispatchers and registers the recurring
// database check and backup jobs.
func InitScheduler() {
	if !config.ConfigCheck("general") {
		return
	}
	cfg_general := config.ConfigGet("general").Data.(config.GeneralConfig)

	QueueFeeds = tasks.NewDispatcher("Feed", 1, 100)
	QueueFeeds.Start()

	QueueData = tasks.NewDispatcher("Data", 1, 100)
	QueueData.Start()

	if !config.ConfigCheck("scheduler") {
		return
	}
	schedule := config.ConfigGet("scheduler").Data.(config.SchedulerConfig)

	if schedule.IntervalDatabaseCheck != "" {
		QueueData.DispatchCron("Check Database", func() {
			str := database.DbQuickCheck()
			if str != "ok" {
				logger.Log.Errorln("Database integrity check failed: ", str)
				os.Exit(100)
			}
		}, convertcron(schedule.IntervalDatabaseCheck))
	}
	if schedule.IntervalDatabaseBackup != "" {
		QueueData.DispatchEvery("Backup Database", func() {
			database.Backup(database.DB, fmt.Sprintf("%s.%s", "./backup/data.db", time.Now().Format("20060102_150405")), cfg_general.MaxDatabaseBackups)
		}, converttime(schedule.IntervalDatabaseBackup))
	}
}
