// koanf_api
package config

import (
	"errors"
	"math/rand"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"

	"github.com/moviepick/go_movie_recommender/logger"
)

const Configfile = "./config/config.toml"

//Main Config
type MainConfig struct {
	General      GeneralConfig      `koanf:"general"`
	Imports      ImportConfig       `koanf:"import"`
	Scheduler    SchedulerConfig    `koanf:"scheduler"`
	Notification NotificationConfig `koanf:"notification"`
}

type GeneralConfig struct {
	WebPort            string  `koanf:"webport"`
	LogLevel           string  `koanf:"loglevel"`
	DBLogLevel         string  `koanf:"dbloglevel"`
	LogFileSize        int     `koanf:"logfilesize"`
	LogFileCount       int     `koanf:"logfilecount"`
	LogCompress        bool    `koanf:"logcompress"`
	RatingMin          float64 `koanf:"rating_min"`
	RatingMax          float64 `koanf:"rating_max"`
	MaxDatabaseBackups int     `koanf:"max_database_backups"`
	TheMovieDBApiKey   string  `koanf:"themoviedb_apikey"`
	Tmdblimiterseconds int     `koanf:"tmdb_limiter_seconds"`
	Tmdblimitercalls   int     `koanf:"tmdb_limiter_calls"`
}

type ImportConfig struct {
	DataDir         string `koanf:"data_dir"`
	MovieBatchSize  int    `koanf:"movie_batch_size"`
	RatingBatchSize int    `koanf:"rating_batch_size"`
	TagBatchSize    int    `koanf:"tag_batch_size"`
	LinkBatchSize   int    `koanf:"link_batch_size"`
}

type SchedulerConfig struct {
	IntervalDatabaseBackup string `koanf:"interval_database_backup"`
	IntervalDatabaseCheck  string `koanf:"interval_database_check"`
}

type NotificationConfig struct {
	PushoverApiKey string `koanf:"pushover_apikey"`
	Recipient      string `koanf:"recipient"`
}

//LoadCfgDB reads the toml config, fills the entry cache and persists the
//sections into the pudge config db.
func LoadCfgDB(configfile string) (*file.File, error) {
	var k = koanf.New(".")
	f := file.Provider(configfile)
	err := k.Load(f, toml.Parser())
	if err != nil {
		logger.Log.Errorln("Error loading config. ", err)
		return f, err
	}
	if k.Sprint() == "" {
		return f, errors.New("config empty")
	}
	var out MainConfig
	err = k.Unmarshal("", &out)
	if err != nil {
		logger.Log.Errorln("Error unmarshal config. ", err)
		return f, err
	}
	if out.General.RatingMax == 0 {
		out.General.RatingMax = 5
	}
	if out.Imports.DataDir == "" {
		out.Imports.DataDir = "./data"
	}
	if out.Imports.MovieBatchSize == 0 {
		out.Imports.MovieBatchSize = 100
	}
	if out.Imports.RatingBatchSize == 0 {
		out.Imports.RatingBatchSize = 1000
	}
	if out.Imports.TagBatchSize == 0 {
		out.Imports.TagBatchSize = 500
	}
	if out.Imports.LinkBatchSize == 0 {
		out.Imports.LinkBatchSize = 1000
	}
	ConfigSet("general", out.General)
	ConfigSet("import", out.Imports)
	ConfigSet("scheduler", out.Scheduler)
	ConfigSet("notification", out.Notification)
	return f, nil
}

func Slepping(random bool, seconds int) {
	if random {
		rand.Seed(time.Now().UnixNano())
		n := rand.Intn(seconds) // n will be between 0 and seconds
		logger.Log.Debug("Sleeping ", n+1, " seconds...")
		time.Sleep(time.Duration(1+n) * time.Second)
	} else {
		logger.Log.Debug("Sleeping ", seconds, " seconds...")
		time.Sleep(time.Duration(seconds) * time.Second)
	}
}
