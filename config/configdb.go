package config

import (
	"sync"

	"github.com/recoilme/pudge"

	"github.com/moviepick/go_movie_recommender/logger"
)

var ConfigDB *pudge.Db

var cfglock = sync.RWMutex{}

type Conf struct {
	Name string
	Data interface{}
}

var configEntries []Conf

func OpenConfig(file string) (db *pudge.Db, err error) {
	cfg := &pudge.Config{
		SyncInterval: 1} // every second fsync
	mydb, err := pudge.Open(file, cfg)
	configEntries = []Conf{}
	return mydb, err
}

func ConfigSet(key string, data interface{}) {
	cfglock.Lock()
	defer cfglock.Unlock()
	for idx := range configEntries {
		if configEntries[idx].Name == key {
			configEntries[idx].Data = data
			if ConfigDB != nil {
				ConfigDB.Set(key, data)
			}
			return
		}
	}
	configEntries = append(configEntries, Conf{Name: key, Data: data})
	if ConfigDB != nil {
		ConfigDB.Set(key, data)
	}
}

func ConfigCheck(key string) bool {
	cfglock.RLock()
	defer cfglock.RUnlock()
	for idx := range configEntries {
		if configEntries[idx].Name == key {
			return true
		}
	}
	logger.Log.Errorln("Config not found: ", key)
	return false
}

func ConfigGet(key string) *Conf {
	cfglock.RLock()
	defer cfglock.RUnlock()
	for idx := range configEntries {
		if configEntries[idx].Name == key {
			return &configEntries[idx]
		}
	}
	logger.Log.Errorln("Config not found: ", key)
	return &Conf{Name: key}
}

func ConfigGetAll() []*Conf {
	cfglock.RLock()
	defer cfglock.RUnlock()
	var b []*Conf
	for idx := range configEntries {
		b = append(b, &configEntries[idx])
	}
	return b
}
