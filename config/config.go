// Package config loads server configuration from the environment.
// A .env file is honored when present; real environment variables win.
package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Addr      string // listen address, e.g. ":8080"
	DBPath    string // SQLite database path
	RulesPath string // optional status rule config JSON; empty = built-in defaults
	LogLevel  string
	Debug     bool
}

var instance *ServerConfig
var once sync.Once

// Get returns the process-wide server configuration.
func Get() *ServerConfig {
	once.Do(func() {
		// A missing .env file is fine; env vars alone are enough.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("could not load .env file: %s", err.Error())
		}

		instance = &ServerConfig{
			Addr:      getEnv("FLEXITIME_ADDR", ":8080"),
			DBPath:    getEnv("FLEXITIME_DB", "./flexitime.db"),
			RulesPath: getEnv("FLEXITIME_RULES", ""),
			LogLevel:  getEnv("FLEXITIME_LOG_LEVEL", "info"),
			Debug:     getEnvAsBool("FLEXITIME_DEBUG", false),
		}
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}
