package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvAPIURL        = "INTERVUE_API_URL"
	EnvTimeout       = "INTERVUE_TIMEOUT"
	EnvNotifyBackend = "INTERVUE_NOTIFY_BACKEND"
	EnvRedisURL      = "INTERVUE_REDIS_URL"
	EnvAMQPURL       = "INTERVUE_AMQP_URL"
	EnvSpeechCommand = "INTERVUE_SPEECH_COMMAND"
	EnvJournalPath   = "INTERVUE_JOURNAL_PATH"
	EnvLogLevel      = "INTERVUE_LOG_LEVEL"
	EnvLogFile       = "INTERVUE_LOG_FILE"
)

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	str(EnvAPIURL, &cfg.Service.BaseURL)
	str(EnvNotifyBackend, &cfg.Notify.Backend)
	str(EnvRedisURL, &cfg.Notify.RedisURL)
	str(EnvAMQPURL, &cfg.Notify.AMQPURL)
	str(EnvSpeechCommand, &cfg.Speech.Command)
	str(EnvJournalPath, &cfg.Journal.Path)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFile, &cfg.Log.File)
	if value, ok := lookup(EnvTimeout); ok && strings.TrimSpace(value) != "" {
		timeout, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Service.Timeout = timeout
	}
	return nil
}
