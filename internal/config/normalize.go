package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultBaseURL       = "http://localhost:5000"
	DefaultTimeout       = 30 * time.Second
	DefaultNotifyChannel = "intervue.candidates"
	DefaultSpeechLang    = "en-US"
	DefaultLogLevel      = "info"
	DefaultUIMode        = "auto"
)

// DefaultJournalPath is where the journal lives when none is configured.
var DefaultJournalPath = filepath.Join(".intervue", "journal.duckdb")

func Normalize(cfg *Config) {
	cfg.Service.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Service.BaseURL), "/")
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = DefaultBaseURL
	}
	if cfg.Service.Timeout == 0 {
		cfg.Service.Timeout = DefaultTimeout
	}
	cfg.Notify.Backend = strings.ToLower(strings.TrimSpace(cfg.Notify.Backend))
	if cfg.Notify.Backend == "" {
		cfg.Notify.Backend = "none"
	}
	if cfg.Notify.Channel == "" {
		cfg.Notify.Channel = DefaultNotifyChannel
	}
	if cfg.Speech.Lang == "" {
		cfg.Speech.Lang = DefaultSpeechLang
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	cfg.UI.Mode = strings.ToLower(strings.TrimSpace(cfg.UI.Mode))
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = DefaultUIMode
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
