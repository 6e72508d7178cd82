package config

import "time"

// Config is the intervue client configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Notify  NotifyConfig  `yaml:"notify"`
	Speech  SpeechConfig  `yaml:"speech"`
	Journal JournalConfig `yaml:"journal"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig addresses the scoring service.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotifyConfig selects the candidates-updated channel backend.
type NotifyConfig struct {
	Backend  string `yaml:"backend"`
	RedisURL string `yaml:"redis_url"`
	AMQPURL  string `yaml:"amqp_url"`
	Channel  string `yaml:"channel"`
}

// SpeechConfig names the external speech-to-text command.
type SpeechConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Lang    string   `yaml:"lang"`
}

// JournalConfig locates the local session journal.
type JournalConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// UIConfig controls terminal presentation.
type UIConfig struct {
	Mode    string `yaml:"mode"`
	NoColor bool   `yaml:"no_color"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}
