package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config and reports every problem at once.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	validateURL(collector, "service.base_url", cfg.Service.BaseURL, "http", "https")
	if cfg.Service.Timeout < 0 {
		collector.add("service.timeout", "must not be negative")
	}

	switch cfg.Notify.Backend {
	case "none":
	case "redis":
		if cfg.Notify.RedisURL == "" {
			collector.add("notify.redis_url", "is required for the redis backend")
		} else {
			validateURL(collector, "notify.redis_url", cfg.Notify.RedisURL, "redis", "rediss")
		}
	case "amqp":
		if cfg.Notify.AMQPURL == "" {
			collector.add("notify.amqp_url", "is required for the amqp backend")
		} else {
			validateURL(collector, "notify.amqp_url", cfg.Notify.AMQPURL, "amqp", "amqps")
		}
	default:
		collector.add("notify.backend", fmt.Sprintf("unsupported backend %q (want none, redis or amqp)", cfg.Notify.Backend))
	}
	if strings.TrimSpace(cfg.Notify.Channel) == "" {
		collector.add("notify.channel", "is required")
	}

	if len(cfg.Speech.Args) > 0 && strings.TrimSpace(cfg.Speech.Command) == "" {
		collector.add("speech.args", "set without speech.command")
	}

	switch cfg.UI.Mode {
	case "auto", "live", "plain":
	default:
		collector.add("ui.mode", fmt.Sprintf("unsupported mode %q (want auto, live or plain)", cfg.UI.Mode))
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		collector.add("log.level", fmt.Sprintf("unknown level %q", cfg.Log.Level))
	}

	return collector.result()
}

func validateURL(collector *issueCollector, field, value string, schemes ...string) {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" {
		collector.add(field, fmt.Sprintf("invalid url %q", value))
		return
	}
	for _, scheme := range schemes {
		if parsed.Scheme == scheme {
			return
		}
	}
	collector.add(field, fmt.Sprintf("unsupported scheme %q", parsed.Scheme))
}
