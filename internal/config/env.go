// Package config loads runtime settings for pointer hosts from the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/petrijr/pointer/pkg/api"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Config holds every POINTER_* setting.
type Config struct {
	LogLevel  string `env:"POINTER_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"POINTER_LOG_FORMAT" envDefault:"text"`

	// JournalPath enables the SQLite action journal when set.
	JournalPath string `env:"POINTER_JOURNAL_PATH"`

	// InboxPath is the SQLite task queue a running demo reads remote
	// commands from.
	InboxPath string `env:"POINTER_INBOX_PATH"`

	// InboxRedisAddr selects a Redis inbox instead of SQLite.
	InboxRedisAddr string `env:"POINTER_INBOX_REDIS_ADDR"`

	PauseStrategy string `env:"POINTER_PAUSE_STRATEGY" envDefault:"poll"`

	MoveDuration   time.Duration `env:"POINTER_MOVE_DURATION"   envDefault:"1s"`
	MoveSettle     time.Duration `env:"POINTER_MOVE_SETTLE"     envDefault:"1s"`
	TeleportSettle time.Duration `env:"POINTER_TELEPORT_SETTLE" envDefault:"200ms"`
	ClickSettle    time.Duration `env:"POINTER_CLICK_SETTLE"    envDefault:"400ms"`
	ClickFlash     time.Duration `env:"POINTER_CLICK_FLASH"     envDefault:"200ms"`
	PausePoll      time.Duration `env:"POINTER_PAUSE_POLL"      envDefault:"250ms"`
	AnnotateSwap   time.Duration `env:"POINTER_ANNOTATE_SWAP"   envDefault:"500ms"`
	AnnotateSettle time.Duration `env:"POINTER_ANNOTATE_SETTLE" envDefault:"1s"`
	ScrollMargin   float64       `env:"POINTER_SCROLL_MARGIN"   envDefault:"200"`

	// Watch reloads scenario files when they change.
	Watch         bool          `env:"POINTER_WATCH"          envDefault:"true"`
	WatchDebounce time.Duration `env:"POINTER_WATCH_DEBOUNCE" envDefault:"150ms"`

	// Beep plays a short tone on every click flash.
	Beep bool `env:"POINTER_BEEP"`

	// Tracing is opt-in: spans are exported only when OTelEndpoint is set
	// and OTelEnabled is true.
	OTelEndpoint string `env:"POINTER_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"POINTER_OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated and numeric settings.
func (c Config) Validate() error {
	if _, err := NormalizeLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := NormalizeFormat(c.LogFormat); err != nil {
		return err
	}
	if _, ok := api.ParsePauseStrategy(c.PauseStrategy); !ok {
		return fmt.Errorf("unsupported pause strategy %q", c.PauseStrategy)
	}
	if c.PausePoll <= 0 {
		return fmt.Errorf("pause poll must be positive, got %s", c.PausePoll)
	}
	for name, d := range map[string]time.Duration{
		"move duration":   c.MoveDuration,
		"move settle":     c.MoveSettle,
		"teleport settle": c.TeleportSettle,
		"click settle":    c.ClickSettle,
		"click flash":     c.ClickFlash,
		"annotate swap":   c.AnnotateSwap,
		"annotate settle": c.AnnotateSettle,
		"watch debounce":  c.WatchDebounce,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	return nil
}

// Timings converts the duration settings.
func (c Config) Timings() api.Timings {
	return api.Timings{
		MoveDuration:   c.MoveDuration,
		MoveSettle:     c.MoveSettle,
		TeleportSettle: c.TeleportSettle,
		ClickSettle:    c.ClickSettle,
		ClickFlash:     c.ClickFlash,
		PausePoll:      c.PausePoll,
		AnnotateSwap:   c.AnnotateSwap,
		AnnotateSettle: c.AnnotateSettle,
		ScrollMargin:   c.ScrollMargin,
	}
}

// Strategy returns the parsed pause strategy, falling back to polling.
func (c Config) Strategy() api.PauseStrategy {
	s, _ := api.ParsePauseStrategy(c.PauseStrategy)
	return s
}

// NormalizeLogLevel validates and canonicalizes log level names.
func NormalizeLogLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return "info", nil
	case "debug":
		return "debug", nil
	case "warn", "warning":
		return "warn", nil
	case "error":
		return "error", nil
	default:
		return "", fmt.Errorf("unsupported log level %q", level)
	}
}

// NormalizeFormat validates and canonicalizes logging format identifiers.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return "json", nil
	case "console", "text":
		return "text", nil
	default:
		return "", fmt.Errorf("unsupported log format %q", format)
	}
}
