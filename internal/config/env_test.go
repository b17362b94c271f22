package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/pointer/pkg/api"
)

type envTestConfig struct {
	Port int `env:"POINTER_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, 123, cfg.Port)
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("POINTER_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse env:")
}

func TestLoadDefaultsMatchBuiltInTimings(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, api.DefaultTimings(), cfg.Timings())
	require.Equal(t, api.PausePoll, cfg.Strategy())
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.Watch)
	require.False(t, cfg.Beep)
	require.Empty(t, cfg.JournalPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POINTER_MOVE_DURATION", "250ms")
	t.Setenv("POINTER_SCROLL_MARGIN", "50")
	t.Setenv("POINTER_PAUSE_STRATEGY", "notify")
	t.Setenv("POINTER_JOURNAL_PATH", "/tmp/journal.db")
	t.Setenv("POINTER_INBOX_PATH", "/tmp/inbox.db")
	t.Setenv("POINTER_INBOX_REDIS_ADDR", "localhost:6379")
	t.Setenv("POINTER_BEEP", "true")

	cfg, err := Load()
	require.NoError(t, err)

	timings := cfg.Timings()
	require.Equal(t, 250*time.Millisecond, timings.MoveDuration)
	require.Equal(t, 50.0, timings.ScrollMargin)
	require.Equal(t, api.PauseNotify, cfg.Strategy())
	require.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	require.Equal(t, "/tmp/inbox.db", cfg.InboxPath)
	require.Equal(t, "localhost:6379", cfg.InboxRedisAddr)
	require.True(t, cfg.Beep)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"strategy", "POINTER_PAUSE_STRATEGY", "sometimes", "pause strategy"},
		{"level", "POINTER_LOG_LEVEL", "loud", "log level"},
		{"format", "POINTER_LOG_FORMAT", "xml", "log format"},
		{"poll", "POINTER_PAUSE_POLL", "0s", "pause poll"},
		{"negative", "POINTER_CLICK_FLASH", "-1s", "click flash"},
		{"duration", "POINTER_MOVE_SETTLE", "soon", "parse env:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	lvl, err := NormalizeLogLevel(" WARNING ")
	require.NoError(t, err)
	require.Equal(t, "warn", lvl)

	format, err := NormalizeFormat("console")
	require.NoError(t, err)
	require.Equal(t, "text", format)
}
