package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := load(viper.New(), home)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.APIHost)
	assert.Equal(t, 5600, cfg.APIPort)
	assert.Equal(t, filepath.Join(home, "daily-summaries"), cfg.OutputDir)
	assert.InDelta(t, 10.0, cfg.MinDurationSeconds, 0.001)
	assert.Equal(t, 15, cfg.TopAppsCount)
	assert.True(t, cfg.Calendar.ExcludeRecurring)
	assert.Empty(t, cfg.Calendar.Names)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.False(t, cfg.NotifyEnabled)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	confDir := filepath.Join(home, ".config", "dayrecap")
	require.NoError(t, os.MkdirAll(confDir, 0o755))

	fileBody := `
[api]
host = "tracker.local"
port = 5666

[activity]
min_duration_seconds = 5.0

[calendar]
names = "업무, 팀 공유"
`
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.toml"), []byte(fileBody), 0o644))

	cfg, err := load(viper.New(), home)
	require.NoError(t, err)

	assert.Equal(t, "tracker.local", cfg.APIHost)
	assert.Equal(t, 5666, cfg.APIPort)
	assert.InDelta(t, 5.0, cfg.MinDurationSeconds, 0.001)
	assert.Equal(t, []string{"업무", "팀 공유"}, cfg.Calendar.Names)
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	home := t.TempDir()
	confDir := filepath.Join(home, ".config", "dayrecap")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.toml"), []byte("[api]\nhost = \"from-file\"\n"), 0o644))

	t.Setenv("DAYRECAP_API_HOST", "from-env")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/T000")
	t.Setenv("GEMINI_API_KEY", "k-123")
	t.Setenv("GCAL_WORK_CALENDARS", "업무,1:1")

	cfg, err := load(viper.New(), home)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIHost)
	assert.Equal(t, "https://hooks.slack.test/T000", cfg.SlackWebhookURL)
	assert.Equal(t, "k-123", cfg.GeminiAPIKey)
	assert.Equal(t, []string{"업무", "1:1"}, cfg.Calendar.Names)
}

func TestLoadHolidaysEmbeddedTable(t *testing.T) {
	cal, err := LoadHolidays("")
	require.NoError(t, err)

	assert.True(t, cal.IsNonWorkingDay(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.IsNonWorkingDay(time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsNonWorkingDay(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestLoadHolidaysOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("2030:\n  - \"07-01\"\n"), 0o644))

	cal, err := LoadHolidays(path)
	require.NoError(t, err)

	// 2030-07-01 is a Monday.
	assert.True(t, cal.IsNonWorkingDay(time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC)))
	// Embedded years are not merged in when a file is given.
	assert.False(t, cal.IsNonWorkingDay(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLoadHolidaysRejectsMalformedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("2030:\n  - \"13-40\"\n"), 0o644))

	_, err := LoadHolidays(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad holiday entry")
}
