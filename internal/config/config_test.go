package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
storage:
  notes_file: /tmp/my-notes.json
holidays:
  year_from: 2024
  year_to: 2025
  extra_file: extra.txt
log:
  level: debug
console:
  color: never
  upcoming_days: 30
  upcoming_limit: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/my-notes.json", cfg.Storage.NotesFile)
	assert.Equal(t, 2024, cfg.Holidays.YearFrom)
	assert.Equal(t, 2025, cfg.Holidays.YearTo)
	assert.Equal(t, "extra.txt", cfg.Holidays.ExtraFile)
	assert.Equal(t, "debug", cfg.Log.GetLogLevel())
	assert.Equal(t, "never", cfg.Console.GetColorMode())

	days, limit := cfg.Console.GetUpcomingWindow()
	assert.Equal(t, 30, days)
	assert.Equal(t, 3, limit)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  file: calendar.log\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "calendar.log", cfg.Log.File)
	assert.Equal(t, "notes.json", cfg.Storage.NotesFile)
	assert.Equal(t, 2023, cfg.Holidays.YearFrom)
	assert.Equal(t, 2026, cfg.Holidays.YearTo)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "storage:\n  notes_file: from-file.json\n")
	t.Setenv("CALENDAR_STORAGE_NOTES_FILE", "from-env.json")
	t.Setenv("CALENDAR_HOLIDAYS_YEAR_TO", "2030")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.Storage.NotesFile)
	assert.Equal(t, 2030, cfg.Holidays.YearTo)
}

func TestLoad_ExpandsEnvInPaths(t *testing.T) {
	t.Setenv("NOTES_DIR", "/data")
	path := writeConfig(t, "storage:\n  notes_file: ${NOTES_DIR}/notes.json\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/notes.json", cfg.Storage.NotesFile)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Explicit path missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("Invalid value", func(t *testing.T) {
		path := writeConfig(t, "console:\n  color: purple\n")
		_, err := Load(path)
		require.ErrorContains(t, err, "console.color")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Defaults", func(c *Config) {}, ""},
		{"Empty notes file", func(c *Config) { c.Storage.NotesFile = "  " }, "storage.notes_file"},
		{"Year before range", func(c *Config) { c.Holidays.YearFrom = 1899 }, "holidays.year_from"},
		{"Year range reversed", func(c *Config) { c.Holidays.YearTo = 2022 }, "holidays.year_to"},
		{"Year after range", func(c *Config) { c.Holidays.YearTo = 2101 }, "holidays.year_to"},
		{"Negative window", func(c *Config) { c.Console.UpcomingDays = -1 }, "console.upcoming_days"},
		{"Negative limit", func(c *Config) { c.Console.UpcomingLimit = -1 }, "console.upcoming_limit"},
		{"Empty color is auto", func(c *Config) { c.Console.Color = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetters(t *testing.T) {
	var console ConsoleConfig
	days, limit := console.GetUpcomingWindow()
	if days != 0 || limit != 5 {
		t.Errorf("GetUpcomingWindow() = %d, %d, want 0, 5", days, limit)
	}
	if got := console.GetColorMode(); got != "auto" {
		t.Errorf("GetColorMode() = %q, want auto", got)
	}

	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"30s", 30 * time.Second},
		{"garbage", time.Minute},
		{"-5s", time.Minute},
	}
	for _, tt := range tests {
		tray := TrayConfig{FlushInterval: tt.value}
		if got := tray.GetFlushInterval(); got != tt.want {
			t.Errorf("GetFlushInterval(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	var log LogConfig
	if got := log.GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
}
