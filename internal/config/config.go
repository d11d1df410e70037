package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CALENDAR_STORAGE_NOTES_FILE
const EnvPrefix = "CALENDAR"

const (
	defaultNotesFile     = "notes.json"
	defaultYearFrom      = 2023
	defaultYearTo        = 2026
	defaultUpcomingLimit = 5
	defaultLogLevel      = "warn"

	minYear = 1900
	maxYear = 2100
)

// Config represents application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Log      LogConfig      `mapstructure:"log"`
	Console  ConsoleConfig  `mapstructure:"console"`
	Tray     TrayConfig     `mapstructure:"tray"`
}

// StorageConfig represents note storage configuration
type StorageConfig struct {
	NotesFile string `mapstructure:"notes_file"`
}

// HolidaysConfig represents the holiday table configuration
type HolidaysConfig struct {
	YearFrom  int    `mapstructure:"year_from"`
	YearTo    int    `mapstructure:"year_to"`
	ExtraFile string `mapstructure:"extra_file"` // Optional, see calendar.LoadHolidayFile
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"` // Empty means stderr
	Level string `mapstructure:"level"`
}

// ConsoleConfig represents the interactive console configuration
type ConsoleConfig struct {
	Color         string `mapstructure:"color"` // "auto", "always" or "never"
	UpcomingDays  int    `mapstructure:"upcoming_days"` // 0 means three calendar months
	UpcomingLimit int    `mapstructure:"upcoming_limit"`
}

// TrayConfig represents the system tray configuration (Windows only)
type TrayConfig struct {
	FlushInterval string `mapstructure:"flush_interval"`
}

// Load loads configuration from file, .env and environment.
// A missing config file is not an error when no path is given explicitly.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.calendar-notes")
		v.AddConfigPath("/etc/calendar-notes")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		Storage:  StorageConfig{NotesFile: defaultNotesFile},
		Holidays: HolidaysConfig{YearFrom: defaultYearFrom, YearTo: defaultYearTo},
		Log:      LogConfig{Level: defaultLogLevel},
		Console: ConsoleConfig{
			Color:         "auto",
			UpcomingLimit: defaultUpcomingLimit,
		},
		Tray: TrayConfig{FlushInterval: "1m"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("storage.notes_file", d.Storage.NotesFile)
	v.SetDefault("holidays.year_from", d.Holidays.YearFrom)
	v.SetDefault("holidays.year_to", d.Holidays.YearTo)
	v.SetDefault("holidays.extra_file", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("console.color", d.Console.Color)
	v.SetDefault("console.upcoming_days", d.Console.UpcomingDays)
	v.SetDefault("console.upcoming_limit", d.Console.UpcomingLimit)
	v.SetDefault("tray.flush_interval", d.Tray.FlushInterval)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.NotesFile) == "" {
		return fmt.Errorf("storage.notes_file is required")
	}

	if c.Holidays.YearFrom < minYear || c.Holidays.YearFrom > maxYear {
		return fmt.Errorf("holidays.year_from must be between %d and %d, got %d", minYear, maxYear, c.Holidays.YearFrom)
	}
	if c.Holidays.YearTo < c.Holidays.YearFrom || c.Holidays.YearTo > maxYear {
		return fmt.Errorf("holidays.year_to must be between year_from and %d, got %d", maxYear, c.Holidays.YearTo)
	}

	switch c.Console.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("console.color must be 'auto', 'always' or 'never', got '%s'", c.Console.Color)
	}

	if c.Console.UpcomingDays < 0 {
		return fmt.Errorf("console.upcoming_days must not be negative")
	}
	if c.Console.UpcomingLimit < 0 {
		return fmt.Errorf("console.upcoming_limit must not be negative")
	}

	return nil
}

// GetUpcomingWindow returns the upcoming-holidays window in days and the result limit.
// A zero window is passed on as is and means three calendar months from today.
func (c *ConsoleConfig) GetUpcomingWindow() (days, limit int) {
	days, limit = c.UpcomingDays, c.UpcomingLimit
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	return days, limit
}

// GetColorMode returns the normalized color mode
func (c *ConsoleConfig) GetColorMode() string {
	if c.Color == "" {
		return "auto"
	}
	return c.Color
}

// GetFlushInterval returns how often the tray retries pending note writes
func (c *TrayConfig) GetFlushInterval() time.Duration {
	if c.FlushInterval == "" {
		return time.Minute
	}
	duration, err := time.ParseDuration(c.FlushInterval)
	if err != nil || duration <= 0 {
		return time.Minute
	}
	return duration
}

// GetLogLevel returns the log level, defaulting to warn
func (c *LogConfig) GetLogLevel() string {
	if c.Level == "" {
		return defaultLogLevel
	}
	return c.Level
}

// ExpandEnvVars expands environment variables in path settings
func (c *Config) ExpandEnvVars() {
	c.Storage.NotesFile = os.ExpandEnv(c.Storage.NotesFile)
	c.Holidays.ExtraFile = os.ExpandEnv(c.Holidays.ExtraFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
