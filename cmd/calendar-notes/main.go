package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/calendar-notes/internal/calendar"
	"github.com/username/calendar-notes/internal/config"
	"github.com/username/calendar-notes/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	rootCmd := newRootCmd()

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "calendar-notes",
		Short: "Календарь с заметками и праздниками",
		Long:  "Console calendar with per-day notes, Russian holidays and monthly work/weekend statistics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.GetLogLevel())
				if err != nil {
					logger = initLogger(cfg.Log.GetLogLevel()) // Fallback to stderr
				}
			} else {
				logger = initLogger(cfg.Log.GetLogLevel())
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.calendar-notes, /etc/calendar-notes)")

	console := consoleCmd()
	rootCmd.RunE = console.RunE

	rootCmd.AddCommand(
		console,
		monthCmd(),
		statsCmd(),
		holidaysCmd(),
		noteCmd(),
		gotoCmd(),
		exportCmd(),
		trayCmd(),
	)

	return rootCmd
}

// buildEngine wires the holiday table, the note store and the engine from config
func buildEngine() (*calendar.Engine, error) {
	holidays := calendar.BuildHolidays(cfg.Holidays.YearFrom, cfg.Holidays.YearTo)

	if cfg.Holidays.ExtraFile != "" {
		extra, err := calendar.LoadHolidayFile(cfg.Holidays.ExtraFile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load extra holidays: %w", err)
		}
		holidays = append(holidays, extra...)
		logger.Info("Loaded extra holidays",
			zap.String("file", cfg.Holidays.ExtraFile),
			zap.Int("count", len(extra)))
	}

	registry := calendar.NewHolidayRegistry(holidays)
	store := calendar.NewNoteStore(cfg.Storage.NotesFile, logger)
	engine := calendar.NewEngine(store, registry, logger)

	if err := engine.LoadNotes(); err != nil {
		// the engine stays usable with an empty store; the broken file is kept as .bak
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return engine, nil
}

func initLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.WarnLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return logger
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}

// parseDateArg accepts the formats of dateutil.ParseDate
func parseDateArg(s string) (calendar.Date, error) {
	t, err := dateutil.ParseDate(s)
	if err != nil {
		return calendar.Date{}, err
	}
	d := calendar.DateOf(t)
	if err := calendar.ValidateDate(d.Year, int(d.Month), d.Day); err != nil {
		return calendar.Date{}, err
	}
	return d, nil
}

var yearMonthFormats = []string{"2006-01", "01.2006", "1.2006", "01/2006"}

// parseYearMonthArg parses "2024-02" or "02.2024"; an empty string means the current month
func parseYearMonthArg(s string, today calendar.Date) (calendar.YearMonth, error) {
	if s == "" {
		return today.YearMonth(), nil
	}
	for _, layout := range yearMonthFormats {
		if t, err := time.Parse(layout, s); err == nil {
			ym := calendar.YearMonth{Year: t.Year(), Month: t.Month()}
			if ym.Year < calendar.MinYear || ym.Year > calendar.MaxYear {
				break
			}
			return ym, nil
		}
	}
	return calendar.YearMonth{}, fmt.Errorf("%w: expected month as YYYY-MM or MM.YYYY, got %q", calendar.ErrInvalidArgument, s)
}
