package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/calendar-notes/internal/calendar"
	"github.com/username/calendar-notes/internal/console"
	"github.com/username/calendar-notes/internal/export"
	"github.com/username/calendar-notes/internal/tray"
	"go.uber.org/zap"
)

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Интерактивный календарь (по умолчанию)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := engine.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			days, limit := cfg.Console.GetUpcomingWindow()
			c := console.New(engine, os.Stdin, os.Stdout, console.Options{
				Color:         cfg.Console.GetColorMode(),
				UpcomingDays:  days,
				UpcomingLimit: limit,
			}, logger)

			return c.Run(ctx)
		},
	}
}

func monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Показать месяц",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			ym, err := parseYearMonthArg(firstArg(args), engine.Today())
			if err != nil {
				return err
			}
			if ym != engine.CurrentMonth() {
				if err := engine.SelectDate(ym.Year, int(ym.Month), 1); err != nil {
					return err
				}
			}

			styles := console.NewStyles(cmd.OutOrStdout(), cfg.Console.GetColorMode())
			fmt.Fprint(cmd.OutOrStdout(), console.RenderMonth(engine.Render(), styles))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [YYYY-MM]",
		Short: "Рабочие, выходные и праздничные дни месяца",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			ym, err := parseYearMonthArg(firstArg(args), engine.Today())
			if err != nil {
				return err
			}

			days, limit := cfg.Console.GetUpcomingWindow()
			fmt.Fprint(cmd.OutOrStdout(), console.RenderStatistics(
				engine.MonthStatistics(ym.Year, ym.Month),
				engine.HolidaysIn(ym.Year, ym.Month),
				engine.UpcomingHolidays(days, limit),
			))
			return nil
		},
	}
}

func holidaysCmd() *cobra.Command {
	var upcoming bool

	cmd := &cobra.Command{
		Use:   "holidays [YYYY-MM]",
		Short: "Праздники месяца или ближайшие праздники",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if upcoming {
				days, limit := cfg.Console.GetUpcomingWindow()
				for _, u := range engine.UpcomingHolidays(days, limit) {
					fmt.Fprintf(out, "%s  %-3d %s\n", u.Date, u.DaysLeft, u.Name)
				}
				return nil
			}

			ym, err := parseYearMonthArg(firstArg(args), engine.Today())
			if err != nil {
				return err
			}
			for _, h := range engine.HolidaysIn(ym.Year, ym.Month) {
				kind := "трад."
				if h.IsOfficial {
					kind = "офиц."
				}
				fmt.Fprintf(out, "%s  %s  %s\n", h.Date, kind, h.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "List holidays from today within the configured window")

	return cmd
}

func noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Заметки по датам",
	}

	cmd.AddCommand(noteAddCmd(), noteShowCmd(), noteDeleteCmd())

	return cmd
}

func noteAddCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "add DATE TEXT...",
		Short: "Добавить заметку на дату",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			d, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")

			if existing, ok := engine.NoteOn(d); ok && !force {
				return fmt.Errorf("note on %s already exists (%q), use --force to replace it", d, existing.Text)
			}

			if err := engine.SetNote(d, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Заметка на %s сохранена\n", d)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing note")

	return cmd
}

func noteShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [DATE]",
		Short: "Показать заметки (все или на дату)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			notes := engine.Notes()
			if len(args) == 1 {
				d, err := parseDateArg(args[0])
				if err != nil {
					return err
				}
				notes = engine.NotesOn(d)
			}

			writeNotes(cmd.OutOrStdout(), notes)
			return nil
		},
	}
}

func noteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE [INDEX]",
		Short: "Удалить заметку на дату",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			d, err := parseDateArg(args[0])
			if err != nil {
				return err
			}

			index := 1
			if len(args) == 2 {
				index, err = strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("%w: note index %q", calendar.ErrInvalidArgument, args[1])
				}
			}

			if err := engine.SelectDate(d.Year, int(d.Month), d.Day); err != nil {
				return err
			}
			if err := engine.DeleteNote(index); err != nil {
				if errors.Is(err, calendar.ErrNotFound) {
					return fmt.Errorf("no note %d on %s", index, d)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Заметка на %s удалена\n", d)
			return nil
		},
	}
}

func gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto DATE",
		Short: "Показать месяц с выбранной датой",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			d, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			if err := engine.SelectDate(d.Year, int(d.Month), d.Day); err != nil {
				return err
			}

			styles := console.NewStyles(cmd.OutOrStdout(), cfg.Console.GetColorMode())
			fmt.Fprint(cmd.OutOrStdout(), console.RenderMonth(engine.Render(), styles))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		formatName string
		year       int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Экспорт заметок и праздников года (ics, csv, json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			engine, err := buildEngine()
			if err != nil {
				return err
			}
			if year == 0 {
				year = engine.Today().Year
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("failed to create export file: %w", createErr)
				}
				defer func() {
					if closeErr := f.Close(); closeErr != nil && err == nil {
						err = fmt.Errorf("failed to close export file: %w", closeErr)
					}
				}()
				w = f
			}

			exporter := export.NewExporter(logger)
			return exporter.Export(w, format, year, engine.Notes(), holidaysOfYear(engine, year))
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "ics", "Export format: ics, csv or json")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year to export (default: current year)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func trayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Значок календаря в системном трее (Windows)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			days, limit := cfg.Console.GetUpcomingWindow()
			session := tray.NewSession(engine, cfg.Tray.GetFlushInterval(), days, limit, logger)

			app, err := tray.NewApp(session, logger)
			if err != nil {
				logger.Warn("Failed to initialize system tray", zap.Error(err))
				return err
			}
			return app.Run()
		},
	}
}

func holidaysOfYear(engine *calendar.Engine, year int) []calendar.Holiday {
	var holidays []calendar.Holiday
	for m := 1; m <= 12; m++ {
		holidays = append(holidays, engine.HolidaysIn(year, time.Month(m))...)
	}
	return holidays
}

func writeNotes(w io.Writer, notes []calendar.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "Заметок нет")
		return
	}
	for _, n := range notes {
		fmt.Fprintf(w, "%s  %s\n", n.Date, n.Text)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
