package calendar

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NavigateKind is a navigation intent coming from a front-end
type NavigateKind int

const (
	NavigatePrevMonth NavigateKind = iota + 1
	NavigateNextMonth
	NavigatePrevWeek
	NavigateNextWeek
	NavigateToday
)

var navigateNames = map[NavigateKind]string{
	NavigatePrevMonth: "prev-month",
	NavigateNextMonth: "next-month",
	NavigatePrevWeek:  "prev-week",
	NavigateNextWeek:  "next-week",
	NavigateToday:     "today",
}

func (k NavigateKind) String() string {
	if name, ok := navigateNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NavigateKind(%d)", int(k))
}

// ParseNavigateKind parses names like "next-week"
func ParseNavigateKind(s string) (NavigateKind, error) {
	for kind, name := range navigateNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown navigation %q", ErrInvalidArgument, s)
}

// GridCell is a grid position resolved against the engine state
type GridCell struct {
	Cell
	Descriptor DayDescriptor
}

// View is everything a front-end needs to draw one screen
type View struct {
	Month         YearMonth
	Today         Date
	Selected      Date
	Cells         []GridCell
	Statistics    MonthStatistics
	Holidays      []Holiday
	SelectedNotes []Note
	PendingWrites bool
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine is the single façade front-ends talk to. It owns the navigation state and
// the note store; the holiday data is shared and read-only. Not safe for concurrent use.
type Engine struct {
	nav      *Navigation
	notes    *NoteStore
	holidays HolidayLookup
	now      func() time.Time
	logger   *zap.Logger
	loadErr  error
}

// NewEngine creates an engine positioned at today
func NewEngine(notes *NoteStore, holidays HolidayLookup, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		notes:    notes,
		holidays: holidays,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.nav = NewNavigation(e.Today())
	return e
}

// LoadNotes reads the note file. A failure leaves the store empty and is kept as a
// warning (see LoadWarning); the engine stays usable.
func (e *Engine) LoadNotes() error {
	e.loadErr = e.notes.Load()
	if e.loadErr != nil {
		e.logger.Warn("Failed to load notes, starting with an empty store",
			zap.String("file", e.notes.Path()),
			zap.Error(e.loadErr))
	}
	return e.loadErr
}

// LoadWarning returns the error of the last LoadNotes, if any
func (e *Engine) LoadWarning() error {
	return e.loadErr
}

// Today returns the current date according to the engine clock
func (e *Engine) Today() Date {
	return DateOf(e.now())
}

// CurrentMonth returns the displayed month
func (e *Engine) CurrentMonth() YearMonth {
	return e.nav.CurrentMonth()
}

// Selected returns the selected date
func (e *Engine) Selected() Date {
	return e.nav.Selected()
}

// Navigate applies a navigation intent
func (e *Engine) Navigate(kind NavigateKind) error {
	switch kind {
	case NavigatePrevMonth:
		e.nav.PrevMonth()
	case NavigateNextMonth:
		e.nav.NextMonth()
	case NavigatePrevWeek:
		e.nav.PrevWeek()
	case NavigateNextWeek:
		e.nav.NextWeek()
	case NavigateToday:
		e.nav.GotoToday(e.Today())
	default:
		return fmt.Errorf("%w: unknown navigation %d", ErrInvalidArgument, int(kind))
	}

	e.logger.Debug("Navigated",
		zap.Stringer("kind", kind),
		zap.Stringer("month", e.nav.CurrentMonth()),
		zap.Stringer("selected", e.nav.Selected()))
	return nil
}

// SelectDate selects an explicit date; invalid input leaves the state unchanged
func (e *Engine) SelectDate(year, month, day int) error {
	if err := e.nav.GotoDate(year, month, day); err != nil {
		e.logger.Debug("Rejected date selection",
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Int("day", day),
			zap.Error(err))
		return err
	}
	return nil
}

// NoteOn returns the note on the date
func (e *Engine) NoteOn(d Date) (Note, bool) {
	return e.notes.Get(d)
}

// NotesOn returns the notes on the date
func (e *Engine) NotesOn(d Date) []Note {
	return e.notes.NotesOn(d)
}

// Notes returns every note ordered by date
func (e *Engine) Notes() []Note {
	return e.notes.All()
}

// AddNote sets the note of the selected date, replacing an existing one.
// The caller confirms replacement beforehand.
func (e *Engine) AddNote(text string) error {
	return e.SetNote(e.nav.Selected(), text)
}

// SetNote sets the note of an arbitrary date. Front-ends whose events carry a date
// (click on a day cell) use this instead of moving the selection first.
func (e *Engine) SetNote(d Date, text string) error {
	replaced := e.notes.Has(d)
	if err := e.notes.Upsert(d, text); err != nil {
		return err
	}

	e.logger.Info("Note saved",
		zap.String("date", d.String()),
		zap.Bool("replaced", replaced))

	return e.persist()
}

// DeleteNote deletes the note with the 1-based index on the selected date
func (e *Engine) DeleteNote(index int) error {
	d := e.nav.Selected()
	if err := e.notes.Delete(d, index); err != nil {
		return err
	}

	e.logger.Info("Note deleted", zap.String("date", d.String()))

	return e.persist()
}

// persist writes the store through. A failed write keeps the in-memory change;
// the store stays dirty and the next save retries it.
func (e *Engine) persist() error {
	if err := e.notes.Save(); err != nil {
		e.logger.Error("Failed to save notes, change kept in memory",
			zap.String("file", e.notes.Path()),
			zap.Error(err))
		return err
	}
	return nil
}

// PendingWrites reports in-memory note changes that are not durable yet
func (e *Engine) PendingWrites() bool {
	return e.notes.Dirty()
}

// Flush retries a pending write
func (e *Engine) Flush() error {
	if !e.notes.Dirty() {
		return nil
	}
	return e.persist()
}

// Close saves the notes once more on clean shutdown
func (e *Engine) Close() error {
	if err := e.persist(); err != nil {
		return fmt.Errorf("failed to save notes on shutdown: %w", err)
	}
	return nil
}

// IsWeekend is strictly Saturday or Sunday
func (e *Engine) IsWeekend(d Date) bool {
	return d.IsWeekend()
}

// IsHoliday checks the holiday table
func (e *Engine) IsHoliday(d Date) bool {
	return e.holidays.IsHoliday(d)
}

// HolidaysIn returns the holidays of a month ordered by day
func (e *Engine) HolidaysIn(year int, month time.Month) []Holiday {
	return e.holidays.HolidaysIn(year, month)
}

// UpcomingHolidays returns holidays from today within the window. withinDays <= 0
// means UpcomingMonths calendar months from today.
func (e *Engine) UpcomingHolidays(withinDays, limit int) []UpcomingHoliday {
	today := e.Today()
	if withinDays <= 0 {
		withinDays = DaysBetween(today, today.AddMonths(UpcomingMonths))
	}
	return e.holidays.Upcoming(today, withinDays, limit)
}

// DescribeDay resolves the styling flags of a day
func (e *Engine) DescribeDay(d Date) DayDescriptor {
	return e.describeDay(d, e.Today())
}

func (e *Engine) describeDay(d, today Date) DayDescriptor {
	return DayDescriptor{
		Date:       d,
		IsToday:    d == today,
		IsSelected: d == e.nav.Selected(),
		IsWeekend:  d.IsWeekend(),
		IsHoliday:  e.holidays.IsHoliday(d),
		HasNote:    e.notes.Has(d),
	}
}

// Render resolves the displayed month into a view
func (e *Engine) Render() View {
	month := e.nav.CurrentMonth()
	today := e.Today()

	layout := Layout(month.Year, month.Month)
	cells := make([]GridCell, len(layout))
	for i, c := range layout {
		cells[i] = GridCell{Cell: c}
		if c.Kind == CellDay {
			cells[i].Descriptor = e.describeDay(c.Date, today)
		}
	}

	return View{
		Month:         month,
		Today:         today,
		Selected:      e.nav.Selected(),
		Cells:         cells,
		Statistics:    e.MonthStatistics(month.Year, month.Month),
		Holidays:      e.holidays.HolidaysIn(month.Year, month.Month),
		SelectedNotes: e.notes.NotesOn(e.nav.Selected()),
		PendingWrites: e.notes.Dirty(),
	}
}

// IsStorageError reports whether err is a persistence failure
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
