package tray

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/username/calendar-notes/internal/calendar"
	"github.com/username/calendar-notes/internal/console"
	"github.com/username/calendar-notes/pkg/dateutil"
	"go.uber.org/zap"
)

// IntentKind is the kind of a front-end request
type IntentKind int

const (
	IntentNavigate IntentKind = iota + 1
	IntentSelectDate
	IntentSetNote
	IntentDeleteNote
	IntentShowStatistics
	IntentShowUpcoming
	IntentShowNote
	IntentFlush
)

// Intent is a message from the menu to the goroutine owning the engine
type Intent struct {
	Kind     IntentKind
	Navigate calendar.NavigateKind
	Date     calendar.Date
	Text     string
	Index    int
}

// Status is what the session reports back after every intent
type Status struct {
	Title         string
	Tooltip       string
	Selected      calendar.Date
	Note          string // Note text of the selected date, empty when there is none
	Message       string // Non-empty when the front-end should show a dialog
	Err           error
	PendingWrites bool
}

// Session serializes all engine access on one goroutine. Menu handlers only send intents.
type Session struct {
	engine        *calendar.Engine
	intents       chan Intent
	updates       chan Status
	flushInterval time.Duration
	upcomingDays  int
	upcomingLimit int
	logger        *zap.Logger
}

// NewSession creates a session; Run must be started before intents are sent
func NewSession(engine *calendar.Engine, flushInterval time.Duration, upcomingDays, upcomingLimit int, logger *zap.Logger) *Session {
	if flushInterval <= 0 {
		flushInterval = time.Minute
	}
	return &Session{
		engine:        engine,
		intents:       make(chan Intent),
		updates:       make(chan Status, 1),
		flushInterval: flushInterval,
		upcomingDays:  upcomingDays,
		upcomingLimit: upcomingLimit,
		logger:        logger,
	}
}

// Send delivers an intent unless ctx is done first
func (s *Session) Send(ctx context.Context, in Intent) error {
	select {
	case s.intents <- in:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Updates delivers the latest status; older unread statuses are dropped
func (s *Session) Updates() <-chan Status {
	return s.updates
}

// Run handles intents until ctx is cancelled, then saves the notes once more.
// The owner of ctx is responsible for termination signals.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("Tray session started", zap.Duration("flush_interval", s.flushInterval))

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	s.publish(s.status(nil))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Tray session stopped")
			return s.engine.Close()

		case in := <-s.intents:
			s.publish(s.handle(in))

		case <-ticker.C:
			if !s.engine.PendingWrites() {
				continue
			}
			s.logger.Info("Retrying pending note write")
			s.publish(s.status(s.engine.Flush()))
		}
	}
}

func (s *Session) handle(in Intent) Status {
	var err error
	switch in.Kind {
	case IntentNavigate:
		err = s.engine.Navigate(in.Navigate)
	case IntentSelectDate:
		err = s.engine.SelectDate(in.Date.Year, int(in.Date.Month), in.Date.Day)
	case IntentSetNote:
		err = s.engine.SetNote(in.Date, in.Text)
	case IntentDeleteNote:
		err = s.engine.DeleteNote(in.Index)
	case IntentShowStatistics:
		st := s.status(nil)
		month := s.engine.CurrentMonth()
		st.Message = console.RenderStatistics(
			s.engine.MonthStatistics(month.Year, month.Month),
			s.engine.HolidaysIn(month.Year, month.Month),
			nil,
		)
		return st
	case IntentShowUpcoming:
		st := s.status(nil)
		st.Message = upcomingMessage(s.engine.UpcomingHolidays(s.upcomingDays, s.upcomingLimit))
		return st
	case IntentShowNote:
		st := s.status(nil)
		st.Message = noteMessage(st.Selected, st.Note)
		return st
	case IntentFlush:
		err = s.engine.Flush()
	default:
		err = fmt.Errorf("%w: unknown intent %d", calendar.ErrInvalidArgument, int(in.Kind))
	}

	if err != nil {
		s.logger.Warn("Intent failed", zap.Int("kind", int(in.Kind)), zap.Error(err))
	}
	return s.status(err)
}

func (s *Session) status(err error) Status {
	month := s.engine.CurrentMonth()
	stats := s.engine.MonthStatistics(month.Year, month.Month)
	selected := s.engine.Selected()

	tooltip := fmt.Sprintf("%s\nВыбрано: %s\nРабочих: %d, выходных: %d, праздников: %d",
		month, selected, stats.WorkDays, stats.WeekendDays, stats.HolidayCount)
	var note string
	if n, ok := s.engine.NoteOn(selected); ok {
		note = n.Text
		tooltip += "\nЗаметка: " + n.Text
	}

	return Status{
		Title:         month.String(),
		Tooltip:       tooltip,
		Selected:      selected,
		Note:          note,
		Err:           err,
		PendingWrites: s.engine.PendingWrites(),
	}
}

// publish replaces an unread status with the newer one
func (s *Session) publish(st Status) {
	select {
	case <-s.updates:
	default:
	}
	s.updates <- st
}

func upcomingMessage(upcoming []calendar.UpcomingHoliday) string {
	if len(upcoming) == 0 {
		return "Ближайших праздников нет"
	}
	var b strings.Builder
	for _, u := range upcoming {
		left := "сегодня"
		if u.DaysLeft > 0 {
			left = fmt.Sprintf("через %d дн.", u.DaysLeft)
		}
		fmt.Fprintf(&b, "%02d.%02d.%04d - %s (%s)\n", u.Date.Day, int(u.Date.Month), u.Date.Year, u.Name, left)
	}
	return b.String()
}

func noteMessage(d calendar.Date, text string) string {
	if text == "" {
		return fmt.Sprintf("%s: заметок нет", d)
	}
	return fmt.Sprintf("%s: %s", d, text)
}

// NoteIntent builds the intent that sets the note of d from free text (e.g. the clipboard)
func NoteIntent(d calendar.Date, text string) (Intent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Intent{}, fmt.Errorf("%w: note text is empty", calendar.ErrInvalidArgument)
	}
	return Intent{Kind: IntentSetNote, Date: d, Text: text}, nil
}

// SelectDateIntent builds the intent that selects the date written in text
func SelectDateIntent(text string) (Intent, error) {
	t, err := dateutil.ParseDate(text)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: %v", calendar.ErrInvalidDate, err)
	}
	return Intent{Kind: IntentSelectDate, Date: calendar.DateOf(t)}, nil
}
