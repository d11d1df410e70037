package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/username/calendar-notes/internal/calendar"
	"go.uber.org/zap"
)

const (
	// ICSProductID identifies the generator in exported calendars
	ICSProductID = "-//calendar-notes//RU"

	uidDomain = "calendar-notes.local"

	// RFC 5545 line length limit in octets, without CRLF
	icsLineLimit = 75
)

// Format is an export file format
type Format string

const (
	FormatICS  Format = "ics"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name, case-insensitive
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatICS, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", calendar.ErrInvalidArgument, s)
}

// EventKind distinguishes exported entries
type EventKind string

const (
	KindNote               EventKind = "note"
	KindOfficialHoliday    EventKind = "official-holiday"
	KindTraditionalHoliday EventKind = "traditional-holiday"
)

// Event is one all-day entry of an export
type Event struct {
	Date  string    `json:"date"`
	Kind  EventKind `json:"kind"`
	Title string    `json:"title"`
}

// Exporter writes notes and holidays of a year to calendar files
type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{
		logger: logger,
		now:    time.Now,
	}
}

// Events collects the entries of the year ordered by date; holidays come before notes on the same day
func Events(year int, notes []calendar.Note, holidays []calendar.Holiday) []Event {
	var events []Event
	for _, h := range holidays {
		if h.Date.Year != year {
			continue
		}
		kind := KindTraditionalHoliday
		if h.IsOfficial {
			kind = KindOfficialHoliday
		}
		events = append(events, Event{Date: h.Date.String(), Kind: kind, Title: h.Name})
	}
	for _, n := range notes {
		if n.Date.Year != year {
			continue
		}
		events = append(events, Event{Date: n.Date.String(), Kind: KindNote, Title: n.Text})
	}

	// ISO dates sort lexically
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
	return events
}

// Export writes the year in the given format
func (x *Exporter) Export(w io.Writer, format Format, year int, notes []calendar.Note, holidays []calendar.Holiday) error {
	events := Events(year, notes, holidays)

	var err error
	switch format {
	case FormatICS:
		err = x.writeICS(w, year, events)
	case FormatCSV:
		err = writeCSV(w, events)
	case FormatJSON:
		err = writeJSON(w, year, events)
	default:
		return fmt.Errorf("%w: unknown export format %q", calendar.ErrInvalidArgument, format)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", format, err)
	}

	x.logger.Info("Calendar exported",
		zap.String("format", string(format)),
		zap.Int("year", year),
		zap.Int("events", len(events)))
	return nil
}

// icsWriter remembers the first write error so the generator stays linear
type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(format string, args ...interface{}) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, foldLine(fmt.Sprintf(format, args...))+"\r\n")
}

func (x *Exporter) writeICS(w io.Writer, year int, events []Event) error {
	iw := &icsWriter{w: w}
	stamp := x.now().UTC().Format("20060102T150405Z")

	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:%s", ICSProductID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("X-WR-CALNAME:%s", escapeText(fmt.Sprintf("Календарь %d", year)))

	seq := make(map[string]int)
	for _, e := range events {
		day, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			x.logger.Warn("Skipping event with invalid date", zap.String("date", e.Date))
			continue
		}
		seq[e.Date]++

		iw.line("BEGIN:VEVENT")
		iw.line("UID:%s-%s-%d@%s", day.Format("20060102"), e.Kind, seq[e.Date], uidDomain)
		iw.line("DTSTAMP:%s", stamp)
		iw.line("DTSTART;VALUE=DATE:%s", day.Format("20060102"))
		iw.line("DTEND;VALUE=DATE:%s", day.AddDate(0, 0, 1).Format("20060102"))
		iw.line("SUMMARY:%s", escapeText(e.Title))
		iw.line("CATEGORIES:%s", e.Kind)
		iw.line("TRANSP:TRANSPARENT")
		iw.line("END:VEVENT")
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

// escapeText escapes a TEXT value per RFC 5545
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}

// foldLine splits content lines longer than 75 octets without breaking UTF-8 sequences
func foldLine(s string) string {
	if len(s) <= icsLineLimit {
		return s
	}

	var b strings.Builder
	limit := icsLineLimit
	width := 0
	for _, r := range s {
		size := len(string(r))
		if width+size > limit {
			b.WriteString("\r\n ")
			width = 0
			// continuation lines start with a space
			limit = icsLineLimit - 1
		}
		b.WriteRune(r)
		width += size
	}
	return b.String()
}

func writeCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "kind", "title"}); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write([]string{e.Date, string(e.Kind), e.Title}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, year int, events []Event) error {
	if events == nil {
		events = []Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"year":   year,
		"count":  len(events),
		"events": events,
	})
}
