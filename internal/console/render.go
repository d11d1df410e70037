package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/username/calendar-notes/internal/calendar"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles holds the day cell styles
type Styles struct {
	SelectedToday lipgloss.Style
	Selected      lipgloss.Style
	Today         lipgloss.Style
	Holiday       lipgloss.Style
	Weekend       lipgloss.Style
	Workday       lipgloss.Style
	Header        lipgloss.Style
	Warning       lipgloss.Style
}

// NewStyles builds styles bound to the output. "auto" colors only real terminals.
func NewStyles(out io.Writer, mode string) Styles {
	r := lipgloss.NewRenderer(out)
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	}

	white := lipgloss.Color("15")
	black := lipgloss.Color("0")

	return Styles{
		SelectedToday: r.NewStyle().Background(lipgloss.Color("5")).Foreground(white),
		Selected:      r.NewStyle().Background(lipgloss.Color("4")).Foreground(white),
		Today:         r.NewStyle().Background(lipgloss.Color("2")).Foreground(black),
		Holiday:       r.NewStyle().Background(lipgloss.Color("3")).Foreground(black),
		Weekend:       r.NewStyle().Foreground(lipgloss.Color("1")),
		Workday:       r.NewStyle(),
		Header:        r.NewStyle().Bold(true),
		Warning:       r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// dayStyle picks the style by priority: selected+today, selected, today, holiday, weekend
func (s Styles) dayStyle(dd calendar.DayDescriptor) lipgloss.Style {
	switch {
	case dd.IsSelected && dd.IsToday:
		return s.SelectedToday
	case dd.IsSelected:
		return s.Selected
	case dd.IsToday:
		return s.Today
	case dd.IsHoliday:
		return s.Holiday
	case dd.IsWeekend:
		return s.Weekend
	}
	return s.Workday
}

// dayLabel is four columns wide: [dd] for days with a note, (dd) for the cursor
func dayLabel(dd calendar.DayDescriptor) string {
	switch {
	case dd.HasNote:
		return fmt.Sprintf("[%2d]", dd.Date.Day)
	case dd.IsSelected:
		return fmt.Sprintf("(%2d)", dd.Date.Day)
	}
	return fmt.Sprintf(" %2d ", dd.Date.Day)
}

func formatDate(d calendar.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

func formatDayMonth(d calendar.Date) string {
	return fmt.Sprintf("%02d.%02d", d.Day, int(d.Month))
}

func holidayKind(h calendar.Holiday) string {
	if h.IsOfficial {
		return "офиц."
	}
	return "трад."
}

// RenderGrid renders the weekday header and the month grid
func RenderGrid(v calendar.View, s Styles) string {
	var b strings.Builder

	headers := make([]string, len(calendar.WeekdayShortNames))
	for i, name := range calendar.WeekdayShortNames {
		headers[i] = " " + name + " "
	}
	b.WriteString(s.Header.Render(strings.Join(headers, " ")))
	b.WriteString("\n")

	for i, c := range v.Cells {
		if i%7 != 0 {
			b.WriteString(" ")
		}
		if c.Kind == calendar.CellBlank {
			b.WriteString("    ")
		} else {
			b.WriteString(s.dayStyle(c.Descriptor).Render(dayLabel(c.Descriptor)))
		}
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	if len(v.Cells)%7 != 0 {
		b.WriteString("\n")
	}

	return b.String()
}

// RenderMonth renders the main screen without the menu
func RenderMonth(v calendar.View, s Styles) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== КАЛЕНДАРЬ ===\n\n")
	fmt.Fprintf(&b, "Сегодня: %s\n", formatDate(v.Today))
	fmt.Fprintf(&b, "Выбранная дата: %s\n", formatDate(v.Selected))
	fmt.Fprintf(&b, "Текущий месяц: %s\n\n", v.Month)

	b.WriteString(RenderGrid(v, s))
	b.WriteString("\nПометки:\n  [ ] - Заметки  ( ) - Курсор\n\n")

	if len(v.SelectedNotes) > 0 {
		b.WriteString("Заметки на выбранную дату:\n")
		for _, n := range v.SelectedNotes {
			fmt.Fprintf(&b, "  • %s\n", n.Text)
		}
		b.WriteString("\n")
	}

	if len(v.Holidays) > 0 {
		b.WriteString("Праздники этого месяца:\n")
		for _, h := range v.Holidays {
			fmt.Fprintf(&b, "  • %s (%s) - %s\n", formatDayMonth(h.Date), holidayKind(h), h.Name)
		}
		b.WriteString("\n")
	}

	if v.PendingWrites {
		b.WriteString(s.Warning.Render("Есть несохранённые заметки, повторите сохранение позже"))
		b.WriteString("\n\n")
	}

	return b.String()
}

// RenderStatistics renders the work/weekend/holiday screen
func RenderStatistics(stats calendar.MonthStatistics, holidays []calendar.Holiday, upcoming []calendar.UpcomingHoliday) string {
	var b strings.Builder

	b.WriteString("=== РАБОЧИЕ ДНИ, ВЫХОДНЫЕ И ПРАЗДНИКИ ===\n\n")
	fmt.Fprintf(&b, "Месяц: %s\n", calendar.YearMonth{Year: stats.Year, Month: stats.Month})

	b.WriteString("\nРабочие дни (Пн-Пт, не праздники):\n")
	writeDates(&b, stats.WorkDates)

	b.WriteString("\nВыходные дни (Сб-Вс, не праздники):\n")
	writeDates(&b, stats.WeekendDates)

	b.WriteString("\nПраздничные дни:\n")
	for _, h := range holidays {
		fmt.Fprintf(&b, "  %s (%s) - %s\n", formatDayMonth(h.Date), holidayKind(h), h.Name)
	}

	b.WriteString("\nСтатистика:\n")
	fmt.Fprintf(&b, "• Рабочих дней: %d\n", stats.WorkDays)
	fmt.Fprintf(&b, "• Выходных дней: %d\n", stats.WeekendDays)
	fmt.Fprintf(&b, "• Праздничных дней: %d\n", stats.HolidayCount)
	fmt.Fprintf(&b, "• Всего дней в месяце: %d\n", stats.TotalDays)

	if len(upcoming) > 0 {
		b.WriteString("\nБлижайшие праздники:\n")
		for _, u := range upcoming {
			fmt.Fprintf(&b, "  %s - %s (%s)\n", formatDate(u.Date), u.Name, daysLeftLabel(u.DaysLeft))
		}
	}

	return b.String()
}

func daysLeftLabel(days int) string {
	if days == 0 {
		return "Сегодня"
	}
	return fmt.Sprintf("через %d дн.", days)
}

func writeDates(b *strings.Builder, dates []calendar.Date) {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = formatDayMonth(d)
	}
	b.WriteString(strings.Join(labels, " "))
	b.WriteString("\n")
}
