package calendar

import (
	"fmt"
	"time"

	"github.com/username/calendar-notes/pkg/dateutil"
)

// Date is a whole-day calendar date without a time-of-day component.
// It is comparable and used as the key for notes and holidays.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized date; out-of-range values roll over the way time.Date does
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf drops the time component of t, keeping t's own calendar day
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ValidateDate checks an explicit user-supplied date
func ValidateDate(year, month, day int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidDate, year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d outside 1-12", ErrInvalidDate, month)
	}
	if days := dateutil.DaysInMonth(year, time.Month(month)); day < 1 || day > days {
		return fmt.Errorf("%w: day %d outside 1-%d for %04d-%02d", ErrInvalidDate, day, days, year, month)
	}
	return nil
}

// Time returns the date at UTC midnight
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// AddMonths returns the same day n months later, clamped to the last day of the
// target month (Nov 30 + 3 months is Feb 28 or 29)
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := min(d.Day, dateutil.DaysInMonth(first.Year(), first.Month()))
	return Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// Weekday returns the day of the week
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// ISOWeekday returns 1=Monday ... 7=Sunday
func (d Date) ISOWeekday() int {
	return dateutil.ISOWeekday(d.Time())
}

// IsWeekend reports Saturday or Sunday
func (d Date) IsWeekend() bool {
	return dateutil.IsWeekend(d.Time())
}

// Compare returns -1, 0 or 1 ordering by (year, month, day)
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// YearMonth returns the month the date belongs to
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DaysBetween returns the number of whole days from -> to
func DaysBetween(from, to Date) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// YearMonth identifies a displayed month
type YearMonth struct {
	Year  int
	Month time.Month
}

// Next returns the following month, rolling the year over after December
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Prev returns the preceding month, rolling the year over before January
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Contains reports whether d falls in the month
func (ym YearMonth) Contains(d Date) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

// Days returns the number of days in the month
func (ym YearMonth) Days() int {
	return dateutil.DaysInMonth(ym.Year, ym.Month)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%s %d", MonthName(ym.Month), ym.Year)
}

var monthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// WeekdayShortNames are the grid column headers, Monday first
var WeekdayShortNames = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// MonthName returns the Russian name of the month
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}
