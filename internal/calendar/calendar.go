package calendar

import "time"

// DayType classifies a day for statistics. Each day has exactly one type.
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	}
	return "unknown"
}

// DayDescriptor carries everything a front-end needs to style one day
type DayDescriptor struct {
	Date       Date
	IsToday    bool
	IsSelected bool
	IsWeekend  bool
	IsHoliday  bool
	HasNote    bool
}

// Type returns the statistics bucket of the day; holidays win over weekends
func (dd DayDescriptor) Type() DayType {
	switch {
	case dd.IsHoliday:
		return DayTypeHoliday
	case dd.IsWeekend:
		return DayTypeWeekend
	}
	return DayTypeWorkday
}

// MonthStatistics represents work/weekend/holiday counts for a month.
// WorkDays + WeekendDays + HolidayCount == TotalDays.
type MonthStatistics struct {
	Year         int
	Month        time.Month
	WorkDays     int
	WeekendDays  int
	HolidayCount int
	TotalDays    int
	WorkDates    []Date
	WeekendDates []Date
}

// HolidayLookup is the read-only holiday view the engine depends on
type HolidayLookup interface {
	// IsHoliday checks if any holiday falls on the date
	IsHoliday(d Date) bool

	// HolidaysIn returns the holidays of a month ordered by day
	HolidaysIn(year int, month time.Month) []Holiday

	// Upcoming returns holidays in [from, from+withinDays] ordered by date
	Upcoming(from Date, withinDays, limit int) []UpcomingHoliday
}
