package calendar

import (
	"time"

	"github.com/username/calendar-notes/pkg/dateutil"
)

// MonthStatistics counts work, weekend and holiday days of a month.
// The buckets are mutually exclusive: a holiday on a weekend counts only as a holiday,
// and several holidays on one date count as one holiday day.
func (e *Engine) MonthStatistics(year int, month time.Month) MonthStatistics {
	stats := MonthStatistics{
		Year:      year,
		Month:     month,
		TotalDays: dateutil.DaysInMonth(year, month),
	}

	for day := 1; day <= stats.TotalDays; day++ {
		d := Date{Year: year, Month: month, Day: day}
		switch {
		case e.holidays.IsHoliday(d):
			stats.HolidayCount++
		case d.IsWeekend():
			stats.WeekendDays++
			stats.WeekendDates = append(stats.WeekendDates, d)
		default:
			stats.WorkDays++
			stats.WorkDates = append(stats.WorkDates, d)
		}
	}

	return stats
}
