package calendar

import (
	"sort"
	"time"
)

// Default year range of the built-in holiday table
const (
	DefaultHolidayYearFrom = 2023
	DefaultHolidayYearTo   = 2026
)

// Holiday is a named date; official holidays are non-working days in Russia
type Holiday struct {
	Date       Date
	Name       string
	IsOfficial bool
}

// UpcomingHoliday is a holiday with the number of days left until it
type UpcomingHoliday struct {
	Holiday
	DaysLeft int // 0 means today
}

// UpcomingMonths is the default upcoming-holidays window in calendar months
const UpcomingMonths = 3

type holidayRule struct {
	month    time.Month
	day      int
	name     string
	official bool
}

var holidayRules = []holidayRule{
	// Official public holidays
	{time.January, 1, "Новый год", true},
	{time.January, 2, "Новогодние каникулы", true},
	{time.January, 3, "Новогодние каникулы", true},
	{time.January, 4, "Новогодние каникулы", true},
	{time.January, 5, "Новогодние каникулы", true},
	{time.January, 6, "Новогодние каникулы", true},
	{time.January, 7, "Рождество Христово", true},
	{time.January, 8, "Новогодние каникулы", true},
	{time.February, 23, "День защитника Отечества", true},
	{time.March, 8, "Международный женский день", true},
	{time.May, 1, "Праздник Весны и Труда", true},
	{time.May, 9, "День Победы", true},
	{time.June, 12, "День России", true},
	{time.November, 4, "День народного единства", true},

	// Traditional days, not days off
	{time.February, 14, "День святого Валентина", false},
	{time.February, 25, "День тестя", false},
	{time.April, 1, "День смеха", false},
	{time.April, 12, "День космонавтики", false},
	{time.May, 24, "День славянской письменности", false},
	{time.June, 1, "День защиты детей", false},
	{time.July, 8, "День семьи, любви и верности", false},
	{time.September, 1, "День знаний", false},
	{time.October, 5, "День учителя", false},
	{time.December, 31, "Канун Нового года", false},
}

// BuildHolidays materializes the fixed holiday table for every year in [yearFrom, yearTo]
func BuildHolidays(yearFrom, yearTo int) []Holiday {
	if yearTo < yearFrom {
		return nil
	}

	holidays := make([]Holiday, 0, (yearTo-yearFrom+1)*len(holidayRules))
	for year := yearFrom; year <= yearTo; year++ {
		for _, rule := range holidayRules {
			holidays = append(holidays, Holiday{
				Date:       Date{Year: year, Month: rule.month, Day: rule.day},
				Name:       rule.name,
				IsOfficial: rule.official,
			})
		}
	}
	return holidays
}

// HolidayRegistry is an immutable multimap of holidays keyed by date
type HolidayRegistry struct {
	holidays []Holiday
	byDate   map[Date][]int // date → indexes into holidays, in insertion order
}

// NewHolidayRegistry creates a registry; the slice is copied
func NewHolidayRegistry(holidays []Holiday) *HolidayRegistry {
	r := &HolidayRegistry{
		holidays: make([]Holiday, len(holidays)),
		byDate:   make(map[Date][]int, len(holidays)),
	}
	copy(r.holidays, holidays)

	for i, h := range r.holidays {
		r.byDate[h.Date] = append(r.byDate[h.Date], i)
	}
	return r
}

// IsHoliday checks if any holiday falls on the date
func (r *HolidayRegistry) IsHoliday(d Date) bool {
	return len(r.byDate[d]) > 0
}

// HolidaysOn returns every holiday on the date in insertion order
func (r *HolidayRegistry) HolidaysOn(d Date) []Holiday {
	idx := r.byDate[d]
	if len(idx) == 0 {
		return nil
	}

	result := make([]Holiday, len(idx))
	for i, j := range idx {
		result[i] = r.holidays[j]
	}
	return result
}

// HolidaysIn returns the holidays of a month ordered by day, insertion order breaking ties
func (r *HolidayRegistry) HolidaysIn(year int, month time.Month) []Holiday {
	var result []Holiday
	for _, h := range r.holidays {
		if h.Date.Year == year && h.Date.Month == month {
			result = append(result, h)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Day < result[j].Date.Day
	})
	return result
}

// Upcoming returns holidays dated within [from, from+withinDays], ordered by date and
// truncated to limit (limit <= 0 means no limit)
func (r *HolidayRegistry) Upcoming(from Date, withinDays, limit int) []UpcomingHoliday {
	if withinDays < 0 {
		return nil
	}
	to := from.AddDays(withinDays)

	var result []UpcomingHoliday
	for _, h := range r.holidays {
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		result = append(result, UpcomingHoliday{
			Holiday:  h,
			DaysLeft: DaysBetween(from, h.Date),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// All returns a copy of every holiday in insertion order
func (r *HolidayRegistry) All() []Holiday {
	result := make([]Holiday, len(r.holidays))
	copy(result, r.holidays)
	return result
}

// Len returns the number of holiday entries
func (r *HolidayRegistry) Len() int {
	return len(r.holidays)
}
