package calendar

import (
	"time"

	"github.com/username/calendar-notes/pkg/dateutil"
)

// CellKind distinguishes padding cells from day cells
type CellKind int

const (
	CellBlank CellKind = iota
	CellDay
)

// Cell is one position of the month grid. Day and Date are zero for blanks.
type Cell struct {
	Kind CellKind
	Day  int
	Date Date
}

// LeadingBlanks returns how many blank cells precede day 1 in a Monday-first grid
func LeadingBlanks(year int, month time.Month) int {
	return dateutil.ISOWeekday(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)) - 1
}

// Layout returns the flat month grid: 0..6 leading blanks followed by one cell per day.
// The last week is not padded.
func Layout(year int, month time.Month) []Cell {
	blanks := LeadingBlanks(year, month)
	days := dateutil.DaysInMonth(year, month)

	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Kind: CellBlank})
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, Cell{
			Kind: CellDay,
			Day:  day,
			Date: Date{Year: year, Month: month, Day: day},
		})
	}
	return cells
}

// Weeks groups cells into rows of seven; the last row may be shorter
func Weeks(cells []Cell) [][]Cell {
	var weeks [][]Cell
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		weeks = append(weeks, cells[start:end])
	}
	return weeks
}
