package calendar

import "time"

// Navigation holds the displayed month and the selected date.
// The selection may lie outside the displayed month after a month page.
type Navigation struct {
	current  YearMonth
	selected Date
}

// NewNavigation starts both the displayed month and the selection at today
func NewNavigation(today Date) *Navigation {
	return &Navigation{
		current:  today.YearMonth(),
		selected: today,
	}
}

// CurrentMonth returns the displayed month
func (n *Navigation) CurrentMonth() YearMonth {
	return n.current
}

// Selected returns the selected date
func (n *Navigation) Selected() Date {
	return n.selected
}

// PrevMonth pages the display back one month; the selection stays put
func (n *Navigation) PrevMonth() {
	n.current = n.current.Prev()
}

// NextMonth pages the display forward one month; the selection stays put
func (n *Navigation) NextMonth() {
	n.current = n.current.Next()
}

// PrevWeek moves the selection back seven days
func (n *Navigation) PrevWeek() {
	n.moveSelection(-7)
}

// NextWeek moves the selection forward seven days
func (n *Navigation) NextWeek() {
	n.moveSelection(7)
}

// moveSelection shifts the cursor and makes the grid follow it into another month
func (n *Navigation) moveSelection(days int) {
	n.selected = n.selected.AddDays(days)
	if !n.current.Contains(n.selected) {
		n.current = n.selected.YearMonth()
	}
}

// GotoDate validates and selects the date, displaying its month.
// On error the state is unchanged.
func (n *Navigation) GotoDate(year, month, day int) error {
	if err := ValidateDate(year, month, day); err != nil {
		return err
	}

	n.selected = Date{Year: year, Month: time.Month(month), Day: day}
	n.current = n.selected.YearMonth()
	return nil
}

// GotoToday selects today and displays its month
func (n *Navigation) GotoToday(today Date) {
	n.selected = today
	n.current = today.YearMonth()
}
