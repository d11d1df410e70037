package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
	}
}

func newTestEngine(t *testing.T, today func() time.Time) *Engine {
	t.Helper()
	store := NewNoteStore(filepath.Join(t.TempDir(), "notes.json"), zap.NewNop())
	e := NewEngine(store, newTestRegistry(), zap.NewNop(), WithClock(today))
	require.NoError(t, e.LoadNotes())
	return e
}

func TestEngine_StartsAtToday(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.January, 29))

	assert.Equal(t, NewDate(2024, time.January, 29), e.Today())
	assert.Equal(t, NewDate(2024, time.January, 29), e.Selected())
	assert.Equal(t, YearMonth{Year: 2024, Month: time.January}, e.CurrentMonth())
}

func TestEngine_Navigate(t *testing.T) {
	t.Run("Next week crosses into February", func(t *testing.T) {
		e := newTestEngine(t, fixedClock(2024, time.January, 29))
		require.NoError(t, e.Navigate(NavigateNextWeek))

		assert.Equal(t, NewDate(2024, time.February, 5), e.Selected())
		assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, e.CurrentMonth())
	})

	t.Run("Next month leaves the cursor", func(t *testing.T) {
		e := newTestEngine(t, fixedClock(2024, time.January, 29))
		require.NoError(t, e.Navigate(NavigateNextMonth))

		assert.Equal(t, NewDate(2024, time.January, 29), e.Selected())
		assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, e.CurrentMonth())
	})

	t.Run("Today resets both", func(t *testing.T) {
		e := newTestEngine(t, fixedClock(2024, time.January, 29))
		require.NoError(t, e.SelectDate(2025, 6, 1))
		require.NoError(t, e.Navigate(NavigateToday))

		assert.Equal(t, NewDate(2024, time.January, 29), e.Selected())
		assert.Equal(t, YearMonth{Year: 2024, Month: time.January}, e.CurrentMonth())
	})

	t.Run("Unknown kind", func(t *testing.T) {
		e := newTestEngine(t, fixedClock(2024, time.January, 29))
		require.ErrorIs(t, e.Navigate(NavigateKind(42)), ErrInvalidArgument)
		assert.Equal(t, NewDate(2024, time.January, 29), e.Selected())
	})
}

func TestParseNavigateKind(t *testing.T) {
	for kind, name := range navigateNames {
		got, err := ParseNavigateKind(name)
		require.NoError(t, err)
		assert.Equal(t, kind, got)
		assert.Equal(t, name, kind.String())
	}

	_, err := ParseNavigateKind("sideways")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEngine_SelectDateInvalid(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.January, 29))

	require.ErrorIs(t, e.SelectDate(2024, 2, 30), ErrInvalidDate)

	assert.Equal(t, NewDate(2024, time.January, 29), e.Selected())
	assert.Equal(t, YearMonth{Year: 2024, Month: time.January}, e.CurrentMonth())
}

func TestEngine_NotesWriteThrough(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.January, 29))
	require.NoError(t, e.SelectDate(2024, 3, 8))

	require.NoError(t, e.AddNote("купить цветы"))
	assert.False(t, e.PendingWrites())

	reloaded := NewNoteStore(e.notes.Path(), zap.NewNop())
	require.NoError(t, reloaded.Load())
	n, ok := reloaded.Get(NewDate(2024, time.March, 8))
	require.True(t, ok)
	assert.Equal(t, "купить цветы", n.Text)

	require.NoError(t, e.AddNote("тюльпаны"))
	notes := e.NotesOn(NewDate(2024, time.March, 8))
	require.Len(t, notes, 1)
	assert.Equal(t, "тюльпаны", notes[0].Text)

	require.NoError(t, e.DeleteNote(1))
	require.ErrorIs(t, e.DeleteNote(1), ErrNotFound)
	_, ok = e.NoteOn(NewDate(2024, time.March, 8))
	assert.False(t, ok)
}

func TestEngine_AddNoteRejectsBlank(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.January, 29))

	require.ErrorIs(t, e.AddNote("  "), ErrInvalidArgument)
	assert.Empty(t, e.Notes())

	_, err := os.Stat(e.notes.Path())
	assert.True(t, os.IsNotExist(err), "nothing written for a rejected note")
}

func TestEngine_SaveFailureIsSurfaced(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := NewNoteStore(filepath.Join(blocker, "notes.json"), zap.NewNop())
	e := NewEngine(store, newTestRegistry(), zap.NewNop(), WithClock(fixedClock(2024, time.May, 9)))

	err := e.AddNote("парад")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.True(t, IsStorageError(err))
	assert.True(t, e.PendingWrites())
	assert.True(t, e.DescribeDay(NewDate(2024, time.May, 9)).HasNote)
	assert.True(t, e.Render().PendingWrites)

	require.NoError(t, os.Remove(blocker))
	require.NoError(t, e.Flush())
	assert.False(t, e.PendingWrites())
	require.NoError(t, e.Flush(), "nothing pending")
}

func TestEngine_LoadWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	store := NewNoteStore(path, zap.NewNop())
	e := NewEngine(store, newTestRegistry(), zap.NewNop(), WithClock(fixedClock(2024, time.May, 9)))

	require.ErrorIs(t, e.LoadNotes(), ErrStorageUnavailable)
	require.ErrorIs(t, e.LoadWarning(), ErrStorageUnavailable)
	assert.Empty(t, e.Notes())

	require.NoError(t, e.AddNote("после сбоя"), "engine stays usable")
}

func TestEngine_SetNoteRejectsUnstorableDates(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.May, 9))
	require.NoError(t, e.SetNote(NewDate(2024, time.May, 9), "keep me"))

	require.ErrorIs(t, e.SetNote(Date{Year: 1850, Month: time.January, Day: 1}, "old"), ErrInvalidDate)
	require.ErrorIs(t, e.SetNote(Date{Year: 2024, Month: time.February, Day: 30}, "never"), ErrInvalidDate)
	assert.Len(t, e.Notes(), 1)
	assert.False(t, e.PendingWrites())

	reloaded := NewNoteStore(e.notes.Path(), zap.NewNop())
	require.NoError(t, reloaded.Load())
	n, ok := reloaded.Get(NewDate(2024, time.May, 9))
	require.True(t, ok)
	assert.Equal(t, "keep me", n.Text)
	assert.Equal(t, 1, reloaded.Len())
}

func TestEngine_CloseKeepsFileThatFailedToLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	require.NoError(t, os.Mkdir(path+backupSuffix, 0o755))

	store := NewNoteStore(path, zap.NewNop())
	e := NewEngine(store, newTestRegistry(), zap.NewNop(), WithClock(fixedClock(2024, time.May, 9)))
	require.ErrorIs(t, e.LoadNotes(), ErrStorageUnavailable)

	require.NoError(t, e.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestEngine_CloseSaves(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.May, 9))

	require.NoError(t, e.Close())

	data, err := os.ReadFile(e.notes.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEngine_DescribeDay(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.May, 9))
	require.NoError(t, e.SetNote(NewDate(2024, time.May, 11), "дача"))
	require.NoError(t, e.SelectDate(2024, 5, 11))

	today := e.DescribeDay(NewDate(2024, time.May, 9))
	assert.Equal(t, DayDescriptor{Date: NewDate(2024, time.May, 9), IsToday: true, IsHoliday: true}, today)
	assert.Equal(t, DayTypeHoliday, today.Type())

	saturday := e.DescribeDay(NewDate(2024, time.May, 11))
	assert.Equal(t, DayDescriptor{
		Date:       NewDate(2024, time.May, 11),
		IsSelected: true,
		IsWeekend:  true,
		HasNote:    true,
	}, saturday)
	assert.Equal(t, DayTypeWeekend, saturday.Type())

	assert.Equal(t, DayTypeWorkday, e.DescribeDay(NewDate(2024, time.May, 13)).Type())
}

func TestEngine_MonthStatistics(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.January, 29))

	tests := []struct {
		name                               string
		year                               int
		month                              time.Month
		wantWork, wantWeekend, wantHoliday int
		wantTotal                          int
	}{
		// Jan 1-8 are holidays; Jan 6 and 7 fall on the weekend and count once
		{"January 2024", 2024, time.January, 17, 6, 8, 31},
		// Feb 25 is a Sunday holiday
		{"February 2024", 2024, time.February, 19, 7, 3, 29},
		{"August 2024 without holidays", 2024, time.August, 22, 9, 0, 31},
		{"Outside holiday range", 2030, time.January, 23, 8, 0, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := e.MonthStatistics(tt.year, tt.month)

			assert.Equal(t, tt.wantWork, stats.WorkDays)
			assert.Equal(t, tt.wantWeekend, stats.WeekendDays)
			assert.Equal(t, tt.wantHoliday, stats.HolidayCount)
			assert.Equal(t, tt.wantTotal, stats.TotalDays)
			assert.Equal(t, stats.TotalDays, stats.WorkDays+stats.WeekendDays+stats.HolidayCount)
			assert.Len(t, stats.WorkDates, stats.WorkDays)
			assert.Len(t, stats.WeekendDates, stats.WeekendDays)
		})
	}

	jan := e.MonthStatistics(2024, time.January)
	assert.NotContains(t, jan.WorkDates, NewDate(2024, time.January, 1))
	assert.NotContains(t, jan.WeekendDates, NewDate(2024, time.January, 6))
}

func TestEngine_MonthStatisticsSharedHolidayDate(t *testing.T) {
	holidays := append(BuildHolidays(2024, 2024), Holiday{Date: NewDate(2024, time.January, 1), Name: "Extra"})
	store := NewNoteStore(filepath.Join(t.TempDir(), "notes.json"), zap.NewNop())
	e := NewEngine(store, NewHolidayRegistry(holidays), zap.NewNop(), WithClock(fixedClock(2024, time.January, 1)))

	stats := e.MonthStatistics(2024, time.January)

	assert.Equal(t, 8, stats.HolidayCount)
	assert.Len(t, e.HolidaysIn(2024, time.January), 9)
}

func TestEngine_Render(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.January, 29))
	require.NoError(t, e.AddNote("отчёт"))
	require.NoError(t, e.Navigate(NavigateNextWeek))

	v := e.Render()

	assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, v.Month)
	assert.Equal(t, NewDate(2024, time.January, 29), v.Today)
	assert.Equal(t, NewDate(2024, time.February, 5), v.Selected)
	require.Len(t, v.Cells, 3+29)
	assert.Equal(t, CellBlank, v.Cells[0].Kind)
	assert.Equal(t, DayDescriptor{}, v.Cells[0].Descriptor)

	feb5 := v.Cells[3+4]
	assert.Equal(t, 5, feb5.Day)
	assert.True(t, feb5.Descriptor.IsSelected)

	feb14 := v.Cells[3+13]
	assert.True(t, feb14.Descriptor.IsHoliday)

	assert.Len(t, v.Holidays, 3)
	assert.Empty(t, v.SelectedNotes, "note is on Jan 29, not on the selection")
	assert.Equal(t, 19, v.Statistics.WorkDays)
	assert.False(t, v.PendingWrites)
}

func TestEngine_UpcomingHolidays(t *testing.T) {
	e := newTestEngine(t, fixedClock(2024, time.May, 9))

	upcoming := e.UpcomingHolidays(92, 5)

	require.Len(t, upcoming, 5)
	assert.Equal(t, 0, upcoming[0].DaysLeft)
	assert.Equal(t, "День Победы", upcoming[0].Name)
	assert.Equal(t, NewDate(2024, time.May, 24), upcoming[1].Date)
}

func TestEngine_UpcomingHolidaysDefaultsToThreeMonths(t *testing.T) {
	upcomingDates := func(e *Engine) []Date {
		var dates []Date
		for _, u := range e.UpcomingHolidays(0, 0) {
			dates = append(dates, u.Date)
		}
		return dates
	}

	tests := []struct {
		name    string
		today   Date
		last    Date
		outside Date
	}{
		// Dec 31 + 3 months is Mar 31, only 90 days
		{"Window across February", NewDate(2024, time.December, 31), NewDate(2025, time.March, 8), NewDate(2025, time.April, 1)},
		{"Short window excludes day 92", NewDate(2025, time.January, 10), NewDate(2025, time.April, 1), NewDate(2025, time.April, 12)},
		{"End day is inclusive", NewDate(2025, time.January, 12), NewDate(2025, time.April, 12), NewDate(2025, time.May, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, fixedClock(tt.today.Year, tt.today.Month, tt.today.Day))

			dates := upcomingDates(e)

			require.NotEmpty(t, dates)
			assert.Equal(t, tt.last, dates[len(dates)-1])
			assert.NotContains(t, dates, tt.outside)
		})
	}

	t.Run("Positive window is in days", func(t *testing.T) {
		e := newTestEngine(t, fixedClock(2024, time.December, 31))
		upcoming := e.UpcomingHolidays(92, 0)
		require.NotEmpty(t, upcoming)
		assert.Equal(t, NewDate(2025, time.April, 1), upcoming[len(upcoming)-1].Date)
	})
}
