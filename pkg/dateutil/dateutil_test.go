package dateutil

import (
	"testing"
	"time"
)

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  int
	}{
		{"Monday is 1", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), 1},
		{"Friday is 5", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), 5},
		{"Saturday is 6", time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), 6},
		{"Sunday is 7", time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekday(tt.input); got != tt.want {
				t.Errorf("ISOWeekday(%v) = %d, want %d",
					tt.input.Format("2006-01-02 Mon"), got, tt.want)
			}
		})
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  bool
	}{
		{"Saturday is weekend", time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), true},
		{"Sunday is weekend", time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), true},
		{"Monday is not weekend", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), false},
		{"Friday is not weekend", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsWeekend(tt.input)

			if result != tt.want {
				t.Errorf("IsWeekend(%v) = %v, want %v",
					tt.input.Format("2006-01-02 Mon"), result, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"February leap year", 2024, time.February, 29},
		{"February common year", 2023, time.February, 28},
		{"February divisible by 400", 2000, time.February, 29},
		{"February century", 1900, time.February, 28},
		{"January", 2024, time.January, 31},
		{"April", 2024, time.April, 30},
		{"December", 2100, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month); got != tt.want {
				t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestDaysInMonthMatchesTimePackage(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for month := time.January; month <= time.December; month++ {
			want := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			if got := DaysInMonth(year, month); got != want {
				t.Fatalf("DaysInMonth(%d, %d) = %d, want %d", year, month, got, want)
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			"ISO format YYYY-MM-DD",
			"2025-01-15",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Russian format DD.MM.YYYY",
			"15.01.2025",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Short Russian format",
			" 5.1.2025 ",
			time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Menu command is not a date",
			"7",
			time.Time{},
			true,
		},
		{
			"Impossible day",
			"2024-02-30",
			time.Time{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}
