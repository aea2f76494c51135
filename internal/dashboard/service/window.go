package service

import "time"

// Window is a half-open time range [Start, End) used to scope counts.
// Windows are derived per request and never persisted.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Previous returns the immediately preceding window of equal length.
func (w Window) Previous() Window {
	return Window{Start: w.Start.Add(-w.Duration()), End: w.Start}
}

// TodayWindow returns the window from local midnight to the next midnight.
func TodayWindow(now time.Time) Window {
	start := startOfDay(now)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekWindow returns the window for the ISO week (Monday-anchored) containing now.
func WeekWindow(now time.Time) Window {
	day := startOfDay(now)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow returns the window for the calendar month containing now.
func MonthWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// QuarterWindow returns the window for the calendar quarter containing now.
func QuarterWindow(now time.Time) Window {
	quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
	start := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 3, 0)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
