package domain

import "time"

// DayBreakHour is the local hour at which one tracked day rolls into the
// next. Activity between midnight and 7 AM belongs to the previous day.
const DayBreakHour = 7

// RewindTime maps a unix timestamp to the day-start timestamp (7 AM local)
// of the tracked day that timestamp belongs to.
func RewindTime(t int64, loc *time.Location) int64 {
	if loc == nil {
		loc = time.Local
	}
	d := time.Unix(t, 0).In(loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), DayBreakHour, 0, 0, 0, loc)
	if d.Hour() < DayBreakHour {
		day = day.AddDate(0, 0, -1)
	}
	return day.Unix()
}
