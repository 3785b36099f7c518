package utils

import (
	"fmt"
	"time"
)

// WeeklyPeriod returns the Monday-to-Monday payout period label ("dd/mm - dd/mm")
// for the week containing t, shifted by offsetWeeks. Platforms settle the
// previous week, so callers normally pass -1.
func WeeklyPeriod(t time.Time, offsetWeeks int) string {
	monday := WeekStart(t).AddDate(0, 0, offsetWeeks*7)
	next := monday.AddDate(0, 0, 7)
	return fmt.Sprintf("%s - %s", monday.Format("02/01"), next.Format("02/01"))
}

// WeekStart returns midnight of the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	day := int(t.Weekday())
	shift := 1 - day
	if day == 0 {
		shift = -6
	}
	y, m, d := t.Date()
	return time.Date(y, m, d+shift, 0, 0, 0, 0, t.Location())
}
