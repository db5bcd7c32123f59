package normalize

import (
	"strings"
	"time"
)

// Day-first layouts in the order they are attempted. Excel cells arrive
// either as text in the Brazilian convention or as an already-rendered
// datetime string.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/06",
	"02-01-2006",
	"2006-01-02",          // ISO fallback for pre-converted exports
	"2006-01-02 15:04:05", // excelize renders datetime cells like this
	"2006-01-02T15:04:05Z07:00",
}

// Date parses a day-first date string. The boolean is false when the
// value is empty or matches no known layout; a failed parse is a soft
// data-quality issue, never an error.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthYear parses the inventory's fixed MM/YYYY text format into the
// first day of that month. Unparseable values are dropped from the
// latest-month computation by the caller.
func MonthYear(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"01/2006", "1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthKey renders a date as its YYYY-MM bucket label.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthStart floors a date to the first day of its calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
