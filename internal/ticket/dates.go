package ticket

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate accepts the date shapes the form and the API have produced.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayParts is a calendar day split for display: SATURDAY, 05, JUL.
type DayParts struct {
	Weekday string
	Day     string
	Month   string
}

// FormatDay splits s into display parts; absent or unparseable dates give
// empty parts.
func FormatDay(s string) DayParts {
	t, ok := ParseDate(s)
	if !ok {
		return DayParts{}
	}
	return DayParts{
		Weekday: strings.ToUpper(t.Weekday().String()),
		Day:     t.Format("02"),
		Month:   strings.ToUpper(t.Format("Jan")),
	}
}

// String renders "{WEEKDAY}, {DD} {MON}", or "" when the date was unusable.
func (d DayParts) String() string {
	if d.Weekday == "" && d.Day == "" && d.Month == "" {
		return ""
	}
	return d.Weekday + ", " + d.Day + " " + d.Month
}
