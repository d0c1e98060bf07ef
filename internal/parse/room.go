package parse

import (
	"fmt"
	"strings"
	"time"
)

const roomToken = "Room"

// acuityLayout is how Acuity renders appointment datetimes ("-0700", no colon).
const acuityLayout = "2006-01-02T15:04:05-0700"

// clockLayout renders a 12-hour wall time with a lowercase suffix, e.g. "10:30am".
const clockLayout = "3:04pm"

// ExtractRoom returns the token following "Room" in a calendar label,
// e.g. "Party Room 2" -> "2". It returns "" when there is no such token.
func ExtractRoom(label string) string {
	tokens := strings.Fields(label)
	for i, tok := range tokens {
		if tok != roomToken {
			continue
		}
		if i+1 < len(tokens) {
			return tokens[i+1]
		}
		return ""
	}
	return ""
}

// IsPrivateRoom reports whether room names one of the four private rooms.
func IsPrivateRoom(room string) bool {
	switch room {
	case "1", "2", "3", "4":
		return true
	}
	return false
}

// ParseDatetime accepts RFC 3339 and Acuity's offset-without-colon form.
func ParseDatetime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(acuityLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse datetime %q", raw)
	}
	return t, nil
}

// FormatClock renders t in loc as a short 12-hour time like "11:00am".
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(clockLayout)
}

// DateIn returns the calendar date of t in loc as YYYY-MM-DD.
func DateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
