package normalize

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

// DueValue is a due date as the source delivered it.
type DueValue interface {
	dueTime() (time.Time, bool)
}

type DueTime time.Time

// DueString is an ISO-8601 date or date-time.
type DueString string

// DueMillis is a Unix epoch timestamp in milliseconds, interpreted as UTC.
type DueMillis int64

func (d DueTime) dueTime() (time.Time, bool) {
	t := time.Time(d)
	return t, !t.IsZero()
}

func (d DueString) dueTime() (time.Time, bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (d DueMillis) dueTime() (time.Time, bool) {
	if d == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(d)).UTC(), true
}

// Due renders v as a full RFC 3339 date-time when hasTime is set and as a bare
// YYYY-MM-DD date otherwise. Absent or unparseable input yields "".
func Due(v DueValue, hasTime bool) string {
	if v == nil {
		return ""
	}
	t, ok := v.dueTime()
	if !ok {
		return ""
	}
	if hasTime {
		return t.Format(time.RFC3339)
	}
	return t.Format(dateLayout)
}

// IsDateOnly reports whether a normalized due value carries no time of day.
func IsDateOnly(due string) bool {
	return len(due) == len(dateLayout)
}
