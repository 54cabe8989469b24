package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock hour and minute.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t comes strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

var namedTimes = map[string]TimeOfDay{
	"morning":     {8, 0},
	"breakfast":   {8, 0},
	"midmorning":  {10, 0},
	"mid-morning": {10, 0},
	"noon":        {12, 0},
	"midday":      {12, 0},
	"lunch":       {12, 0},
	"afternoon":   {15, 0},
	"evening":     {18, 0},
	"dinner":      {18, 0},
	"night":       {21, 0},
	"bedtime":     {21, 0},
	"midnight":    {0, 0},
}

// TimeFormatHelp lists the accepted time-of-day formats for error messages.
const TimeFormatHelp = `Valid formats:
  - Named times: 'morning', 'noon', 'evening', 'bedtime'
  - Time format: '8:00', '08:30', '14:15'
  - Hour only: '8', '14' (defaults to :00)`

// ParseTime parses a named time ("morning", "bedtime"), an H:M pair
// ("8:05", "14:30") or a bare hour ("8").
func ParseTime(s string) (TimeOfDay, bool) {
	trimmed := strings.TrimSpace(s)

	if t, ok := namedTimes[strings.ToLower(trimmed)]; ok {
		return t, true
	}

	if strings.Contains(trimmed, ":") {
		parts := strings.Split(trimmed, ":")
		if len(parts) != 2 {
			return TimeOfDay{}, false
		}
		hour, ok := parseUnsigned(parts[0])
		if !ok {
			return TimeOfDay{}, false
		}
		minute, ok := parseUnsigned(parts[1])
		if !ok {
			return TimeOfDay{}, false
		}
		if hour >= 24 || minute >= 60 {
			return TimeOfDay{}, false
		}
		return TimeOfDay{Hour: hour, Minute: minute}, true
	}

	if hour, ok := parseUnsigned(trimmed); ok {
		if hour >= 24 {
			return TimeOfDay{}, false
		}
		return TimeOfDay{Hour: hour}, true
	}

	return TimeOfDay{}, false
}

func parseUnsigned(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsTimeDue reports whether now is at or past the scheduled time of day.
// Unparsable schedules are never due.
func IsTimeDue(scheduled string, now time.Time) bool {
	at, ok := ParseTime(scheduled)
	if !ok {
		return false
	}
	current := TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}
	return !current.Before(at)
}
