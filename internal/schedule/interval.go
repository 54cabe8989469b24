package schedule

import (
	"strconv"
	"strings"
)

var asNeeded = map[string]bool{
	"prn":         true,
	"as needed":   true,
	"as-needed":   true,
	"asneeded":    true,
	"when needed": true,
}

var namedIntervals = map[string]int{
	"daily":       1,
	"every day":   1,
	"weekly":      7,
	"every week":  7,
	"monthly":     30,
	"every month": 30,
}

// ParseInterval maps a free-form frequency to the number of days between
// doses. recurring is false for as-needed medications, which have no
// schedule. Anything it cannot make sense of is treated as daily, so the
// parser never rejects input.
//
// Supported formats:
//   - "daily", "weekly", "monthly" (and "every day/week/month")
//   - "every N days", "every N weeks"
//   - "twice daily", "3 times a day" (several doses a day still count as daily)
//   - "prn", "as needed", "when needed"
func ParseInterval(frequency string) (days int, recurring bool) {
	lower := strings.ToLower(strings.TrimSpace(frequency))

	if asNeeded[lower] {
		return 0, false
	}

	if n, ok := namedIntervals[lower]; ok {
		return n, true
	}

	// "every N days" has to win over the generic "day" match below
	if strings.HasPrefix(lower, "every ") {
		parts := strings.Fields(lower)
		if len(parts) >= 3 {
			if n, err := strconv.Atoi(parts[1]); err == nil && n > 0 {
				switch {
				case strings.HasPrefix(parts[2], "week"):
					return n * 7, true
				case strings.HasPrefix(parts[2], "day"):
					return n, true
				}
			}
		}
	}

	if strings.Contains(lower, "daily") || strings.Contains(lower, "day") {
		return 1, true
	}

	return 1, true
}

// IsAsNeeded reports whether the frequency describes a PRN medication.
func IsAsNeeded(frequency string) bool {
	_, recurring := ParseInterval(frequency)
	return !recurring
}
