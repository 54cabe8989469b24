package schedule

import (
	"time"

	"github.com/kutbudev/pharm-cli/internal/models"
)

// DaysBetween counts calendar days from one local date to another,
// ignoring the time of day.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// IntervalElapsed reports whether enough days have passed since the last
// dose. A missing or unreadable last dose date counts as elapsed: a wrong
// extra reminder is preferred to a silently skipped one.
func IntervalElapsed(lastDoseDate, frequency string, today time.Time) bool {
	if lastDoseDate == "" {
		return true
	}
	last, err := time.ParseInLocation(models.DateLayout, lastDoseDate, today.Location())
	if err != nil {
		return true
	}
	days, recurring := ParseInterval(frequency)
	if !recurring {
		days = 1
	}
	return DaysBetween(last, today) >= days
}

// IsDue reports whether a reminder for med should be shown at now: it is
// not taken, follows a schedule, its time of day has passed and its
// interval has elapsed.
func IsDue(med models.Medication, now time.Time) bool {
	if med.Taken {
		return false
	}
	if IsAsNeeded(med.MedicationFrequency) {
		return false
	}
	if !IsTimeDue(med.TimeOfDay, now) {
		return false
	}
	return IntervalElapsed(med.LastDoseDate, med.MedicationFrequency, now)
}

// ShouldReset reports whether a taken medication's flag should be cleared
// because its interval has come round again. As-needed medications never
// reset on a schedule.
func ShouldReset(med models.Medication, today time.Time) bool {
	if !med.Taken {
		return false
	}
	if IsAsNeeded(med.MedicationFrequency) {
		return false
	}
	return IntervalElapsed(med.LastDoseDate, med.MedicationFrequency, today)
}
