package daemon

import (
	"fmt"
	"strings"
	"time"

	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/notify"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

// State is what the daemon remembers between polls: the day of month it
// last saw and which medications were already reminded about that day.
type State struct {
	Day      int
	Notified map[string]bool
}

// NewState starts tracking at now with nothing notified.
func NewState(now time.Time) State {
	return State{Day: now.Day(), Notified: map[string]bool{}}
}

func key(name string) string {
	return strings.ToLower(name)
}

// WasNotified reports whether name was reminded about today.
func (s State) WasNotified(name string) bool {
	return s.Notified[key(name)]
}

// MarkNotified records a delivered reminder.
func (s *State) MarkNotified(name string) {
	if s.Notified == nil {
		s.Notified = map[string]bool{}
	}
	s.Notified[key(name)] = true
}

func (s State) clone() State {
	notified := make(map[string]bool, len(s.Notified))
	for k, v := range s.Notified {
		notified[k] = v
	}
	return State{Day: s.Day, Notified: notified}
}

// Rollover starts a new day when the day of month has changed since the
// last poll. The caller must run ResetAll when rolled is true.
func Rollover(prior State, now time.Time) (next State, rolled bool) {
	if now.Day() == prior.Day {
		return prior, false
	}
	return NewState(now), true
}

// Reminder is a notification the daemon should try to deliver.
type Reminder struct {
	Medication models.Medication
}

// Notification renders the reminder.
func (r Reminder) Notification(urgency notify.Urgency) notify.Notification {
	return notify.Notification{
		Title: "Medication Reminder",
		Body: fmt.Sprintf("Time to take: %s (%s)\nScheduled for: %s",
			r.Medication.Name, r.Medication.Dose, r.Medication.TimeOfDay),
		Icon:       "medication",
		Urgency:    urgency,
		Persistent: true,
	}
}

// Evaluate decides which reminders are due at now. It does not touch
// prior; the returned state forgets medications that have since been
// taken, so an untake later in the day can remind again. Delivered
// reminders are recorded by the caller with MarkNotified.
func Evaluate(now time.Time, meds []models.Medication, prior State) (State, []Reminder) {
	next := prior.clone()

	var reminders []Reminder
	for _, med := range meds {
		if schedule.IsAsNeeded(med.MedicationFrequency) {
			continue
		}
		if med.Taken {
			delete(next.Notified, key(med.Name))
			continue
		}
		if next.WasNotified(med.Name) {
			continue
		}
		if schedule.IsDue(med, now) {
			reminders = append(reminders, Reminder{Medication: med})
		}
	}
	return next, reminders
}
