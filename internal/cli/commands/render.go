package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kutbudev/pharm-cli/internal/medication"
	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	takenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	archivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dueStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

const ruleWidth = 60

func rule() string {
	return strings.Repeat("=", ruleWidth)
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label+":")), value)
}

func takenMark(taken bool) string {
	if taken {
		return takenStyle.Render("✓")
	}
	return missedStyle.Render("✗")
}

// renderMedications prints the list view used by `pharm list`.
func renderMedications(w io.Writer, heading string, meds []models.Medication, archived bool, due func(models.Medication) bool) {
	fmt.Fprintf(w, "\n%s\n", headingStyle.Render(heading))
	fmt.Fprintln(w, rule())

	for _, med := range meds {
		name := nameStyle.Render(med.Name)
		if archived {
			name += " " + archivedStyle.Render("[ARCHIVED]")
		} else if due(med) {
			name += " " + dueStyle.Render("(due)")
		}
		fmt.Fprintf(w, "\n%s\n", name)
		field(w, "Dose", med.Dose)
		field(w, "Time", med.TimeOfDay)
		field(w, "Interval", med.MedicationFrequency)
		if !archived {
			field(w, "Taken", takenMark(med.Taken))
			if med.Taken {
				field(w, "Taken At", med.TakenAt)
			}
		}
		if notes := med.NotesValue(); notes != "" {
			field(w, "Notes", truncateString(notes, 60))
		}
		if len(med.History) > 0 {
			field(w, "History", fmt.Sprintf("%d dose(s) recorded", len(med.History)))
		}
	}
	fmt.Fprintln(w)
}

// renderHistory prints one medication's dose history and adherence.
func renderHistory(w io.Writer, r medication.HistoryReport) {
	title := nameStyle.Render(r.Name)
	if r.Archived {
		title += " " + archivedStyle.Render("[ARCHIVED]")
	}

	if len(r.Records) == 0 {
		fmt.Fprintf(w, "\n%s - No history recorded\n", title)
		if r.Days > 0 {
			fmt.Fprintf(w, "  (No doses in last %d days)\n", r.Days)
		}
		return
	}

	fmt.Fprintf(w, "\n%s - History\n", title)
	if r.Days > 0 {
		fmt.Fprintf(w, "  (Last %d days)\n", r.Days)
	}
	fmt.Fprintln(w, rule())
	for _, rec := range r.Records {
		fmt.Fprintf(w, "  %s - %s\n", rec.Timestamp, rec.Dose)
	}

	if !r.Recurring {
		fmt.Fprintf(w, "\n  Total doses: %d (as-needed)\n", r.Actual)
		return
	}
	fmt.Fprintf(w, "\n  Total doses: %d / %d expected (every %s)\n", r.Actual, r.Expected, intervalLabel(r.IntervalDays))
	fmt.Fprintf(w, "  Adherence: %s\n", adherenceStyle(r.Adherence).Render(fmt.Sprintf("%.1f%%", r.Adherence)))
}

func intervalLabel(days int) string {
	if days == 1 {
		return "day"
	}
	return fmt.Sprintf("%d days", days)
}

func adherenceStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 90:
		return takenStyle
	case percent >= 70:
		return archivedStyle
	default:
		return missedStyle
	}
}

// isDueAt adapts schedule.IsDue for renderMedications.
func isDueAt(svc *medication.Service) func(models.Medication) bool {
	now := svc.Now()
	return func(med models.Medication) bool {
		return schedule.IsDue(med, now)
	}
}
