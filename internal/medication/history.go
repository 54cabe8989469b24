package medication

import (
	"math"
	"strings"
	"time"

	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

// HistoryQuery selects the dose history to report. Days <= 0 means every
// record.
type HistoryQuery struct {
	Name         string
	Days         int
	ArchivedOnly bool
}

// HistoryReport is the dose history of one medication, newest record first.
type HistoryReport struct {
	Name         string
	Archived     bool
	Days         int
	Records      []models.DoseRecord
	Recurring    bool
	IntervalDays int
	Expected     int
	Actual       int
	Adherence    float64
}

type sourcedMedication struct {
	med      models.Medication
	archived bool
}

// History reports dose records and adherence for active and archived
// medications (or archived only), optionally for one name and a trailing
// window of days.
func (s *Service) History(q HistoryQuery) ([]HistoryReport, error) {
	db := s.store.Load()

	var selected []sourcedMedication
	if !q.ArchivedOnly {
		for _, med := range db.Medications {
			selected = append(selected, sourcedMedication{med: med})
		}
	}
	for _, med := range db.ArchivedMedications {
		selected = append(selected, sourcedMedication{med: med, archived: true})
	}

	name := strings.TrimSpace(q.Name)
	if name != "" {
		filtered := selected[:0]
		for _, sm := range selected {
			if sm.med.Matches(name) {
				filtered = append(filtered, sm)
			}
		}
		selected = filtered
		if len(selected) == 0 {
			return nil, nameError(ErrNotFound, name, "")
		}
	}

	now := s.now()
	reports := make([]HistoryReport, 0, len(selected))
	for _, sm := range selected {
		reports = append(reports, s.report(sm, q.Days, now))
	}
	return reports, nil
}

func (s *Service) report(sm sourcedMedication, days int, now time.Time) HistoryReport {
	records := filterRecords(sm.med.History, days, now)

	// newest first
	ordered := make([]models.DoseRecord, len(records))
	for i, rec := range records {
		ordered[len(records)-1-i] = rec
	}

	r := HistoryReport{
		Name:     sm.med.Name,
		Archived: sm.archived,
		Days:     days,
		Records:  ordered,
		Actual:   len(records),
	}

	interval, recurring := schedule.ParseInterval(sm.med.MedicationFrequency)
	if !recurring {
		return r
	}

	window := days
	if window <= 0 {
		window = s.historyDays
	}
	r.Recurring = true
	r.IntervalDays = interval
	r.Expected, r.Adherence = Adherence(r.Actual, window, interval)
	return r
}

// filterRecords keeps the records inside the trailing window. Records
// whose timestamp cannot be read are kept rather than silently dropped.
func filterRecords(history []models.DoseRecord, days int, now time.Time) []models.DoseRecord {
	if days <= 0 {
		return history
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	kept := make([]models.DoseRecord, 0, len(history))
	for _, rec := range history {
		at, err := rec.Time(now.Location())
		if err != nil || !at.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	return kept
}

// Adherence returns the expected dose count over a window and the share of
// it actually taken, as a percentage capped at 100.
func Adherence(actual, windowDays, intervalDays int) (expected int, percent float64) {
	if intervalDays < 1 {
		intervalDays = 1
	}
	expected = windowDays / intervalDays
	if expected < 1 {
		expected = 1
	}
	percent = math.Min(100, float64(actual)/float64(expected)*100)
	return expected, percent
}
