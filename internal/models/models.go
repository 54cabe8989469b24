package models

import (
	"strings"
	"time"
)

const (
	// TimestampLayout formats DoseRecord timestamps and taken_at, e.g. "08:30:15 - 2025/10/21".
	TimestampLayout = "15:04:05 - 2006/01/02"
	// DateLayout formats last_dose_date.
	DateLayout = "2006-01-02"
)

// DoseRecord is one dose taken, with the dose as it was at that moment.
type DoseRecord struct {
	Timestamp string `json:"timestamp"`
	Dose      string `json:"dose"`
}

// Time parses the record timestamp in the given location.
func (r DoseRecord) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, loc)
}

// Medication represents a scheduled (or as-needed) medication
type Medication struct {
	Name                string       `json:"name"`
	Dose                string       `json:"dose"`
	TimeOfDay           string       `json:"time_of_day"`
	MedicationFrequency string       `json:"medication_frequency"`
	Taken               bool         `json:"taken"`
	TakenAt             string       `json:"taken_at"`
	LastDoseDate        string       `json:"last_dose_date"` // YYYY-MM-DD, empty if never dosed
	Notes               *string      `json:"notes"`
	History             []DoseRecord `json:"history"`
}

// Matches reports whether name refers to this medication, ignoring case.
func (m *Medication) Matches(name string) bool {
	return strings.EqualFold(m.Name, name)
}

// MarkTaken records a dose at now.
func (m *Medication) MarkTaken(now time.Time) {
	stamp := now.Format(TimestampLayout)
	m.Taken = true
	m.TakenAt = stamp
	m.LastDoseDate = now.Format(DateLayout)
	m.History = append(m.History, DoseRecord{Timestamp: stamp, Dose: m.Dose})
}

// ClearTaken resets the taken flag. last_dose_date stays, it anchors the interval.
func (m *Medication) ClearTaken() {
	m.Taken = false
	m.TakenAt = ""
}

// NotesValue returns the notes or an empty string.
func (m *Medication) NotesValue() string {
	if m.Notes == nil {
		return ""
	}
	return *m.Notes
}

// Database is the on-disk document: active and archived medications.
type Database struct {
	Medications         []Medication `json:"medications"`
	ArchivedMedications []Medication `json:"archived_medications"`
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{
		Medications:         []Medication{},
		ArchivedMedications: []Medication{},
	}
}

// Normalize replaces nil slices with empty ones so the file always carries
// [] rather than null.
func (db *Database) Normalize() {
	if db.Medications == nil {
		db.Medications = []Medication{}
	}
	if db.ArchivedMedications == nil {
		db.ArchivedMedications = []Medication{}
	}
	for i := range db.Medications {
		if db.Medications[i].History == nil {
			db.Medications[i].History = []DoseRecord{}
		}
	}
	for i := range db.ArchivedMedications {
		if db.ArchivedMedications[i].History == nil {
			db.ArchivedMedications[i].History = []DoseRecord{}
		}
	}
}

// FindActive returns the index of the active medication called name, or -1.
func (db *Database) FindActive(name string) int {
	return find(db.Medications, name)
}

// FindArchived returns the index of the archived medication called name, or -1.
func (db *Database) FindArchived(name string) int {
	return find(db.ArchivedMedications, name)
}

func find(meds []Medication, name string) int {
	for i := range meds {
		if meds[i].Matches(name) {
			return i
		}
	}
	return -1
}
