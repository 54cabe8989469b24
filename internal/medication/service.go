package medication

import (
	"fmt"
	"strings"
	"time"

	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

// Store is the persistence boundary: every mutating operation is a Load,
// an in-memory change and a Save.
type Store interface {
	Load() *models.Database
	Save(db *models.Database) error
}

// Service implements the medication lifecycle on top of a Store.
type Service struct {
	store       Store
	now         func() time.Time
	historyDays int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithHistoryDays sets the adherence window used when History is called
// without a day range.
func WithHistoryDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.historyDays = days
		}
	}
}

// NewService creates a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		now:         time.Now,
		historyDays: 30,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// AddRequest describes a medication to add or unarchive.
type AddRequest struct {
	Name      string
	Dose      string
	Time      string
	Frequency string
	Notes     *string
}

// AddResult reports what Add did.
type AddResult struct {
	Medication    models.Medication
	Unarchived    bool
	RestoredDoses int
}

func (r AddRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return validationError("name", "medication name cannot be empty")
	}
	if strings.TrimSpace(r.Dose) == "" {
		return validationError("dose", "dose cannot be empty")
	}
	if strings.TrimSpace(r.Frequency) == "" {
		return validationError("frequency", "interval cannot be empty")
	}
	if _, ok := schedule.ParseTime(r.Time); !ok {
		return validationError("time", fmt.Sprintf("invalid time format '%s'", r.Time))
	}
	return nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	n := *notes
	return &n
}

// Add creates a medication. If the name is in the archive the archived
// entry is brought back with the new dose, time, frequency and notes, its
// history and last dose date intact and its taken state cleared.
func (s *Service) Add(req AddRequest) (AddResult, error) {
	if err := req.validate(); err != nil {
		return AddResult{}, err
	}
	name := strings.TrimSpace(req.Name)

	db := s.store.Load()
	if db.FindActive(name) >= 0 {
		return AddResult{}, nameError(ErrExists, name, "already exists in active medications")
	}

	var result AddResult
	if idx := db.FindArchived(name); idx >= 0 {
		med := db.ArchivedMedications[idx]
		db.ArchivedMedications = append(db.ArchivedMedications[:idx], db.ArchivedMedications[idx+1:]...)

		med.Dose = req.Dose
		med.TimeOfDay = req.Time
		med.MedicationFrequency = req.Frequency
		med.Notes = normalizeNotes(req.Notes)
		med.ClearTaken()

		result = AddResult{Medication: med, Unarchived: true, RestoredDoses: len(med.History)}
	} else {
		result = AddResult{Medication: models.Medication{
			Name:                name,
			Dose:                req.Dose,
			TimeOfDay:           req.Time,
			MedicationFrequency: req.Frequency,
			Notes:               normalizeNotes(req.Notes),
			History:             []models.DoseRecord{},
		}}
	}

	db.Medications = append(db.Medications, result.Medication)
	if err := s.save(db); err != nil {
		return AddResult{}, err
	}
	return result, nil
}

// Remove moves an active medication, with all of its history, to the
// archive. Nothing is ever deleted.
func (s *Service) Remove(name string) (models.Medication, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Medication{}, err
	}
	db := s.store.Load()

	idx := db.FindActive(name)
	if idx < 0 {
		if db.FindArchived(name) >= 0 {
			return models.Medication{}, nameError(ErrNotFound, name, "it is already archived")
		}
		return models.Medication{}, nameError(ErrNotFound, name, didYouMean(db, name))
	}

	med := db.Medications[idx]
	db.Medications = append(db.Medications[:idx], db.Medications[idx+1:]...)
	db.ArchivedMedications = append(db.ArchivedMedications, med)

	if err := s.save(db); err != nil {
		return models.Medication{}, err
	}
	return med, nil
}

// requireName trims name and rejects it when nothing is left.
func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("name", "medication name cannot be empty")
	}
	return name, nil
}

// lookupActive finds an active medication or explains why it cannot.
func lookupActive(db *models.Database, name string) (int, error) {
	if idx := db.FindActive(name); idx >= 0 {
		return idx, nil
	}
	if db.FindArchived(name) >= 0 {
		return -1, nameError(ErrArchived, name, "")
	}
	return -1, nameError(ErrNotFound, name, didYouMean(db, name))
}

// Take marks a medication taken now and appends a dose record.
func (s *Service) Take(name string) (models.Medication, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Medication{}, err
	}
	db := s.store.Load()

	idx, err := lookupActive(db, name)
	if err != nil {
		return models.Medication{}, err
	}

	med := &db.Medications[idx]
	if med.Taken {
		return *med, nameError(ErrAlreadyTaken, med.Name, "marked as taken at "+med.TakenAt)
	}
	med.MarkTaken(s.now())

	if err := s.save(db); err != nil {
		return models.Medication{}, err
	}
	return *med, nil
}

// Untake undoes Take: the flag is cleared and the latest dose record is
// dropped. last_dose_date is kept because it anchors the interval.
func (s *Service) Untake(name string) (models.Medication, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Medication{}, err
	}
	db := s.store.Load()

	idx, err := lookupActive(db, name)
	if err != nil {
		return models.Medication{}, err
	}

	med := &db.Medications[idx]
	if !med.Taken {
		return *med, nameError(ErrNotTaken, med.Name, "not currently marked as taken")
	}
	med.ClearTaken()
	if n := len(med.History); n > 0 {
		med.History = med.History[:n-1]
	}

	if err := s.save(db); err != nil {
		return models.Medication{}, err
	}
	return *med, nil
}

// TakeOutcome is the per-medication result of TakeAll.
type TakeOutcome struct {
	Name         string
	AlreadyTaken bool
	TakenAt      string
}

// TakeAll takes every active medication that is not already taken.
func (s *Service) TakeAll() ([]TakeOutcome, error) {
	db := s.store.Load()
	if len(db.Medications) == 0 {
		return nil, nil
	}

	now := s.now()
	outcomes := make([]TakeOutcome, 0, len(db.Medications))
	changed := false
	for i := range db.Medications {
		med := &db.Medications[i]
		if med.Taken {
			outcomes = append(outcomes, TakeOutcome{Name: med.Name, AlreadyTaken: true, TakenAt: med.TakenAt})
			continue
		}
		med.MarkTaken(now)
		changed = true
		outcomes = append(outcomes, TakeOutcome{Name: med.Name, TakenAt: med.TakenAt})
	}

	if changed {
		if err := s.save(db); err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}

// EditRequest holds the fields to change; nil fields are left alone and
// an empty Notes clears the notes.
type EditRequest struct {
	Dose      *string
	Time      *string
	Frequency *string
	Notes     *string
}

func (r EditRequest) empty() bool {
	return r.Dose == nil && r.Time == nil && r.Frequency == nil && r.Notes == nil
}

func (r EditRequest) validate() error {
	if r.Time != nil {
		if _, ok := schedule.ParseTime(*r.Time); !ok {
			return validationError("time", fmt.Sprintf("invalid time format '%s'", *r.Time))
		}
	}
	if r.Dose != nil && strings.TrimSpace(*r.Dose) == "" {
		return validationError("dose", "dose cannot be empty")
	}
	if r.Frequency != nil && strings.TrimSpace(*r.Frequency) == "" {
		return validationError("frequency", "frequency cannot be empty")
	}
	return nil
}

// EditResult lists the applied changes in "field -> value" form.
type EditResult struct {
	Medication models.Medication
	Changes    []string
}

// Edit applies the supplied fields to an active medication.
func (s *Service) Edit(name string, req EditRequest) (EditResult, error) {
	name, err := requireName(name)
	if err != nil {
		return EditResult{}, err
	}
	if err := req.validate(); err != nil {
		return EditResult{}, err
	}

	db := s.store.Load()
	idx, err := lookupActive(db, name)
	if err != nil {
		return EditResult{}, err
	}
	med := &db.Medications[idx]

	if req.empty() {
		return EditResult{Medication: *med}, nameError(ErrNoChanges, med.Name, "")
	}

	var changes []string
	if req.Dose != nil {
		med.Dose = *req.Dose
		changes = append(changes, "dose -> "+*req.Dose)
	}
	if req.Time != nil {
		med.TimeOfDay = *req.Time
		changes = append(changes, "time -> "+*req.Time)
	}
	if req.Frequency != nil {
		med.MedicationFrequency = *req.Frequency
		changes = append(changes, "frequency -> "+*req.Frequency)
	}
	if req.Notes != nil {
		if *req.Notes == "" {
			med.Notes = nil
			changes = append(changes, "notes -> (cleared)")
		} else {
			med.Notes = normalizeNotes(req.Notes)
			changes = append(changes, "notes -> "+*req.Notes)
		}
	}

	if err := s.save(db); err != nil {
		return EditResult{}, err
	}
	return EditResult{Medication: *med, Changes: changes}, nil
}

// ResetAll clears the taken flag of every recurring medication whose
// interval has elapsed since its last dose. It returns the names reset and
// only writes the file when something changed.
func (s *Service) ResetAll() ([]string, error) {
	db := s.store.Load()
	today := s.now()

	var reset []string
	for i := range db.Medications {
		med := &db.Medications[i]
		if !schedule.ShouldReset(*med, today) {
			continue
		}
		med.ClearTaken()
		reset = append(reset, med.Name)
	}

	if len(reset) == 0 {
		return nil, nil
	}
	if err := s.save(db); err != nil {
		return nil, err
	}
	return reset, nil
}

// ListQuery selects medications for List.
type ListQuery struct {
	Archived bool
	DueOnly  bool
}

// List returns active (or archived) medications, optionally only those
// due at the current time.
func (s *Service) List(q ListQuery) []models.Medication {
	db := s.store.Load()

	meds := db.Medications
	if q.Archived {
		meds = db.ArchivedMedications
	}
	if !q.DueOnly {
		return meds
	}

	now := s.now()
	due := make([]models.Medication, 0, len(meds))
	for _, med := range meds {
		if schedule.IsDue(med, now) {
			due = append(due, med)
		}
	}
	return due
}

// Active returns the active medications as currently stored.
func (s *Service) Active() []models.Medication {
	return s.store.Load().Medications
}

// Export returns the whole database.
func (s *Service) Export() *models.Database {
	return s.store.Load()
}

func (s *Service) save(db *models.Database) error {
	if err := s.store.Save(db); err != nil {
		return fmt.Errorf("saving medications: %w", err)
	}
	return nil
}
