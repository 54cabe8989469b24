package medication

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutbudev/pharm-cli/internal/logging"
	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(year int, month time.Month, day, hour, minute int) {
	c.now = time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func newTestService(t *testing.T) (*Service, *store.Store, *fakeClock) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), ".pharm.json"), logging.Discard())
	clock := &fakeClock{}
	clock.Set(2025, 1, 1, 8, 5)
	return NewService(st, WithClock(clock.Now)), st, clock
}

func addMetformin(t *testing.T, svc *Service) {
	t.Helper()
	_, err := svc.Add(AddRequest{Name: "Metformin", Dose: "500mg", Time: "08:00", Frequency: "daily"})
	require.NoError(t, err)
}

func stringPtr(s string) *string {
	return &s
}

func TestAddValidation(t *testing.T) {
	svc, st, _ := newTestService(t)

	tests := []struct {
		name  string
		req   AddRequest
		field string
	}{
		{"empty name", AddRequest{Name: "  ", Dose: "1", Time: "8", Frequency: "daily"}, "name"},
		{"empty dose", AddRequest{Name: "A", Dose: "", Time: "8", Frequency: "daily"}, "dose"},
		{"empty frequency", AddRequest{Name: "A", Dose: "1", Time: "8", Frequency: " "}, "frequency"},
		{"bad time", AddRequest{Name: "A", Dose: "1", Time: "25:00", Frequency: "daily"}, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(tt.req)
			require.ErrorIs(t, err, ErrValidation)
			var merr *Error
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.field, merr.Field)
		})
	}

	assert.Empty(t, st.Load().Medications, "validation failures must not touch the store")
}

func TestAddIsCaseInsensitiveUnique(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := svc.Add(AddRequest{Name: "Aspirin", Dose: "81mg", Time: "morning", Frequency: "daily"})
	require.NoError(t, err)

	_, err = svc.Add(AddRequest{Name: "aspirin", Dose: "100mg", Time: "noon", Frequency: "daily"})
	require.ErrorIs(t, err, ErrExists)
	assert.Contains(t, err.Error(), "already exists")

	db := st.Load()
	require.Len(t, db.Medications, 1)
	assert.Equal(t, "81mg", db.Medications[0].Dose)
}

func TestAddFresh(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Add(AddRequest{Name: "Metformin", Dose: "500mg", Time: "08:00", Frequency: "daily", Notes: stringPtr("with food")})
	require.NoError(t, err)

	assert.False(t, res.Unarchived)
	assert.Equal(t, "with food", res.Medication.NotesValue())
	assert.Empty(t, res.Medication.History)
	assert.Empty(t, res.Medication.LastDoseDate)
	assert.False(t, res.Medication.Taken)
}

func TestArchiveRoundTrip(t *testing.T) {
	svc, st, clock := newTestService(t)
	addMetformin(t, svc)

	_, err := svc.Take("metformin")
	require.NoError(t, err)
	before := st.Load().Medications[0]

	clock.Set(2025, 1, 3, 9, 0)
	archived, err := svc.Remove("METFORMIN")
	require.NoError(t, err)
	assert.Len(t, archived.History, 1)

	db := st.Load()
	assert.Empty(t, db.Medications)
	require.Len(t, db.ArchivedMedications, 1)

	res, err := svc.Add(AddRequest{Name: "Metformin", Dose: "1000mg", Time: "evening", Frequency: "every 2 days", Notes: stringPtr("new")})
	require.NoError(t, err)
	assert.True(t, res.Unarchived)
	assert.Equal(t, 1, res.RestoredDoses)

	db = st.Load()
	assert.Empty(t, db.ArchivedMedications)
	require.Len(t, db.Medications, 1)
	med := db.Medications[0]
	assert.Equal(t, before.History, med.History)
	assert.Equal(t, before.LastDoseDate, med.LastDoseDate)
	assert.Equal(t, "1000mg", med.Dose)
	assert.Equal(t, "evening", med.TimeOfDay)
	assert.Equal(t, "every 2 days", med.MedicationFrequency)
	assert.Equal(t, "new", med.NotesValue())
	assert.False(t, med.Taken)
	assert.Empty(t, med.TakenAt)
}

func TestRemoveNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Remove("Ghost")
	require.ErrorIs(t, err, ErrNotFound)

	addMetformin(t, svc)
	_, err = svc.Remove("Metformin")
	require.NoError(t, err)

	_, err = svc.Remove("Metformin")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "already archived")
}

func TestTake(t *testing.T) {
	svc, st, _ := newTestService(t)
	addMetformin(t, svc)

	med, err := svc.Take("Metformin")
	require.NoError(t, err)
	assert.True(t, med.Taken)
	assert.Equal(t, "08:05:00 - 2025/01/01", med.TakenAt)
	assert.Equal(t, "2025-01-01", med.LastDoseDate)
	require.Len(t, med.History, 1)
	assert.Equal(t, models.DoseRecord{Timestamp: "08:05:00 - 2025/01/01", Dose: "500mg"}, med.History[0])

	_, err = svc.Take("Metformin")
	require.ErrorIs(t, err, ErrAlreadyTaken)
	require.ErrorIs(t, err, ErrConflict)
	assert.Len(t, st.Load().Medications[0].History, 1)
}

func TestTakeArchivedOrMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMetformin(t, svc)
	_, err := svc.Remove("Metformin")
	require.NoError(t, err)

	_, err = svc.Take("Metformin")
	require.ErrorIs(t, err, ErrArchived)

	_, err = svc.Untake("Metformin")
	require.ErrorIs(t, err, ErrArchived)

	_, err = svc.Take("Nothing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTakeUntakeInverse(t *testing.T) {
	svc, st, clock := newTestService(t)
	addMetformin(t, svc)

	_, err := svc.Take("Metformin")
	require.NoError(t, err)
	clock.Set(2025, 1, 2, 7, 0)
	_, err = svc.ResetAll()
	require.NoError(t, err)
	pre := st.Load().Medications[0]
	require.False(t, pre.Taken)
	require.Len(t, pre.History, 1)

	clock.Set(2025, 1, 2, 8, 30)
	_, err = svc.Take("Metformin")
	require.NoError(t, err)
	med, err := svc.Untake("Metformin")
	require.NoError(t, err)

	assert.Equal(t, pre.Taken, med.Taken)
	assert.Equal(t, pre.TakenAt, med.TakenAt)
	assert.Equal(t, pre.History, med.History)
	assert.Equal(t, "2025-01-02", med.LastDoseDate, "last_dose_date does not revert on untake")
}

func TestUntakeNotTaken(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMetformin(t, svc)

	_, err := svc.Untake("Metformin")
	require.ErrorIs(t, err, ErrNotTaken)
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Untake("Ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTakeAll(t *testing.T) {
	svc, st, _ := newTestService(t)

	outcomes, err := svc.TakeAll()
	require.NoError(t, err)
	assert.Empty(t, outcomes)

	addMetformin(t, svc)
	_, err = svc.Add(AddRequest{Name: "Ibuprofen", Dose: "200mg", Time: "noon", Frequency: "prn"})
	require.NoError(t, err)
	_, err = svc.Take("Ibuprofen")
	require.NoError(t, err)

	outcomes, err = svc.TakeAll()
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].AlreadyTaken)
	assert.True(t, outcomes[1].AlreadyTaken)

	db := st.Load()
	assert.True(t, db.Medications[0].Taken)
	assert.Len(t, db.Medications[0].History, 1)
	assert.Len(t, db.Medications[1].History, 1, "already taken medications are left unchanged")
}

func TestEdit(t *testing.T) {
	svc, st, _ := newTestService(t)
	_, err := svc.Add(AddRequest{Name: "Metformin", Dose: "500mg", Time: "08:00", Frequency: "daily", Notes: stringPtr("with food")})
	require.NoError(t, err)

	res, err := svc.Edit("metformin", EditRequest{Dose: stringPtr("750mg"), Notes: stringPtr("")})
	require.NoError(t, err)
	assert.Equal(t, []string{"dose -> 750mg", "notes -> (cleared)"}, res.Changes)

	med := st.Load().Medications[0]
	assert.Equal(t, "750mg", med.Dose)
	assert.Nil(t, med.Notes)
	assert.Equal(t, "08:00", med.TimeOfDay)

	res, err = svc.Edit("Metformin", EditRequest{Time: stringPtr("bedtime"), Frequency: stringPtr("weekly"), Notes: stringPtr("after meal")})
	require.NoError(t, err)
	assert.Len(t, res.Changes, 3)
	med = st.Load().Medications[0]
	assert.Equal(t, "bedtime", med.TimeOfDay)
	assert.Equal(t, "weekly", med.MedicationFrequency)
	assert.Equal(t, "after meal", med.NotesValue())
}

func TestEditErrors(t *testing.T) {
	svc, st, _ := newTestService(t)
	addMetformin(t, svc)

	_, err := svc.Edit("Metformin", EditRequest{})
	require.ErrorIs(t, err, ErrNoChanges)

	_, err = svc.Edit("Metformin", EditRequest{Time: stringPtr("8:60")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Edit("Metformin", EditRequest{Dose: stringPtr(" ")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Edit("Metformin", EditRequest{Frequency: stringPtr("")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Edit("Ghost", EditRequest{Dose: stringPtr("1")})
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "500mg", st.Load().Medications[0].Dose)
}

func TestResetAllMetforminScenario(t *testing.T) {
	svc, st, clock := newTestService(t)
	addMetformin(t, svc)

	_, err := svc.Take("Metformin")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", st.Load().Medications[0].LastDoseDate)

	clock.Set(2025, 1, 1, 23, 59)
	reset, err := svc.ResetAll()
	require.NoError(t, err)
	assert.Empty(t, reset)
	assert.True(t, st.Load().Medications[0].Taken, "no reset on the day of the dose")

	clock.Set(2025, 1, 2, 0, 0)
	reset, err = svc.ResetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Metformin"}, reset)

	med := st.Load().Medications[0]
	assert.False(t, med.Taken)
	assert.Empty(t, med.TakenAt)
	assert.Equal(t, "2025-01-01", med.LastDoseDate)
	assert.Len(t, med.History, 1)
}

func TestResetAllIdempotent(t *testing.T) {
	svc, st, clock := newTestService(t)
	addMetformin(t, svc)
	_, err := svc.Add(AddRequest{Name: "Vitamin D", Dose: "1000IU", Time: "morning", Frequency: "weekly"})
	require.NoError(t, err)
	_, err = svc.TakeAll()
	require.NoError(t, err)

	clock.Set(2025, 1, 3, 7, 0)
	_, err = svc.ResetAll()
	require.NoError(t, err)
	once := st.Load()

	_, err = svc.ResetAll()
	require.NoError(t, err)
	assert.Equal(t, once, st.Load())

	assert.False(t, once.Medications[0].Taken)
	assert.True(t, once.Medications[1].Taken, "weekly medication is not reset after two days")
}

func TestResetAllSkipsAsNeeded(t *testing.T) {
	svc, st, clock := newTestService(t)
	_, err := svc.Add(AddRequest{Name: "Ibuprofen", Dose: "200mg", Time: "noon", Frequency: "PRN"})
	require.NoError(t, err)
	_, err = svc.Take("Ibuprofen")
	require.NoError(t, err)

	clock.Set(2026, 6, 1, 12, 0)
	reset, err := svc.ResetAll()
	require.NoError(t, err)
	assert.Empty(t, reset)
	assert.True(t, st.Load().Medications[0].Taken)

	clock.Set(2026, 6, 1, 23, 0)
	assert.Empty(t, svc.List(ListQuery{DueOnly: true}))
}

func TestResetAllUnparsableDate(t *testing.T) {
	svc, st, _ := newTestService(t)
	db := models.NewDatabase()
	db.Medications = append(db.Medications, models.Medication{
		Name: "Odd", Dose: "1", TimeOfDay: "8", MedicationFrequency: "daily",
		Taken: true, TakenAt: "x", LastDoseDate: "someday",
	})
	require.NoError(t, st.Save(db))

	reset, err := svc.ResetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Odd"}, reset)
	assert.Equal(t, "someday", st.Load().Medications[0].LastDoseDate)
}

func TestList(t *testing.T) {
	svc, _, clock := newTestService(t)
	addMetformin(t, svc)
	_, err := svc.Add(AddRequest{Name: "Atorvastatin", Dose: "20mg", Time: "bedtime", Frequency: "daily"})
	require.NoError(t, err)
	_, err = svc.Add(AddRequest{Name: "Old", Dose: "1", Time: "8", Frequency: "daily"})
	require.NoError(t, err)
	_, err = svc.Remove("Old")
	require.NoError(t, err)

	assert.Len(t, svc.List(ListQuery{}), 2)
	archived := svc.List(ListQuery{Archived: true})
	require.Len(t, archived, 1)
	assert.Equal(t, "Old", archived[0].Name)

	clock.Set(2025, 1, 1, 12, 0)
	due := svc.List(ListQuery{DueOnly: true})
	require.Len(t, due, 1)
	assert.Equal(t, "Metformin", due[0].Name)

	clock.Set(2025, 1, 1, 22, 0)
	assert.Len(t, svc.List(ListQuery{DueOnly: true}), 2)
}

type failingStore struct {
	db *models.Database
}

func (f *failingStore) Load() *models.Database { return f.db }

func (f *failingStore) Save(*models.Database) error { return errors.New("disk full") }

func TestSaveFailureIsReported(t *testing.T) {
	svc := NewService(&failingStore{db: models.NewDatabase()})

	_, err := svc.Add(AddRequest{Name: "A", Dose: "1", Time: "8", Frequency: "daily"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestNameOperationsRejectEmptyName(t *testing.T) {
	svc, st, _ := newTestService(t)
	addMetformin(t, svc)

	ops := map[string]func(name string) error{
		"remove": func(name string) error { _, err := svc.Remove(name); return err },
		"take":   func(name string) error { _, err := svc.Take(name); return err },
		"untake": func(name string) error { _, err := svc.Untake(name); return err },
		"edit": func(name string) error {
			_, err := svc.Edit(name, EditRequest{Dose: stringPtr("1g")})
			return err
		},
	}
	for op, call := range ops {
		for _, name := range []string{"", "   "} {
			t.Run(op+"/"+name, func(t *testing.T) {
				err := call(name)
				require.ErrorIs(t, err, ErrValidation)
				assert.NotErrorIs(t, err, ErrNotFound)
				var merr *Error
				require.True(t, errors.As(err, &merr))
				assert.Equal(t, "name", merr.Field)
			})
		}
	}

	med := st.Load().Medications[0]
	assert.False(t, med.Taken)
	assert.Equal(t, "500mg", med.Dose)
}
