package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kutbudev/pharm-cli/internal/models"
)

const (
	tempSuffix   = ".tmp"
	backupSuffix = ".corrupted"
)

var errMissingMedications = errors.New("missing medications field")

// Store owns the JSON medication database on disk. Every operation is a
// whole-file read or an atomic whole-file replace; there is no locking, so
// concurrent writers resolve as last-writer-wins.
type Store struct {
	path   string
	logger *slog.Logger
}

// New returns a store backed by the file at path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BackupPath is where a corrupted database is copied before it is discarded.
func (s *Store) BackupPath() string {
	return s.path + backupSuffix
}

type decodeStrategy struct {
	name    string
	decode  func([]byte) (*models.Database, error)
	migrate bool
}

// Tried in order; the first one that decodes wins.
var decodeStrategies = []decodeStrategy{
	{name: "current", decode: decodeCurrent},
	{name: "legacy", decode: decodeLegacy, migrate: true},
}

func decodeCurrent(data []byte) (*models.Database, error) {
	var raw struct {
		Medications         *[]models.Medication `json:"medications"`
		ArchivedMedications []models.Medication  `json:"archived_medications"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Medications == nil {
		return nil, errMissingMedications
	}
	return &models.Database{
		Medications:         *raw.Medications,
		ArchivedMedications: raw.ArchivedMedications,
	}, nil
}

// decodeLegacy reads the original format: a bare array of medications
// with no archive and no history.
func decodeLegacy(data []byte) (*models.Database, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, errors.New("not a JSON array")
	}
	var meds []models.Medication
	if err := json.Unmarshal(data, &meds); err != nil {
		return nil, err
	}
	return &models.Database{Medications: meds}, nil
}

// Load reads the database. It never fails: a missing or unreadable file
// yields an empty database, a legacy file is migrated and written back, and
// a file that decodes in neither format is copied to BackupPath before an
// empty database is returned.
func (s *Store) Load() *models.Database {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("failed to read medications file, using empty medication list",
				"path", s.path, "error", err)
		}
		return models.NewDatabase()
	}

	for _, strategy := range decodeStrategies {
		db, err := strategy.decode(data)
		if err != nil {
			s.logger.Debug("decode attempt failed", "format", strategy.name, "error", err)
			continue
		}
		db.Normalize()
		if strategy.migrate {
			s.logger.Info("migrating medication database to new format with archive support", "path", s.path)
			if err := s.Save(db); err != nil {
				s.logger.Error("migration could not be saved", "error", err)
			}
		}
		return db
	}

	backup := s.BackupPath()
	s.logger.Warn("medications file is corrupted and cannot be parsed, starting with empty database",
		"path", s.path, "backup", backup)
	if err := os.WriteFile(backup, data, 0o600); err != nil {
		s.logger.Error("failed to create backup of corrupted file", "backup", backup, "error", err)
	}
	return models.NewDatabase()
}

// Save writes db atomically: the JSON goes to a sibling temp file which is
// then renamed over the real path, so readers only ever see a complete
// file. Afterwards the file is restricted to owner read/write.
func (s *Store) Save(db *models.Database) error {
	db.Normalize()

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize medication database: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	tmp := s.path + tempSuffix
	if err := writeFileSync(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save medications file: %w", err)
	}

	if err := restrictPermissions(s.path); err != nil {
		s.logger.Warn("failed to set file permissions", "path", s.path, "error", err)
	}
	return nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Windows has no POSIX permission bits; ACLs are left as they are.
func restrictPermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, 0o600)
}
