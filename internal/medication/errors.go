package medication

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks empty or unparsable user input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound means no medication of that name exists in the expected list.
	ErrNotFound = errors.New("medication not found")
	// ErrArchived means the name only exists in the archive.
	ErrArchived = errors.New("medication is archived")
	// ErrConflict is the parent of state conflicts such as taking a taken medication.
	ErrConflict = errors.New("state conflict")
	// ErrAlreadyTaken is returned by Take for a medication already marked taken.
	ErrAlreadyTaken = fmt.Errorf("%w: already taken", ErrConflict)
	// ErrNotTaken is returned by Untake for a medication not marked taken.
	ErrNotTaken = fmt.Errorf("%w: not taken", ErrConflict)
	// ErrExists is returned by Add when an active medication already has the name.
	ErrExists = fmt.Errorf("%w: already exists", ErrConflict)
	// ErrNoChanges is returned by Edit when no field was supplied.
	ErrNoChanges = errors.New("no changes specified")
)

// Error carries the medication and detail of a failed operation. It
// unwraps to one of the sentinel errors above.
type Error struct {
	Kind   error
	Name   string
	Field  string
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s '%s'", msg, e.Name)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(field, detail string) error {
	return &Error{Kind: ErrValidation, Field: field, Detail: detail}
}

func nameError(kind error, name, detail string) error {
	return &Error{Kind: kind, Name: name, Detail: detail}
}
