package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ValidationError reports a missing or ill-typed field, or an out-of-range
// timestamp. Recoverable: surfaced to the caller for user-facing messaging.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced parent or target row is absent.
// Deletes never raise it; they are idempotent.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ConstraintError reports a uniqueness or foreign-key violation that prior
// validation did not catch.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violated during %s: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// StorageIOError reports an underlying file/disk failure. Transient
// conditions (file lock contention) are retried once before one of these
// is surfaced; it is fatal for the operation, not the process.
type StorageIOError struct {
	Op  string
	Err error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageIOError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// isTransient reports whether err is a lock-contention condition worth one
// retry.
func isTransient(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}

// Translate maps a raw storage error into the repository taxonomy. Entity
// and id describe the row being operated on, for NotFoundError messages.
func Translate(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrConstraint:
			return &ConstraintError{Op: op, Err: err}
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr, sqlite3.ErrFull:
			return &StorageIOError{Op: op, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Transact runs fn in a single all-or-nothing transaction. A transient
// lock-contention failure is retried once; any second failure is surfaced
// as a StorageIOError.
func Transact(db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if err == nil {
		return nil
	}
	if isTransient(err) {
		if retryErr := db.Transaction(fn); retryErr == nil {
			return nil
		} else if isTransient(retryErr) {
			return &StorageIOError{Op: op, Err: retryErr}
		} else {
			err = retryErr
		}
	}
	return err
}
