package leagues

import (
	"errors"
	"fmt"
)

// ValidationError reports input the engine refuses: illegal scores, wrong
// participants, bad configuration. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StateConflictError reports a transition attempted from an incompatible
// state. Callers may re-fetch and retry once.
type StateConflictError struct {
	Entity    string
	ID        int64
	State     string
	Operation string
	Reason    string
}

func (e *StateConflictError) Error() string {
	msg := fmt.Sprintf("cannot %s %s %d in state %q", e.Operation, e.Entity, e.ID, e.State)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func Conflict(entity string, id int64, state, operation, reason string) error {
	return &StateConflictError{Entity: entity, ID: id, State: state, Operation: operation, Reason: reason}
}

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// RecoveryWarning is attached to a read whose self-repair did not succeed.
// It never blocks the read itself.
type RecoveryWarning struct {
	LeagueID   int64
	WeekNumber int
	Reason     string
	Err        error
}

func (w *RecoveryWarning) Error() string {
	msg := fmt.Sprintf("league %d week %d: %s", w.LeagueID, w.WeekNumber, w.Reason)
	if w.Err != nil {
		msg += ": " + w.Err.Error()
	}
	return msg
}

func (w *RecoveryWarning) Unwrap() error { return w.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *StateConflictError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
