package queue

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus indicates a record whose status is not Testing, Waiting, or Ready.
var ErrInvalidStatus = errors.New("invalid item status")

// ErrNegativeDwell is returned when an engine is built with a negative dwell.
var ErrNegativeDwell = errors.New("dwell duration must not be negative")

// InvalidRecordError identifies the record that violated the status invariant.
type InvalidRecordError struct {
	ID     string
	Status Status
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("item %q: %v %q", e.ID, ErrInvalidStatus, string(e.Status))
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidStatus
}

// ErrorKind classifies the error for reporting.
func (e *InvalidRecordError) ErrorKind() string {
	return "validation"
}

func checkRecord(id string, rec Record) error {
	if !rec.Status.Valid() {
		return &InvalidRecordError{ID: id, Status: rec.Status}
	}
	return nil
}
