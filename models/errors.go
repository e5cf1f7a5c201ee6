package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorNotFound reports a missing document or version.
type ErrorNotFound struct {
	Resource string
	ID       string
}

func (e ErrorNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func DocumentNotFound(id uuid.UUID) error {
	return ErrorNotFound{Resource: "document", ID: id.String()}
}

func VersionNotFound(id uuid.UUID, versionNumber int) error {
	return ErrorNotFound{Resource: "version", ID: fmt.Sprintf("%s@%d", id, versionNumber)}
}

type ValidationReason string

const (
	EmptyField    ValidationReason = "empty_field"
	InvalidTarget ValidationReason = "invalid_target"
	AlreadyExists ValidationReason = "already_exists"
)

// ErrorValidation is returned before anything reaches the store.
type ErrorValidation struct {
	Reason  ValidationReason
	Field   string
	Message string
}

func (e ErrorValidation) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ErrorConflict is the optimistic concurrency failure. Callers reload the
// document and try again.
type ErrorConflict struct {
	DocumentID      uuid.UUID
	ExpectedVersion int
	ActualVersion   int
}

func (e ErrorConflict) Error() string {
	if e.ActualVersion > 0 {
		return fmt.Sprintf("document %s is at version %d, expected %d", e.DocumentID, e.ActualVersion, e.ExpectedVersion)
	}
	return fmt.Sprintf("document %s changed since version %d", e.DocumentID, e.ExpectedVersion)
}

// ErrorStorage wraps an underlying persistence failure.
type ErrorStorage struct {
	Op  string
	Err error
}

func (e ErrorStorage) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e ErrorStorage) Unwrap() error {
	return e.Err
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}
