package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"service-connect-server/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAlreadyAssigned   = errors.New("request already assigned")
	ErrProfileIncomplete = errors.New("worker profile incomplete")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("invalid credentials")
)

// InvalidTransitionError names the current and requested status of a
// rejected lifecycle move.
type InvalidTransitionError struct {
	From models.RequestStatus
	To   models.RequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot move request from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ProfileIncompleteError lists the matching-profile fields a worker is missing
type ProfileIncompleteError struct {
	Missing []string
}

func (e *ProfileIncompleteError) Error() string {
	return "worker profile incomplete: missing " + strings.Join(e.Missing, ", ")
}

func (e *ProfileIncompleteError) Unwrap() error { return ErrProfileIncomplete }

func notFound(what string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// lookupErr maps gorm's missing-row error onto ErrNotFound
func lookupErr(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what, id)
	}
	return err
}

// writeErr maps unique-constraint violations onto ErrConflict
func writeErr(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	}
	return err
}
