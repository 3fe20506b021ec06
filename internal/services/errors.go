package services

import (
	"errors"
	"fmt"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
)

// Error kinds. Handlers map these to statuses; everything else is a 500.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNoOp               = errors.New("no change requested")
	ErrAuthMissing        = errors.New("missing credentials")
	ErrAuthInvalid        = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCalendarNotFound = fmt.Errorf("calendar %w", ErrNotFound)
	ErrNoteNotFound     = fmt.Errorf("note %w", ErrNotFound)
	ErrEventNotFound    = fmt.Errorf("event %w", ErrNotFound)
	ErrAppDataNotFound  = fmt.Errorf("app data %w", ErrNotFound)

	ErrEmailTaken     = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrAlreadyMember  = fmt.Errorf("user already belongs to calendar: %w", ErrConflict)
	ErrCreatorRole    = fmt.Errorf("the creator's role cannot be changed: %w", ErrValidation)
	ErrCreatorRemoval = fmt.Errorf("the creator cannot be removed from the calendar: %w", ErrValidation)
	ErrNotReferenced  = fmt.Errorf("user is not on this calendar: %w", ErrValidation)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// storeErr translates adapter errors into service kinds. notFound replaces
// database.ErrNotFound so callers can say which document was missing.
func storeErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	default:
		return err
	}
}
