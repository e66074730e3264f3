package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Input validation
	ErrInvalidInput = errors.New("invalid input")

	// Lookups
	ErrGuestNotFound       = errors.New("guest not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// Booking rules
	ErrCapacityExceeded = errors.New("room capacity exceeded")
	ErrRoomUnavailable  = errors.New("room unavailable for requested dates")
	ErrInvalidState     = errors.New("invalid reservation state transition")

	// Uniqueness
	ErrDuplicateEmail      = errors.New("guest email already registered")
	ErrDuplicateRoomNumber = errors.New("room number already exists")

	// Storage
	ErrConflict          = errors.New("booking conflict detected at commit")
	ErrRepositoryFailure = errors.New("repository failure")
)

// WrapRepositoryFailure tags an opaque collaborator error so callers can match
// it with errors.Is(err, ErrRepositoryFailure) while keeping the cause chain.
func WrapRepositoryFailure(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
}
