package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("appointment not found")
	ErrForbidden        = errors.New("not allowed to manage this appointment")
	ErrSlotTaken        = errors.New("slot already booked")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrEmailTaken       = errors.New("user with this email already exists")
	ErrBadCredentials   = errors.New("invalid email or password")
)

// PolicyError rejects a start time that falls outside business hours.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

var (
	ErrClosedDay     = &PolicyError{Reason: "the shop is closed on this day"}
	ErrBeforeOpening = &PolicyError{Reason: "requested time is before opening"}
	ErrAfterClosing  = &PolicyError{Reason: "requested time runs past closing"}
	ErrPastStart     = &PolicyError{Reason: "requested time is in the past"}
)

func IsPolicyError(err error) bool {
	var pe *PolicyError
	return errors.As(err, &pe)
}

// Wrap tags infrastructure failures so handlers can distinguish them
// from domain rejections.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
