package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Msg      string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError describes a race outcome: seats grabbed by another caller,
// a reference collision, blocked regeneration. Seats carries the seat
// numbers in conflict when known.
type ConflictError struct {
	Resource string
	Msg      string
	Seats    []string
	Err      error
}

func (e ConflictError) Error() string {
	msg := e.Msg
	if msg == "" && e.Resource != "" {
		msg = fmt.Sprintf("%s conflict", e.Resource)
	}
	if msg == "" {
		msg = "conflict"
	}
	if len(e.Seats) > 0 {
		return fmt.Sprintf("%s: %s", msg, strings.Join(e.Seats, ", "))
	}
	return msg
}

func (e ConflictError) Unwrap() error { return e.Err }

// StateError marks an illegal lifecycle transition, e.g. cancelling an
// already-cancelled booking or assigning seats to a completed one.
type StateError struct {
	Resource string
	Msg      string
	Err      error
}

func (e StateError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s is in an invalid state", e.Resource)
	default:
		return "invalid state"
	}
}

func (e StateError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target StateError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// ConflictSeats extracts the conflicting seat numbers from an error chain.
func ConflictSeats(err error) []string {
	var target ConflictError
	if errors.As(err, &target) {
		return target.Seats
	}
	return nil
}
