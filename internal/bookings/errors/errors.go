package errors

import "errors"

var (
	ErrShowNotFound = errors.New("show not found")

	ErrBookingNotFound = errors.New("booking not found")

	// ErrVersionConflict means the show changed between read and conditional write.
	ErrVersionConflict = errors.New("show version changed concurrently")

	ErrAlreadyCancelled = errors.New("booking already cancelled")

	ErrDuplicateBooking = errors.New("booking id already exists")
)
