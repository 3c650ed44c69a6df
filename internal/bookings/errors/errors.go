package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrConflict means a confirmed booking already occupies one of the requested days.
	ErrConflict = errors.New("booking days overlap a confirmed booking")

	// ErrPreconditionFailed means the booking no longer has the expected status.
	ErrPreconditionFailed = errors.New("booking status changed concurrently")

	ErrNotConfirmed = errors.New("only confirmed booking can be modified")

	ErrInProgress = errors.New("booking is already in progress and cannot be modified")
)
