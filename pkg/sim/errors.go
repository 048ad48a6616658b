package sim

import "errors"

var (
	// ErrAlreadyCompleted is returned when a sequence is resumed after it
	// has produced its terminal result. The driver treats this as a fatal
	// programming error, never as a retryable condition.
	ErrAlreadyCompleted = errors.New("sequence already completed")

	// ErrInvalidSnapshot is returned when a snapshot with non-finite
	// numeric fields reaches a sequence.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
