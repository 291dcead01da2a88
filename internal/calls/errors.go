package calls

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("name is required")

	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrMissingSchedule is returned when the preferred date or time is missing
	ErrMissingSchedule = errors.New("preferred date and time are required")

	// ErrInvalidSchedule is returned when the preferred date/time cannot be parsed
	ErrInvalidSchedule = errors.New("preferred date or time is not a recognized format")

	// ErrCallNotFound is returned when a scheduled call is not found
	ErrCallNotFound = errors.New("scheduled call not found")
)
