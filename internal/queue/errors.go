package queue

import "errors"

var (
	// ErrNotFound is returned when a patient id is unknown.
	ErrNotFound = errors.New("patient not found")

	// ErrInvalidDepartment is returned when a department id does not
	// reference a configured department.
	ErrInvalidDepartment = errors.New("invalid department")

	// ErrAlreadyTerminal is returned when a leave or serve request
	// targets a patient who is no longer waiting.
	ErrAlreadyTerminal = errors.New("patient is no longer waiting")
)
