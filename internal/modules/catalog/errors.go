package catalog

import "errors"

var (
	ErrNotFound        = errors.New("workspace not found")
	ErrTypeNotFound    = errors.New("workspace type not found")
	ErrInvalidRange    = errors.New("end time must be after start time")
	ErrInvalidCapacity = errors.New("capacity must be positive")
)

// ValidationError carries per-field violations up to the handler.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
