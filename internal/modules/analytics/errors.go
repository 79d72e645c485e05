package analytics

import "errors"

var (
	ErrNotFound    = errors.New("workspace not found")
	ErrInvalidDate = errors.New("invalid date")
)
