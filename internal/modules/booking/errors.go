package booking

import "errors"

// Request rejections, never process-fatal. Handlers map these to HTTP codes.
var (
	ErrInvalidRange      = errors.New("start must be before end")
	ErrPastBooking       = errors.New("start time must be in the future")
	ErrDurationExceeded  = errors.New("booking exceeds the maximum duration")
	ErrWorkspaceInactive = errors.New("workspace is not accepting bookings")
	ErrSlotConflict      = errors.New("overlapping active booking exists")
	ErrInvalidTransition = errors.New("status change not permitted from current state")
	ErrNotFound          = errors.New("booking or workspace not found")
	ErrConflict          = errors.New("concurrent update conflict, request not applied")
	ErrForbidden         = errors.New("operation not permitted for this user")
)
