package booking

import (
	"time"

	"atlas/internal/domain"
)

// Actor is the authenticated caller, supplied by the auth middleware.
type Actor struct {
	UserID int64
	Role   domain.Role
}

type CreateBookingRequest struct {
	WorkspaceID int64     `json:"workspace_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Purpose     string    `json:"purpose"`
	Attendees   int       `json:"attendees" binding:"omitempty,gte=1"`
}

// UpdateBookingTimeRequest leaves an endpoint unchanged when nil.
type UpdateBookingTimeRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type ListFilter struct {
	UserID      *int64 // honored for privileged actors only
	WorkspaceID *int64
	Status      domain.BookingStatus
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
