package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Active bookings count toward workspace conflict checks. Cancelled and
// completed bookings have frozen ranges and are ignored by the index.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending: {
		BookingConfirmed: true,
		BookingCancelled: true,
		BookingCompleted: true,
	},
	BookingConfirmed: {
		BookingCancelled: true,
		BookingCompleted: true,
	},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingTransitions[s][next]
}

// Booking references its workspace and user by id only; availability
// queries go through the repository, never through struct traversal.
type Booking struct {
	ID          int64         `json:"id"`
	WorkspaceID int64         `json:"workspace_id" validate:"required"`
	UserID      int64         `json:"user_id" validate:"required"`
	StartTime   time.Time     `json:"start_time" validate:"required"`
	EndTime     time.Time     `json:"end_time" validate:"required"`
	Purpose     string        `json:"purpose,omitempty" gorm:"type:text"`
	Attendees   int           `json:"attendees" validate:"gte=1"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}
