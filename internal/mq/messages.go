package mq

import (
	"time"

	"atlas/internal/domain"
)

const (
	EventBookingCreated     = "booking.created"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
)

// EventEnvelope is the message published for every booking transition.
// Consumers key off Type; the routing key carries the same value.
type EventEnvelope struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Booking    BookingEventPayload `json:"booking"`
}

type BookingEventPayload struct {
	BookingID   int64     `json:"booking_id"`
	WorkspaceID int64     `json:"workspace_id"`
	UserID      int64     `json:"user_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

func payloadFrom(b *domain.Booking) BookingEventPayload {
	return BookingEventPayload{
		BookingID:   b.ID,
		WorkspaceID: b.WorkspaceID,
		UserID:      b.UserID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
	}
}
