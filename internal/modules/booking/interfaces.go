package booking

import (
	"context"
	"time"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

// BookingStore is the persistence collaborator. The checked write methods
// evaluate availability transactionally with the write.
type BookingStore interface {
	CreateChecked(ctx context.Context, b *domain.Booking) error
	UpdateTimeChecked(ctx context.Context, id int64, start, end time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, now time.Time) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	IsAvailable(ctx context.Context, workspaceID int64, start, end time.Time, excludeBookingID int64) (bool, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
}

// WorkspaceStore is the catalog collaborator; the booking core never
// creates or mutates workspaces.
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
}

// EventSink receives committed booking transitions. Optional; delivery
// failures never fail the booking operation.
type EventSink interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
	BookingCancelled(ctx context.Context, b *domain.Booking) error
	BookingRescheduled(ctx context.Context, b *domain.Booking) error
}
