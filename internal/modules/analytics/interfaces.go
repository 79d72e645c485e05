package analytics

import (
	"context"
	"time"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

type BookingStore interface {
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	Count(ctx context.Context, f repository.BookingFilter) (int64, error)
}

type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
	List(ctx context.Context, f repository.WorkspaceFilter) ([]domain.Workspace, int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// Cache holds computed reports for a TTL. A nil Cache disables caching;
// cache failures degrade to recomputation, never to request failure.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
