package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings   BookingStore
	workspaces WorkspaceStore
	cache      Cache
	cacheTTL   time.Duration

	now func() time.Time
}

func NewService(bookings BookingStore, workspaces WorkspaceStore, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{
		bookings:   bookings,
		workspaces: workspaces,
		cache:      cache,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

// WorkspaceOccupancy reports how much of the business day a workspace
// was booked. Confirmed and completed bookings count; cancelled ones do
// not. Bookings spilling over midnight are clipped to the day.
func (s *Service) WorkspaceOccupancy(ctx context.Context, workspaceID int64, date string) (*WorkspaceOccupancy, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	key := fmt.Sprintf("analytics:occupancy:%d:%s", workspaceID, date)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var out WorkspaceOccupancy
		if json.Unmarshal(cached, &out) == nil {
			return &out, nil
		}
	}

	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	next := day.Add(24 * time.Hour)
	items, err := s.bookings.List(ctx, repository.BookingFilter{
		WorkspaceID: &workspaceID,
		Statuses:    []domain.BookingStatus{domain.BookingConfirmed, domain.BookingCompleted},
		StartBefore: &next,
		EndAfter:    &day,
	})
	if err != nil {
		return nil, err
	}

	booked := bookedWithin(items, day, next)
	out := &WorkspaceOccupancy{
		WorkspaceID: workspaceID,
		Name:        ws.Name,
		Date:        date,
		BookedHours: booked.Hours(),
		Occupancy:   occupancyPct(booked),
		ComputedAt:  s.now(),
	}
	s.cachePut(ctx, key, out)
	return out, nil
}

// Dashboard summarizes the day across all active workspaces in one
// booking scan.
func (s *Service) Dashboard(ctx context.Context, date string) (*DashboardSummary, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	key := "analytics:dashboard:" + date
	if cached, ok := s.cacheGet(ctx, key); ok {
		var out DashboardSummary
		if json.Unmarshal(cached, &out) == nil {
			return &out, nil
		}
	}

	active, err := s.workspaces.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	next := day.Add(24 * time.Hour)
	items, err := s.bookings.List(ctx, repository.BookingFilter{
		Statuses:    []domain.BookingStatus{domain.BookingConfirmed, domain.BookingCompleted},
		StartBefore: &next,
		EndAfter:    &day,
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := s.bookings.Count(ctx, repository.BookingFilter{
		Status:      domain.BookingCancelled,
		From:        &day,
		StartBefore: &next,
	})
	if err != nil {
		return nil, err
	}

	var avg float64
	if active > 0 {
		perWorkspace := map[int64]time.Duration{}
		for _, b := range items {
			perWorkspace[b.WorkspaceID] += clip(b.StartTime, b.EndTime, day, next)
		}
		var sum float64
		for _, d := range perWorkspace {
			sum += occupancyPct(d)
		}
		avg = sum / float64(active)
	}

	out := &DashboardSummary{
		Date:             date,
		ActiveWorkspaces: active,
		BookingsToday:    int64(len(items)),
		CancelledToday:   cancelled,
		AvgOccupancy:     avg,
		ComputedAt:       s.now(),
	}
	s.cachePut(ctx, key, out)
	return out, nil
}

func parseDate(date string) (time.Time, error) {
	return time.Parse(dateLayout, date)
}

func bookedWithin(items []domain.Booking, from, to time.Time) time.Duration {
	var total time.Duration
	for _, b := range items {
		total += clip(b.StartTime, b.EndTime, from, to)
	}
	return total
}

func clip(start, end, from, to time.Time) time.Duration {
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

func occupancyPct(booked time.Duration) float64 {
	pct := float64(booked) / float64(businessHours) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cachePut(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, s.cacheTTL)
}
