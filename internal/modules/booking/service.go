package booking

import (
	"context"
	"errors"
	"time"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

const upcomingLimit = 5

// Service is the single entry point for creating and mutating bookings.
// No other path may write booking status or time fields.
type Service struct {
	bookings    BookingStore
	workspaces  WorkspaceStore
	events      EventSink
	maxDuration time.Duration

	// Injected so tests can simulate time; never call time.Now directly
	// in validation paths.
	now func() time.Time
}

func NewService(bookings BookingStore, workspaces WorkspaceStore, events EventSink, maxDuration time.Duration) *Service {
	return &Service{
		bookings:    bookings,
		workspaces:  workspaces,
		events:      events,
		maxDuration: maxDuration,
		now:         time.Now,
	}
}

// CreateBooking runs the rule chain in order, failing fast: range, future
// start, duration cap, workspace active, then availability inside the
// write transaction. A booking comes out confirmed or not at all; there is
// no pending holding state on this path.
func (s *Service) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*domain.Booking, error) {
	rng, err := domain.NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if err := s.checkTiming(rng); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if !ws.IsActive {
		return nil, ErrWorkspaceInactive
	}

	attendees := req.Attendees
	if attendees < 1 {
		attendees = 1
	}

	b := &domain.Booking{
		WorkspaceID: req.WorkspaceID,
		UserID:      actor.UserID,
		StartTime:   rng.Start,
		EndTime:     rng.End,
		Purpose:     req.Purpose,
		Attendees:   attendees,
		Status:      domain.BookingConfirmed,
	}
	if err := s.bookings.CreateChecked(ctx, b); err != nil {
		return nil, s.mapStoreErr(err)
	}

	if s.events != nil {
		_ = s.events.BookingCreated(ctx, b)
	}
	return b, nil
}

// UpdateBookingTime revalidates the new range as if creating the booking,
// excluding the booking itself from the conflict scan. On any failure the
// original time is untouched.
func (s *Service) UpdateBookingTime(ctx context.Context, actor Actor, bookingID int64, req UpdateBookingTimeRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if !actor.Role.Privileged() && b.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if !b.Status.Active() {
		// Cancelled and completed ranges are frozen.
		return nil, ErrInvalidTransition
	}

	start, end := b.StartTime, b.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}

	rng, err := domain.NewTimeRange(start, end)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if err := s.checkTiming(rng); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.GetByID(ctx, b.WorkspaceID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if !ws.IsActive {
		return nil, ErrWorkspaceInactive
	}

	updated, err := s.bookings.UpdateTimeChecked(ctx, bookingID, rng.Start, rng.End)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	if s.events != nil {
		_ = s.events.BookingRescheduled(ctx, updated)
	}
	return updated, nil
}

// CancelBooking is a status-only transition; the future-start rule does
// not apply. Allowed while the booking is active and before its end time.
func (s *Service) CancelBooking(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if !actor.Role.Privileged() && b.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if !b.Status.CanTransitionTo(domain.BookingCancelled) {
		return nil, ErrInvalidTransition
	}

	cancelled, err := s.bookings.Cancel(ctx, bookingID, s.now())
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	if s.events != nil {
		_ = s.events.BookingCancelled(ctx, cancelled)
	}
	return cancelled, nil
}

func (s *Service) GetBooking(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if !actor.Role.Privileged() && b.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return b, nil
}

// IsWorkspaceAvailable answers against committed bookings only. Creation
// re-checks under the write transaction, so a true here is advisory.
func (s *Service) IsWorkspaceAvailable(ctx context.Context, workspaceID int64, start, end time.Time) (bool, error) {
	if _, err := domain.NewTimeRange(start, end); err != nil {
		return false, ErrInvalidRange
	}
	return s.bookings.IsAvailable(ctx, workspaceID, start, end, 0)
}

// ListBookings applies role scoping: non-privileged actors only ever see
// their own rows, whatever the filter says.
func (s *Service) ListBookings(ctx context.Context, actor Actor, f ListFilter) ([]domain.Booking, error) {
	rf := repository.BookingFilter{
		WorkspaceID: f.WorkspaceID,
		Status:      f.Status,
		From:        f.From,
		To:          f.To,
		Limit:       f.Limit,
		Offset:      f.Offset,
	}
	if actor.Role.Privileged() {
		rf.UserID = f.UserID
	} else {
		uid := actor.UserID
		rf.UserID = &uid
	}
	return s.bookings.List(ctx, rf)
}

// Upcoming returns the actor's next confirmed bookings, soonest first.
func (s *Service) Upcoming(ctx context.Context, actor Actor) ([]domain.Booking, error) {
	now := s.now()
	rf := repository.BookingFilter{
		Status:   domain.BookingConfirmed,
		From:     &now,
		OrderAsc: true,
		Limit:    upcomingLimit,
	}
	if !actor.Role.Privileged() {
		uid := actor.UserID
		rf.UserID = &uid
	}
	return s.bookings.List(ctx, rf)
}

// Today returns the actor's active bookings starting today.
func (s *Service) Today(ctx context.Context, actor Actor) ([]domain.Booking, error) {
	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := day.Add(24 * time.Hour)

	rf := repository.BookingFilter{
		Statuses:    []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
		From:        &day,
		StartBefore: &next,
		OrderAsc:    true,
	}
	if !actor.Role.Privileged() {
		uid := actor.UserID
		rf.UserID = &uid
	}
	return s.bookings.List(ctx, rf)
}

func (s *Service) checkTiming(rng domain.TimeRange) error {
	if !rng.Start.After(s.now()) {
		return ErrPastBooking
	}
	if rng.Duration() > s.maxDuration {
		return ErrDurationExceeded
	}
	return nil
}

func (s *Service) mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrOverlap):
		return ErrSlotConflict
	case errors.Is(err, repository.ErrTxConflict):
		return ErrConflict
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNotActive):
		return ErrInvalidTransition
	}
	return err
}
