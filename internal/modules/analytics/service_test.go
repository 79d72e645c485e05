package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) Count(ctx context.Context, f repository.BookingFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

type MockWorkspaceStore struct {
	mock.Mock
}

func (m *MockWorkspaceStore) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) List(ctx context.Context, f repository.WorkspaceFilter) ([]domain.Workspace, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Workspace), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkspaceStore) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// memoryCache is a test double for the redis-backed cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

var day = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func TestWorkspaceOccupancy_SumsAndClips(t *testing.T) {
	bookings := new(MockBookingStore)
	workspaces := new(MockWorkspaceStore)

	workspaces.On("GetByID", mock.Anything, int64(7)).Return(&domain.Workspace{ID: 7, Name: "Focus Room"}, nil)
	bookings.On("List", mock.Anything, mock.Anything).Return([]domain.Booking{
		{WorkspaceID: 7, StartTime: at(9), EndTime: at(11), Status: domain.BookingCompleted},
		{WorkspaceID: 7, StartTime: at(13), EndTime: at(14), Status: domain.BookingConfirmed},
		// Runs past midnight; only the in-day part counts.
		{WorkspaceID: 7, StartTime: at(23), EndTime: at(26), Status: domain.BookingConfirmed},
	}, nil)

	svc := NewService(bookings, workspaces, nil, time.Minute)

	out, err := svc.WorkspaceOccupancy(context.Background(), 7, "2026-06-15")
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, out.BookedHours, 0.001)
	assert.InDelta(t, 4.0/12.0*100, out.Occupancy, 0.001)
}

func TestWorkspaceOccupancy_CapsAtHundred(t *testing.T) {
	bookings := new(MockBookingStore)
	workspaces := new(MockWorkspaceStore)

	workspaces.On("GetByID", mock.Anything, int64(7)).Return(&domain.Workspace{ID: 7, Name: "Focus Room"}, nil)
	bookings.On("List", mock.Anything, mock.Anything).Return([]domain.Booking{
		{WorkspaceID: 7, StartTime: at(0), EndTime: at(24), Status: domain.BookingConfirmed},
	}, nil)

	svc := NewService(bookings, workspaces, nil, time.Minute)

	out, err := svc.WorkspaceOccupancy(context.Background(), 7, "2026-06-15")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, out.Occupancy)
}

func TestWorkspaceOccupancy_CacheHitSkipsStores(t *testing.T) {
	bookings := new(MockBookingStore)
	workspaces := new(MockWorkspaceStore)
	cache := newMemoryCache()

	workspaces.On("GetByID", mock.Anything, int64(7)).Return(&domain.Workspace{ID: 7, Name: "Focus Room"}, nil).Once()
	bookings.On("List", mock.Anything, mock.Anything).Return([]domain.Booking{
		{WorkspaceID: 7, StartTime: at(9), EndTime: at(10), Status: domain.BookingConfirmed},
	}, nil).Once()

	svc := NewService(bookings, workspaces, cache, time.Minute)

	first, err := svc.WorkspaceOccupancy(context.Background(), 7, "2026-06-15")
	assert.NoError(t, err)

	second, err := svc.WorkspaceOccupancy(context.Background(), 7, "2026-06-15")
	assert.NoError(t, err)
	assert.Equal(t, first.Occupancy, second.Occupancy)

	workspaces.AssertNumberOfCalls(t, "GetByID", 1)
	bookings.AssertNumberOfCalls(t, "List", 1)
}

func TestWorkspaceOccupancy_InvalidDate(t *testing.T) {
	svc := NewService(new(MockBookingStore), new(MockWorkspaceStore), nil, time.Minute)

	_, err := svc.WorkspaceOccupancy(context.Background(), 7, "15/06/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDashboard_AveragesOverActiveWorkspaces(t *testing.T) {
	bookings := new(MockBookingStore)
	workspaces := new(MockWorkspaceStore)

	workspaces.On("CountActive", mock.Anything).Return(int64(2), nil)
	bookings.On("List", mock.Anything, mock.Anything).Return([]domain.Booking{
		{WorkspaceID: 1, StartTime: at(9), EndTime: at(15), Status: domain.BookingConfirmed}, // 6h -> 50%
		{WorkspaceID: 2, StartTime: at(9), EndTime: at(12), Status: domain.BookingCompleted}, // 3h -> 25%
	}, nil)
	bookings.On("Count", mock.Anything, mock.MatchedBy(func(f repository.BookingFilter) bool {
		return f.Status == domain.BookingCancelled
	})).Return(int64(1), nil)

	svc := NewService(bookings, workspaces, nil, time.Minute)

	out, err := svc.Dashboard(context.Background(), "2026-06-15")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.ActiveWorkspaces)
	assert.Equal(t, int64(2), out.BookingsToday)
	assert.Equal(t, int64(1), out.CancelledToday)
	assert.InDelta(t, 37.5, out.AvgOccupancy, 0.001)
}

func TestDashboard_NoActiveWorkspaces(t *testing.T) {
	bookings := new(MockBookingStore)
	workspaces := new(MockWorkspaceStore)

	workspaces.On("CountActive", mock.Anything).Return(int64(0), nil)
	bookings.On("List", mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	bookings.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	svc := NewService(bookings, workspaces, nil, time.Minute)

	out, err := svc.Dashboard(context.Background(), "2026-06-15")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, out.AvgOccupancy)
}
