package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"atlas/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return db, mock
}

var (
	queryStart = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	queryEnd   = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
)

func TestIsAvailable_NoOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	free, err := repo.IsAvailable(context.Background(), 7, queryStart, queryEnd, 0)
	assert.NoError(t, err)
	assert.True(t, free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAvailable_OverlapFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	free, err := repo.IsAvailable(context.Background(), 7, queryStart, queryEnd, 0)
	assert.NoError(t, err)
	assert.False(t, free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAvailable_OverlapQueryShape(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	// Half-open semantics live in the SQL: [) on both sides means
	// back-to-back bookings never collide.
	mock.ExpectQuery(`tstzrange\(start_time, end_time, '\[\)'\) && tstzrange\(\$\d+, \$\d+, '\[\)'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := repo.IsAvailable(context.Background(), 7, queryStart, queryEnd, 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newBookingFixture() *domain.Booking {
	return &domain.Booking{
		WorkspaceID: 7,
		UserID:      42,
		StartTime:   queryStart,
		EndTime:     queryEnd,
		Attendees:   1,
		Status:      domain.BookingConfirmed,
	}
}

func expectCreateAttemptSucceeds(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()
}

func TestCreateChecked_RetriesSerializationFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	// First attempt loses a serialization race; the second lands.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces`).
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()
	expectCreateAttemptSucceeds(mock, 101)

	b := newBookingFixture()
	err := repo.CreateChecked(context.Background(), b)
	assert.NoError(t, err)
	assert.Equal(t, int64(101), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateChecked_RetryBudgetExhausted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	// Every attempt deadlocks; after the third the conflict surfaces.
	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM workspaces`).
			WillReturnError(&pgconn.PgError{Code: "40P01"})
		mock.ExpectRollback()
	}

	err := repo.CreateChecked(context.Background(), newBookingFixture())
	assert.ErrorIs(t, err, ErrTxConflict)
	assert.NoError(t, mock.ExpectationsWereMet(), "exactly three attempts")
}

func TestCreateChecked_ExclusionViolationIsOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	// The pre-insert count saw a free slot, but a concurrent writer
	// committed first and the constraint rejects the insert. Of two
	// concurrent creates, exactly one succeeds; the loser gets overlap,
	// not a retry.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"})
	mock.ExpectRollback()

	err := repo.CreateChecked(context.Background(), newBookingFixture())
	assert.ErrorIs(t, err, ErrOverlap)
	assert.NoError(t, mock.ExpectationsWereMet(), "no retry after losing the slot")
}

func TestCreateChecked_UniqueViolationOnOverlapConstraint(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "bookings_no_overlap"})
	mock.ExpectRollback()

	err := repo.CreateChecked(context.Background(), newBookingFixture())
	assert.ErrorIs(t, err, ErrOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepCompleted_UpdatesPastActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, 3)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.SweepCompleted(context.Background(), time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
