package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"atlas/internal/domain"
)

// Sentinels returned by the checked write paths. The booking service
// translates these into its public error taxonomy.
var (
	ErrNotFound   = errors.New("record not found")
	ErrOverlap    = errors.New("overlapping active booking")
	ErrNotActive  = errors.New("booking is not active")
	ErrTxConflict = errors.New("transaction conflict, retries exhausted")
)

type BookingRepository struct {
	db       *gorm.DB
	attempts int
}

func NewBookingRepository(db *gorm.DB, retryAttempts int) *BookingRepository {
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	return &BookingRepository{db: db, attempts: retryAttempts}
}

type bookingModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	WorkspaceID int64      `gorm:"column:workspace_id"`
	UserID      int64      `gorm:"column:user_id"`
	StartTime   time.Time  `gorm:"column:start_time"`
	EndTime     time.Time  `gorm:"column:end_time"`
	Purpose     *string    `gorm:"column:purpose"`
	Attendees   int        `gorm:"column:attendees"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var purpose string
	if m.Purpose != nil {
		purpose = *m.Purpose
	}

	return &domain.Booking{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Purpose:     purpose,
		Attendees:   m.Attendees,
		Status:      domain.BookingStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CancelledAt: m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var purpose *string
	if b.Purpose != "" {
		v := b.Purpose
		purpose = &v
	}

	return bookingModel{
		ID:          b.ID,
		WorkspaceID: b.WorkspaceID,
		UserID:      b.UserID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Purpose:     purpose,
		Attendees:   b.Attendees,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CancelledAt: b.CancelledAt,
	}
}

type BookingFilter struct {
	UserID      *int64
	WorkspaceID *int64
	Status      domain.BookingStatus
	Statuses    []domain.BookingStatus
	From        *time.Time // start_time >= From
	To          *time.Time // end_time <= To
	StartBefore *time.Time // start_time < StartBefore
	EndAfter    *time.Time // end_time > EndAfter
	OrderAsc    bool
	Limit       int
	Offset      int
}

// CreateChecked validates availability and inserts in one transaction.
// The workspace row lock serializes concurrent writers for the same
// workspace; the bookings_no_overlap exclusion constraint backs the check
// at commit time.
func (r *BookingRepository) CreateChecked(ctx context.Context, b *domain.Booking) error {
	return r.retryTx(ctx, func(tx *gorm.DB) error {
		if err := lockWorkspace(tx, b.WorkspaceID); err != nil {
			return err
		}

		n, err := countOverlapping(tx, b.WorkspaceID, b.StartTime, b.EndTime, 0)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrOverlap
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)
		return nil
	})
}

// UpdateTimeChecked revalidates the new range as if creating, excluding the
// booking itself from the conflict scan, and applies it atomically.
func (r *BookingRepository) UpdateTimeChecked(ctx context.Context, id int64, start, end time.Time) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.retryTx(ctx, func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !domain.BookingStatus(m.Status).Active() {
			return ErrNotActive
		}

		if err := lockWorkspace(tx, m.WorkspaceID); err != nil {
			return err
		}
		n, err := countOverlapping(tx, m.WorkspaceID, start, end, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrOverlap
		}

		m.StartTime = start
		m.EndTime = end
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		out = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel freezes the booking's range; the range stops counting toward
// availability the moment the transaction commits. Cancelling is only
// legal while the booking is active and before its end time.
func (r *BookingRepository) Cancel(ctx context.Context, id int64, now time.Time) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.retryTx(ctx, func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !domain.BookingStatus(m.Status).Active() || !m.EndTime.After(now) {
			return ErrNotActive
		}

		m.Status = string(domain.BookingCancelled)
		m.CancelledAt = &now
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		out = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBooking(m), nil
}

// IsAvailable answers the read-only availability query against committed
// bookings. Writers must not rely on it; they go through CreateChecked or
// UpdateTimeChecked, which re-evaluate under the transaction.
func (r *BookingRepository) IsAvailable(ctx context.Context, workspaceID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	n, err := countOverlapping(r.db.WithContext(ctx), workspaceID, start, end, excludeBookingID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&bookingModel{}), f)

	order := "start_time DESC"
	if f.OrderAsc {
		order = "start_time ASC"
	}
	q = q.Order(order)

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var ms []bookingModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) Count(ctx context.Context, f BookingFilter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&bookingModel{}), f).Count(&n).Error
	return n, err
}

func (r *BookingRepository) applyFilter(q *gorm.DB, f BookingFilter) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.WorkspaceID != nil {
		q = q.Where("workspace_id = ?", *f.WorkspaceID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("end_time <= ?", *f.To)
	}
	if f.StartBefore != nil {
		q = q.Where("start_time < ?", *f.StartBefore)
	}
	if f.EndAfter != nil {
		q = q.Where("end_time > ?", *f.EndAfter)
	}
	return q
}

// SweepCompleted transitions past-end active bookings to completed.
// Driven by cmd/sweeper, never by the synchronous API.
func (r *BookingRepository) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("status IN ? AND end_time <= ?", []string{string(domain.BookingPending), string(domain.BookingConfirmed)}, now).
		Updates(map[string]any{"status": string(domain.BookingCompleted), "updated_at": now})
	return res.RowsAffected, res.Error
}

func (r *BookingRepository) retryTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn)
		switch {
		case err == nil:
			return nil
		case isExclusionViolation(err):
			// Lost the race at commit; the slot is taken.
			return ErrOverlap
		case isRetryableTxError(err):
			continue
		default:
			return err
		}
	}
	return ErrTxConflict
}

func lockWorkspace(tx *gorm.DB, workspaceID int64) error {
	var id int64
	res := tx.Raw(`SELECT id FROM workspaces WHERE id = ? FOR UPDATE`, workspaceID).Scan(&id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func countOverlapping(tx *gorm.DB, workspaceID int64, start, end time.Time, excludeID int64) (int64, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE workspace_id = ?
  AND id <> ?
  AND status IN ('pending', 'confirmed')
  AND tstzrange(start_time, end_time, '[)') && tstzrange(?, ?, '[)')
`
	err := tx.Raw(q, workspaceID, excludeID, start, end).Scan(&cnt).Error
	return cnt, err
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code == "23P01" {
		return true
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == "bookings_no_overlap"
}
