package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"atlas/internal/domain"
)

type workspaceModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Location        string    `gorm:"column:location"`
	Floor           string    `gorm:"column:floor"`
	WorkspaceTypeID int64     `gorm:"column:workspace_type_id"`
	IsActive        bool      `gorm:"column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (workspaceModel) TableName() string { return "workspaces" }

func toDomainWorkspace(m workspaceModel) *domain.Workspace {
	return &domain.Workspace{
		ID:              m.ID,
		Name:            m.Name,
		Location:        m.Location,
		Floor:           m.Floor,
		WorkspaceTypeID: m.WorkspaceTypeID,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toWorkspaceModel(ws *domain.Workspace) workspaceModel {
	return workspaceModel{
		ID:              ws.ID,
		Name:            ws.Name,
		Location:        ws.Location,
		Floor:           ws.Floor,
		WorkspaceTypeID: ws.WorkspaceTypeID,
		IsActive:        ws.IsActive,
		CreatedAt:       ws.CreatedAt,
		UpdatedAt:       ws.UpdatedAt,
	}
}

type workspaceTypeModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	Capacity    int       `gorm:"column:capacity"`
	Amenities   []string  `gorm:"column:amenities;serializer:json"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (workspaceTypeModel) TableName() string { return "workspace_types" }

func toDomainWorkspaceType(m workspaceTypeModel) *domain.WorkspaceType {
	return &domain.WorkspaceType{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Capacity:    m.Capacity,
		Amenities:   m.Amenities,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toWorkspaceTypeModel(wt *domain.WorkspaceType) workspaceTypeModel {
	return workspaceTypeModel{
		ID:          wt.ID,
		Name:        wt.Name,
		Description: wt.Description,
		Capacity:    wt.Capacity,
		Amenities:   wt.Amenities,
		CreatedAt:   wt.CreatedAt,
		UpdatedAt:   wt.UpdatedAt,
	}
}

type WorkspaceFilter struct {
	Search     string // matches name, location, floor
	TypeID     *int64
	ActiveOnly bool
	Limit      int
	Offset     int
}

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	var m workspaceModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainWorkspace(m), nil
}

func (r *WorkspaceRepository) List(ctx context.Context, f WorkspaceFilter) ([]domain.Workspace, int64, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&workspaceModel{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []workspaceModel
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return mapWorkspaces(rows), total, nil
}

// ListAvailable returns workspaces matching the filter that have no active
// booking overlapping [start, end). This is the batch form of the
// availability check, evaluated set-wise in one query.
func (r *WorkspaceRepository) ListAvailable(ctx context.Context, f WorkspaceFilter, start, end time.Time) ([]domain.Workspace, error) {
	f.ActiveOnly = true
	q := r.applyFilter(r.db.WithContext(ctx).Model(&workspaceModel{}), f)

	q = q.Where(`workspaces.id NOT IN (
SELECT workspace_id FROM bookings
WHERE status IN ('pending', 'confirmed')
  AND tstzrange(start_time, end_time, '[)') && tstzrange(?, ?, '[)')
)`, start, end)

	var rows []workspaceModel
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapWorkspaces(rows), nil
}

func (r *WorkspaceRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	m := toWorkspaceModel(ws)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*ws = *toDomainWorkspace(m)
	return nil
}

func (r *WorkspaceRepository) Update(ctx context.Context, ws *domain.Workspace) error {
	m := toWorkspaceModel(ws)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	*ws = *toDomainWorkspace(m)
	return nil
}

// SetActive flips bookability. Deactivation never touches existing
// bookings; it only stops new ones.
func (r *WorkspaceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&workspaceModel{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WorkspaceRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&workspaceModel{}).
		Where("is_active = ?", true).
		Count(&n).Error
	return n, err
}

func (r *WorkspaceRepository) applyFilter(q *gorm.DB, f WorkspaceFilter) *gorm.DB {
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.TypeID != nil {
		q = q.Where("workspace_type_id = ?", *f.TypeID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR location LIKE ? OR floor LIKE ?", like, like, like)
	}
	return q
}

func mapWorkspaces(rows []workspaceModel) []domain.Workspace {
	out := make([]domain.Workspace, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWorkspace(m))
	}
	return out
}

// Workspace types.

func (r *WorkspaceRepository) CreateType(ctx context.Context, wt *domain.WorkspaceType) error {
	m := toWorkspaceTypeModel(wt)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*wt = *toDomainWorkspaceType(m)
	return nil
}

func (r *WorkspaceRepository) GetTypeByID(ctx context.Context, id int64) (*domain.WorkspaceType, error) {
	var m workspaceTypeModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainWorkspaceType(m), nil
}

func (r *WorkspaceRepository) ListTypes(ctx context.Context) ([]domain.WorkspaceType, error) {
	var rows []workspaceTypeModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.WorkspaceType, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWorkspaceType(m))
	}
	return out, nil
}

func (r *WorkspaceRepository) UpdateType(ctx context.Context, wt *domain.WorkspaceType) error {
	m := toWorkspaceTypeModel(wt)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	*wt = *toDomainWorkspaceType(m)
	return nil
}
