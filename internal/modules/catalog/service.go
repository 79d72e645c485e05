package catalog

import (
	"context"
	"errors"

	"atlas/internal/domain"
	"atlas/internal/pkg/validator"
	"atlas/internal/repository"
)

type Service struct {
	workspaces WorkspaceStore
}

func NewService(workspaces WorkspaceStore) *Service {
	return &Service{workspaces: workspaces}
}

func (s *Service) GetWorkspace(ctx context.Context, id int64) (*domain.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	return ws, nil
}

// ListWorkspaces switches to the set-wise availability query when an
// availability window is given; the plain filtered listing otherwise.
func (s *Service) ListWorkspaces(ctx context.Context, q ListWorkspacesQuery) ([]domain.Workspace, int64, error) {
	f := repository.WorkspaceFilter{
		Search:     q.Search,
		TypeID:     q.TypeID,
		ActiveOnly: q.ActiveOnly,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}

	if q.AvailableFrom != nil && q.AvailableTo != nil {
		if _, err := domain.NewTimeRange(*q.AvailableFrom, *q.AvailableTo); err != nil {
			return nil, 0, ErrInvalidRange
		}
		out, err := s.workspaces.ListAvailable(ctx, f, *q.AvailableFrom, *q.AvailableTo)
		if err != nil {
			return nil, 0, err
		}
		return out, int64(len(out)), nil
	}

	return s.workspaces.List(ctx, f)
}

func (s *Service) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*domain.Workspace, error) {
	if _, err := s.workspaces.GetTypeByID(ctx, req.WorkspaceTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}

	ws := &domain.Workspace{
		Name:            req.Name,
		Location:        req.Location,
		Floor:           req.Floor,
		WorkspaceTypeID: req.WorkspaceTypeID,
		IsActive:        true,
	}
	if fields := validator.Validate(ws); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *Service) UpdateWorkspace(ctx context.Context, id int64, req UpdateWorkspaceRequest) (*domain.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Location != nil {
		ws.Location = *req.Location
	}
	if req.Floor != nil {
		ws.Floor = *req.Floor
	}
	if req.WorkspaceTypeID != nil {
		if _, err := s.workspaces.GetTypeByID(ctx, *req.WorkspaceTypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTypeNotFound
			}
			return nil, err
		}
		ws.WorkspaceTypeID = *req.WorkspaceTypeID
	}
	if fields := validator.Validate(ws); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.workspaces.Update(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// SetWorkspaceActive deactivates or reactivates a workspace. Existing
// bookings are left alone; only new creation is blocked.
func (s *Service) SetWorkspaceActive(ctx context.Context, id int64, active bool) error {
	if err := s.workspaces.SetActive(ctx, id, active); err != nil {
		return s.mapStoreErr(err)
	}
	return nil
}

func (s *Service) CreateType(ctx context.Context, req CreateTypeRequest) (*domain.WorkspaceType, error) {
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	wt := &domain.WorkspaceType{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
	}
	if err := s.workspaces.CreateType(ctx, wt); err != nil {
		return nil, err
	}
	return wt, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.WorkspaceType, error) {
	return s.workspaces.ListTypes(ctx)
}

func (s *Service) UpdateType(ctx context.Context, id int64, req UpdateTypeRequest) (*domain.WorkspaceType, error) {
	wt, err := s.workspaces.GetTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		wt.Name = *req.Name
	}
	if req.Description != nil {
		wt.Description = *req.Description
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		wt.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		wt.Amenities = *req.Amenities
	}

	if err := s.workspaces.UpdateType(ctx, wt); err != nil {
		return nil, err
	}
	return wt, nil
}

func (s *Service) mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
