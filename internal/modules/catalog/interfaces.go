package catalog

import (
	"context"
	"time"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
	List(ctx context.Context, f repository.WorkspaceFilter) ([]domain.Workspace, int64, error)
	ListAvailable(ctx context.Context, f repository.WorkspaceFilter, start, end time.Time) ([]domain.Workspace, error)
	Create(ctx context.Context, ws *domain.Workspace) error
	Update(ctx context.Context, ws *domain.Workspace) error
	SetActive(ctx context.Context, id int64, active bool) error

	CreateType(ctx context.Context, wt *domain.WorkspaceType) error
	GetTypeByID(ctx context.Context, id int64) (*domain.WorkspaceType, error)
	ListTypes(ctx context.Context) ([]domain.WorkspaceType, error)
	UpdateType(ctx context.Context, wt *domain.WorkspaceType) error
}
