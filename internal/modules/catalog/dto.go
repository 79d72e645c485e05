package catalog

import "time"

type CreateWorkspaceRequest struct {
	Name            string `json:"name" binding:"required"`
	Location        string `json:"location" binding:"required"`
	Floor           string `json:"floor"`
	WorkspaceTypeID int64  `json:"workspace_type_id" binding:"required"`
}

// UpdateWorkspaceRequest applies only the fields that are present.
type UpdateWorkspaceRequest struct {
	Name            *string `json:"name"`
	Location        *string `json:"location"`
	Floor           *string `json:"floor"`
	WorkspaceTypeID *int64  `json:"workspace_type_id"`
}

type ListWorkspacesQuery struct {
	Search     string
	TypeID     *int64
	ActiveOnly bool
	// When both are set, only workspaces free over [AvailableFrom,
	// AvailableTo) are returned.
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	Limit         int
	Offset        int
}

type CreateTypeRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Capacity    int      `json:"capacity" binding:"required,gte=1"`
	Amenities   []string `json:"amenities"`
}

type UpdateTypeRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Capacity    *int      `json:"capacity"`
	Amenities   *[]string `json:"amenities"`
}
