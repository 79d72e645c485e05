package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"atlas/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterReadRoutes mounts the endpoints any authenticated user may call.
func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	rg.GET("/workspaces", h.ListWorkspaces)
	rg.GET("/workspaces/:id", h.GetWorkspace)
	rg.GET("/workspace-types", h.ListTypes)
}

// RegisterAdminRoutes mounts the catalog write endpoints; the caller is
// expected to wrap the group in a capability check.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/workspaces", h.CreateWorkspace)
	rg.PUT("/workspaces/:id", h.UpdateWorkspace)
	rg.POST("/workspaces/:id/activate", h.ActivateWorkspace)
	rg.POST("/workspaces/:id/deactivate", h.DeactivateWorkspace)

	rg.POST("/workspace-types", h.CreateType)
	rg.PUT("/workspace-types/:id", h.UpdateType)
}

func (h *Handler) ListWorkspaces(c *gin.Context) {
	q := ListWorkspacesQuery{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("all") != "true",
		Limit:      intQuery(c, "limit", 50),
		Offset:     intQuery(c, "offset", 0),
	}
	if v := c.Query("type"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.TypeID = &id
		}
	}
	if t, ok := timeQuery(c, "available_from"); ok {
		q.AvailableFrom = &t
	}
	if t, ok := timeQuery(c, "available_to"); ok {
		q.AvailableTo = &t
	}

	out, total, err := h.service.ListWorkspaces(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspaces": out, "total": total})
}

func (h *Handler) GetWorkspace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ws, err := h.service.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ws)
}

func (h *Handler) CreateWorkspace(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ws, err := h.service.CreateWorkspace(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ws)
}

func (h *Handler) UpdateWorkspace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ws, err := h.service.UpdateWorkspace(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ws)
}

func (h *Handler) ActivateWorkspace(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) DeactivateWorkspace(c *gin.Context) {
	h.setActive(c, false)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.SetWorkspaceActive(c.Request.Context(), id, active); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": active})
}

func (h *Handler) ListTypes(c *gin.Context) {
	out, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspace_types": out})
}

func (h *Handler) CreateType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wt, err := h.service.CreateType(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, wt)
}

func (h *Handler) UpdateType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wt, err := h.service.UpdateType(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wt)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id in path")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func timeQuery(c *gin.Context, name string) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func respondServiceError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid workspace data", ve.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Workspace not found")
	case errors.Is(err, ErrTypeNotFound):
		response.Error(c, http.StatusNotFound, "TYPE_NOT_FOUND", "Workspace type not found")
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "available_to must be after available_from")
	case errors.Is(err, ErrInvalidCapacity):
		response.Error(c, http.StatusBadRequest, "INVALID_CAPACITY", "Capacity must be at least 1")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
