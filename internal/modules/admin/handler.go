package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlas/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.PATCH("/users/:id/role", h.UpdateUserRole)
	rg.POST("/users/:id/activate", h.ActivateUser)
	rg.POST("/users/:id/deactivate", h.DeactivateUser)
	rg.GET("/roles", h.ListRoles)
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	out, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.UpdateUserRole(c.Request.Context(), c.GetInt64("user_id"), id, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) ActivateUser(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	h.setActive(c, false)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.SetUserActive(c.Request.Context(), c.GetInt64("user_id"), id, active); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": active})
}

func (h *Handler) ListRoles(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"roles": h.service.Roles()})
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

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrUnknownRole):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ROLE", "Role is not recognized")
	case errors.Is(err, ErrSelfDemotion):
		response.Error(c, http.StatusBadRequest, "SELF_ROLE_CHANGE", "You cannot change your own role")
	case errors.Is(err, ErrSelfDeactivate):
		response.Error(c, http.StatusBadRequest, "SELF_DEACTIVATE", "You cannot deactivate your own account")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
