package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"atlas/internal/domain"
	"atlas/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/upcoming", h.Upcoming)
	rg.GET("/bookings/today", h.Today)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PATCH("/bookings/:id/time", h.UpdateBookingTime)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)

	rg.GET("/workspaces/:id/availability", h.WorkspaceAvailability)
}

func actorFromContext(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetInt64("user_id"),
		Role:   domain.Role(c.GetString("role")),
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) UpdateBookingTime(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateBookingTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBookingTime(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	f := ListFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if v := c.Query("workspace"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.WorkspaceID = &id
		}
	}
	if v := c.Query("user"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UserID = &id
		}
	}
	if t, ok := timeQuery(c, "from_date"); ok {
		f.From = &t
	}
	if t, ok := timeQuery(c, "to_date"); ok {
		f.To = &t
	}

	out, err := h.service.ListBookings(c.Request.Context(), actorFromContext(c), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) Upcoming(c *gin.Context) {
	out, err := h.service.Upcoming(c.Request.Context(), actorFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) Today(c *gin.Context) {
	out, err := h.service.Today(c.Request.Context(), actorFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) WorkspaceAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	start, okStart := timeQuery(c, "start")
	end, okEnd := timeQuery(c, "end")
	if !okStart || !okEnd {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be RFC3339 timestamps")
		return
	}

	free, err := h.service.IsWorkspaceAvailable(c.Request.Context(), id, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspace_id": id, "available": free})
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
	switch {
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "End time must be after start time")
	case errors.Is(err, ErrPastBooking):
		response.Error(c, http.StatusBadRequest, "PAST_BOOKING", "Cannot book a workspace in the past")
	case errors.Is(err, ErrDurationExceeded):
		response.Error(c, http.StatusBadRequest, "DURATION_EXCEEDED", "Booking exceeds the maximum allowed duration")
	case errors.Is(err, ErrWorkspaceInactive):
		response.Error(c, http.StatusBadRequest, "WORKSPACE_INACTIVE", "Workspace is not accepting bookings")
	case errors.Is(err, ErrSlotConflict):
		response.Error(c, http.StatusConflict, "SLOT_CONFLICT", "Workspace is not available for the selected time")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Conflicting concurrent update, please retry")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status change not permitted")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or workspace not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this booking")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
