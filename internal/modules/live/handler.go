package live

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"atlas/internal/pkg/jwt"
)

type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
	upgrader   websocket.Upgrader
}

// NewHandler builds the websocket endpoint. An empty allowedOrigin
// admits any origin, for local development and non-browser clients;
// set WS_ALLOWED_ORIGIN to pin it to the frontend host.
func NewHandler(hub *Hub, jwtService *jwt.Service, allowedOrigin string) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/bookings", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and keeps it registered until
// the client goes away. Auth rides in the query string since browsers
// cannot set headers on websocket dials.
//
// GET /ws/bookings?token=JWT&workspaces=1,2,3
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	workspaceIDs := parseWorkspaceIDs(c.Query("workspaces"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	cl := h.hub.Register(claims.UserID, conn, workspaceIDs)
	defer h.hub.Release(claims.UserID, cl)

	// Drain until the peer closes; all traffic is server to client.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func parseWorkspaceIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
