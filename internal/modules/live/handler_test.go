package live

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"atlas/internal/pkg/jwt"
)

func TestParseWorkspaceIDs(t *testing.T) {
	assert.Nil(t, parseWorkspaceIDs(""))
	assert.Equal(t, []int64{1, 2, 3}, parseWorkspaceIDs("1,2,3"))
	assert.Equal(t, []int64{5}, parseWorkspaceIDs(" 5 "))
	assert.Equal(t, []int64{1, 3}, parseWorkspaceIDs("1,abc,3"))
}

func TestCheckOrigin(t *testing.T) {
	jwtService := jwt.New("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/ws/bookings", nil)
	req.Header.Set("Origin", "https://elsewhere.example")

	open := NewHandler(NewHub(), jwtService, "")
	assert.True(t, open.upgrader.CheckOrigin(req), "empty config admits any origin")

	pinned := NewHandler(NewHub(), jwtService, "https://app.example")
	assert.False(t, pinned.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, pinned.upgrader.CheckOrigin(req))

	req.Header.Del("Origin")
	assert.True(t, pinned.upgrader.CheckOrigin(req), "non-browser clients send no origin")
}
