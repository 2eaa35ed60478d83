package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranquility/internal/domain"
	"tranquility/internal/pkg/apperror"
)

type tokenMap map[string]domain.Actor

func (m tokenMap) Resolve(_ context.Context, token string) (domain.Actor, error) {
	a, ok := m[token]
	if !ok {
		return domain.Actor{}, apperror.Unauthorized("Invalid or expired token")
	}
	return a, nil
}

func newLiveServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	tokens := tokenMap{
		"staff": {UserID: 1, Role: domain.RoleStaff},
		"guest": {UserID: 2, Role: domain.RoleGuest},
	}
	r := gin.New()
	NewHandler(hub, tokens, []string{"http://localhost:3000"}).RegisterRoutes(r.Group("/api/v1/admin"))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/admin/live?token=" + token
}

func TestLive_StaffReceivesEvents(t *testing.T) {
	hub, srv := newLiveServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "staff"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(domain.BookingEvent{
		Type:      domain.EventBookingCreated,
		BookingID: 42,
		Reference: "ABC123",
		Status:    domain.BookingPending,
		CheckIn:   "2024-06-01",
		CheckOut:  "2024-06-04",
		Total:     300,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev domain.BookingEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, domain.EventBookingCreated, ev.Type)
	assert.Equal(t, int64(42), ev.BookingID)
	assert.Equal(t, 300.0, ev.Total)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLive_RejectsGuestsAndBadTokens(t *testing.T) {
	_, srv := newLiveServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "guest"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLive_OriginCheck(t *testing.T) {
	_, srv := newLiveServer(t)

	h := http.Header{}
	h.Set("Origin", "http://evil.example.com")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "staff"), h)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	h.Set("Origin", "http://localhost:3000")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "staff"), h)
	require.NoError(t, err)
	conn.Close()
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() { hub.Publish(domain.BookingEvent{Type: domain.EventBookingUpdated}) })
	hub.Close()
	assert.Zero(t, hub.Count())
}
