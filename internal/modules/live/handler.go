package live

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"tranquility/internal/domain"
	"tranquility/internal/pkg/apperror"
	"tranquility/internal/pkg/response"
)

// ActorResolver turns a bearer token into the current caller.
type ActorResolver interface {
	Resolve(ctx context.Context, token string) (domain.Actor, error)
}

type Handler struct {
	hub      *Hub
	auth     ActorResolver
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the given browser origins; "*" allows any.
func NewHandler(hub *Hub, auth ActorResolver, origins []string) *Handler {
	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(origins, "*") {
			return true
		}
		if slices.Contains(origins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// RegisterRoutes mounts GET /live. Browsers cannot set headers on a
// websocket handshake, so the token travels as ?token=.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Connect)
}

func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, apperror.KindUnauthorized, "Token is required")
		return
	}

	actor, err := h.auth.Resolve(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !actor.IsStaff() {
		response.Error(c, http.StatusForbidden, apperror.KindForbidden, "Staff access required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", actor.UserID).Msg("live upgrade failed")
		return
	}
	h.hub.serve(conn, actor.UserID)
}
