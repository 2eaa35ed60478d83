package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tranquility/internal/domain"
	"tranquility/internal/pkg/apperror"
	"tranquility/internal/pkg/jwt"
	"tranquility/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

var (
	errHeaderMissing = apperror.Unauthorized("Authorization header is required")
	errHeaderFormat  = apperror.Unauthorized("Authorization header must be 'Bearer <token>'")
	errInvalidToken  = apperror.Unauthorized("Invalid or expired token")
	errUserGone      = apperror.Unauthorized("Account no longer exists")
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authenticator resolves bearer tokens to the calling user. The role is
// re-read from the store so demotions and deletions apply immediately.
type Authenticator struct {
	tokens TokenValidator
	users  UserLoader
}

func NewAuthenticator(tokens TokenValidator, users UserLoader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Resolve(ctx context.Context, token string) (domain.Actor, error) {
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return domain.Actor{}, errInvalidToken
	}
	actor := domain.Actor{UserID: claims.UserID, Role: domain.UserRole(claims.Role)}

	if a.users == nil {
		return actor, nil
	}
	u, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil || u.IsDeleted {
		return domain.Actor{}, errUserGone
	}
	actor.Role = u.Role
	return actor, nil
}

func (a *Authenticator) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Fail(c, errHeaderMissing)
			c.Abort()
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Fail(c, errHeaderFormat)
			c.Abort()
			return
		}

		actor, err := a.Resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(ctxUserID, actor.UserID)
	c.Set(ctxRole, string(actor.Role))
}

// ActorFrom returns the caller set by JWTAuth.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	id := c.GetInt64(ctxUserID)
	if id == 0 {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: id, Role: domain.UserRole(c.GetString(ctxRole))}, true
}

// MustActor writes 401 and returns false when no caller is set.
func MustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.KindUnauthorized, "Authentication required")
		c.Abort()
	}
	return actor, ok
}
