package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tranquility/internal/domain"
	"tranquility/internal/pkg/jwt"
)

type MockUserLoader struct {
	mock.Mock
}

func (m *MockUserLoader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func protectedRouter(auth *Authenticator, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(auth.JWTAuth())
	router.GET("/protected", handler)
	return router
}

func echoActor(c *gin.Context) {
	actor, _ := ActorFrom(c)
	c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	validToken, _ := jwtService.GenerateToken(42, "GUEST")

	router := protectedRouter(NewAuthenticator(jwtService, nil), echoActor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "GUEST")
}

func TestJWTAuth_RoleIsReloaded(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _ := jwtService.GenerateToken(7, "ADMIN")

	users := new(MockUserLoader)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleGuest}, nil)

	router := protectedRouter(NewAuthenticator(jwtService, users), echoActor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"GUEST"`)
	users.AssertExpectations(t)
}

func TestJWTAuth_DeletedUser(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _ := jwtService.GenerateToken(7, "GUEST")

	users := new(MockUserLoader)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleGuest, IsDeleted: true}, nil)

	router := protectedRouter(NewAuthenticator(jwtService, users), func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Account no longer exists")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	router := protectedRouter(NewAuthenticator(jwt.New("wrong-secret", 1*time.Hour), nil), func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"UNAUTHORIZED"`)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestJWTAuth_NoToken(t *testing.T) {
	router := protectedRouter(NewAuthenticator(jwt.New("secret", time.Hour), nil), func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	router := protectedRouter(NewAuthenticator(jwt.New("secret", time.Hour), nil), func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer <token>")
}
