package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"tranquility/internal/domain"
)

func roleRouter(actor *domain.Actor, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			SetActor(c, *actor)
		}
		c.Next()
	})
	r.GET("/admin", guard, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name   string
		actor  *domain.Actor
		guard  gin.HandlerFunc
		status int
	}{
		{"anonymous", nil, AdminOnly(), http.StatusUnauthorized},
		{"guest on admin", &domain.Actor{UserID: 1, Role: domain.RoleGuest}, AdminOnly(), http.StatusForbidden},
		{"staff on admin", &domain.Actor{UserID: 1, Role: domain.RoleStaff}, AdminOnly(), http.StatusForbidden},
		{"admin on admin", &domain.Actor{UserID: 1, Role: domain.RoleAdmin}, AdminOnly(), http.StatusNoContent},
		{"staff on staff", &domain.Actor{UserID: 1, Role: domain.RoleStaff}, StaffOnly(), http.StatusNoContent},
		{"admin on staff", &domain.Actor{UserID: 1, Role: domain.RoleAdmin}, StaffOnly(), http.StatusNoContent},
		{"guest on staff", &domain.Actor{UserID: 1, Role: domain.RoleGuest}, StaffOnly(), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			roleRouter(tc.actor, tc.guard).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
