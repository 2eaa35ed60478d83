package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tranquility/internal/middleware"
	"tranquility/internal/pkg/request"
	"tranquility/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterStaffRoutes mounts what the front desk may see.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
}

// RegisterRoutes mounts user management; rg must be admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard loaded", d)
}

func (h *Handler) ListUsers(c *gin.Context) {
	var q UserQuery
	if !request.BindQuery(c, &q) {
		return
	}
	out, err := h.service.ListUsers(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Users loaded", out)
}

func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !request.BindJSON(c, &req) {
		return
	}
	u, err := h.service.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "User created", u)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !request.BindJSON(c, &req) {
		return
	}
	u, err := h.service.UpdateUser(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}
