package auth

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

// RegisterRoutes mounts the public endpoints. loginGuard throttles
// credential guessing and may be nil.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, loginGuard gin.HandlerFunc) {
	auth := rg.Group("/auth")
	if loginGuard != nil {
		auth.Use(loginGuard)
	}
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetMe)
	rg.PATCH("/me", h.UpdateMe)
	rg.POST("/me/password", h.ChangePassword)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !request.BindJSON(c, &req) {
		return
	}
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", res)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !request.BindJSON(c, &req) {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", res)
}

func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	u, err := h.service.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile loaded", ToPublic(u))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !request.BindJSON(c, &req) {
		return
	}
	u, err := h.service.UpdateProfile(c.Request.Context(), actor.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", ToPublic(u))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !request.BindJSON(c, &req) {
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), actor.UserID, req); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password changed", nil)
}
