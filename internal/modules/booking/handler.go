package booking

import (
	"net/http"
	"strconv"

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

// RegisterPublicRoutes mounts the availability quote.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms/:id/availability", h.CheckAvailability)
}

// RegisterProtectedRoutes mounts guest endpoints; rg must run JWTAuth.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.GET("/me/bookings", h.MyBookings)
}

// RegisterAdminRoutes mounts the front desk endpoints; rg must be staff-only.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", h.UpdateStatus)
		bookings.PUT("/:id", h.UpdateBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking created", b)
}

func (h *Handler) GetBooking(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking loaded", b)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CancelRequest
	// body is optional
	if c.Request.ContentLength > 0 && !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking cancelled", b)
}

func (h *Handler) MyBookings(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	res, err := h.service.MyBookings(c.Request.Context(), actor, c.Query("status"), page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings loaded", res)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var q AvailabilityQuery
	if !request.BindQuery(c, &q) {
		return
	}
	quote, err := h.service.CheckAvailability(c.Request.Context(), id, q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Availability checked", quote)
}

func (h *Handler) ListBookings(c *gin.Context) {
	var q ListQuery
	if !request.BindQuery(c, &q) {
		return
	}
	res, err := h.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings loaded", res)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking status updated", b)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.UpdateBooking(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking updated", b)
}
