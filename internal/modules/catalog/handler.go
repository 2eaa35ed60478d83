package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tranquility/internal/pkg/apperror"
	"tranquility/internal/pkg/request"
	"tranquility/internal/pkg/response"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/room-types", h.ListRoomTypes)
	rg.GET("/rooms", h.SearchRooms)
	rg.GET("/rooms/:id", h.GetRoom)
	rg.GET("/amenities", h.ListAmenities)
}

// RegisterAdminRoutes mounts catalogue management; rg must be admin-only.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	types := rg.Group("/room-types")
	{
		types.POST("", h.CreateRoomType)
		types.PUT("/:id", h.UpdateRoomType)
		types.DELETE("/:id", h.DeleteRoomType)
	}

	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.ListRoomsAdmin)
		rooms.POST("", h.CreateRoom)
		rooms.GET("/:id", h.GetRoomAdmin)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
		rooms.PATCH("/:id/active", h.SetRoomActive)
		rooms.POST("/:id/images", h.UploadImage)
		rooms.DELETE("/:id/images/:imageId", h.DeleteImage)
		rooms.GET("/:id/blocks", h.ListBlocks)
		rooms.POST("/:id/blocks", h.AddBlock)
		rooms.DELETE("/:id/blocks/:blockId", h.DeleteBlock)
	}

	amenities := rg.Group("/amenities")
	{
		amenities.GET("", h.ListAllAmenities)
		amenities.POST("", h.CreateAmenity)
		amenities.PUT("/:id", h.UpdateAmenity)
		amenities.DELETE("/:id", h.DeleteAmenity)
	}
}

/* ---------- PUBLIC ---------- */

func (h *Handler) ListRoomTypes(c *gin.Context) {
	out, err := h.service.ListRoomTypes(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room types loaded", out)
}

func (h *Handler) SearchRooms(c *gin.Context) {
	var q RoomQuery
	if !request.BindQuery(c, &q) {
		return
	}
	out, err := h.service.SearchRooms(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Rooms loaded", out)
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room loaded", room)
}

func (h *Handler) ListAmenities(c *gin.Context) {
	out, err := h.service.ListAmenities(c.Request.Context(), true)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Amenities loaded", out)
}

/* ---------- ROOM TYPES ---------- */

func (h *Handler) CreateRoomType(c *gin.Context) {
	var req RoomTypeRequest
	if !request.BindJSON(c, &req) {
		return
	}
	rt, err := h.service.CreateRoomType(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Room type created", rt)
}

func (h *Handler) UpdateRoomType(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req RoomTypeRequest
	if !request.BindJSON(c, &req) {
		return
	}
	rt, err := h.service.UpdateRoomType(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room type updated", rt)
}

func (h *Handler) DeleteRoomType(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRoomType(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room type deleted", nil)
}

/* ---------- ROOMS ---------- */

func (h *Handler) ListRoomsAdmin(c *gin.Context) {
	var q RoomQuery
	if !request.BindQuery(c, &q) {
		return
	}
	out, err := h.service.ListRoomsAdmin(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Rooms loaded", out)
}

func (h *Handler) GetRoomAdmin(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	room, err := h.service.GetRoomAdmin(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room loaded", room)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if !request.BindJSON(c, &req) {
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Room created", room)
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if !request.BindJSON(c, &req) {
		return
	}
	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room updated", room)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room deleted", nil)
}

func (h *Handler) SetRoomActive(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if !request.BindJSON(c, &req) {
		return
	}
	room, err := h.service.SetRoomActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Room updated", room)
}

func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, apperror.Validation("Multipart field 'image' is required (max 10MB)"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, apperror.Validation("Cannot read uploaded file"))
		return
	}
	defer f.Close()

	img, err := h.service.UploadImage(c.Request.Context(), id, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Image uploaded", img)
}

func (h *Handler) DeleteImage(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	imageID, ok := request.ParamID(c, "imageId")
	if !ok {
		return
	}
	if err := h.service.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Image deleted", nil)
}

func (h *Handler) ListBlocks(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	out, err := h.service.ListBlocks(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Blocks loaded", out)
}

func (h *Handler) AddBlock(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req BlockRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.AddBlock(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Room blocked", b)
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	blockID, ok := request.ParamID(c, "blockId")
	if !ok {
		return
	}
	if err := h.service.DeleteBlock(c.Request.Context(), id, blockID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Block removed", nil)
}

/* ---------- AMENITIES ---------- */

func (h *Handler) ListAllAmenities(c *gin.Context) {
	out, err := h.service.ListAmenities(c.Request.Context(), false)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Amenities loaded", out)
}

func (h *Handler) CreateAmenity(c *gin.Context) {
	var req AmenityRequest
	if !request.BindJSON(c, &req) {
		return
	}
	a, err := h.service.CreateAmenity(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Amenity created", a)
}

func (h *Handler) UpdateAmenity(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req AmenityRequest
	if !request.BindJSON(c, &req) {
		return
	}
	a, err := h.service.UpdateAmenity(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Amenity updated", a)
}

func (h *Handler) DeleteAmenity(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAmenity(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Amenity deleted", nil)
}
