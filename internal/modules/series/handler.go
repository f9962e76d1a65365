package series

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"datavisapi/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/series")
	{
		group.GET("", h.List)
		group.GET("/all-with-measurements", h.ListWithMeasurements)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.PATCH("/:id/color", h.UpdateColor)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list series")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"series": list})
}

func (h *Handler) ListWithMeasurements(c *gin.Context) {
	list, err := h.service.ListWithMeasurements(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list series")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"series": list})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := seriesID(c)
	if !ok {
		return
	}

	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to get series")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"series": s})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	s, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "min_value cannot be greater than max_value")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create series")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"series": s})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := seriesID(c)
	if !ok {
		return
	}

	var req CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	s, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "min_value cannot be greater than max_value")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series not found")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update series")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"series": s})
}

func (h *Handler) UpdateColor(c *gin.Context) {
	id, ok := seriesID(c)
	if !ok {
		return
	}

	var req UpdateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	s, err := h.service.UpdateColor(c.Request.Context(), id, req.ColorHex)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update series color")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"series": s})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := seriesID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete series")
		return
	}
	c.Status(http.StatusNoContent)
}

func seriesID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid series ID")
		return 0, false
	}
	return id, true
}
