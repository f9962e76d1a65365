package measurement

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"datavisapi/internal/pkg/response"
	"datavisapi/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks happen in the CORS middleware for the REST surface;
	// the stream endpoint sits behind the same bearer-token middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/measurements")
	{
		group.GET("", h.ListBySeries)
		group.GET("/stream", h.Stream)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) ListBySeries(c *gin.Context) {
	seriesID, err := strconv.Atoi(c.Query("series_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "series_id query parameter is required")
		return
	}

	filters := repository.MeasurementFilters{SeriesID: seriesID}

	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be RFC3339")
			return
		}
		filters.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be RFC3339")
			return
		}
		filters.To = &to
	}

	list, err := h.service.ListBySeries(c.Request.Context(), filters)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must not be before from")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list measurements")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"measurements": list})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := measurementID(c)
	if !ok {
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Measurement not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to get measurement")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"measurement": m})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Value is outside the series min/max bounds")
		default:
			response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create measurement")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"measurement": m})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := measurementID(c)
	if !ok {
		return
	}

	var req CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Measurement not found")
		case errors.Is(err, ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Value is outside the series min/max bounds")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update measurement")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"measurement": m})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := measurementID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Measurement not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete measurement")
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream upgrades to a websocket and pushes created measurements until the
// client goes away.
func (h *Handler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	// Consume control frames; any read error means the client is gone.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func measurementID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid measurement ID")
		return 0, false
	}
	return id, true
}
