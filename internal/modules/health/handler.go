package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"datavisapi/internal/pkg/response"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	group := v1.Group("/health")
	{
		group.GET("", h.Check)
		group.GET("/db", h.CheckDB)
	}
}

func (h *Handler) Check(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CheckDB(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable")
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
