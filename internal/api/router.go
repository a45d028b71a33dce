package api

import (
	"net/http"

	"telepipe/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CORS allows any origin, matching the public listing API it fronts.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Range, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type HealthHandler struct {
	DB *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (h *HealthHandler) Check(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewRouter wires every backend route. hub may be nil to disable the live feed.
func NewRouter(videoHandler *VideoHandler, healthHandler *HealthHandler, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), CORS())

	r.POST("/upload", videoHandler.Upload)
	r.GET("/videos", videoHandler.List)
	r.GET("/videos/:id", videoHandler.Get)
	r.GET("/video/:id", videoHandler.Download)
	r.GET("/health", healthHandler.Check)

	if hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r
}
