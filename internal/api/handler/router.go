package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"six/backend/internal/metrics"
)

// NewRouter wires the full HTTP surface. mediaBaseURL is the public prefix
// under which uploaded blobs are served from disk.
func NewRouter(h *Handler, mediaBaseURL string, dev bool) *gin.Engine {
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/identity", h.GetIdentity)

	if mediaBaseURL != "" {
		r.Static(mediaBaseURL, h.Media.Dir())
	}

	auth := r.Group("/", h.RequireIdentity)
	{
		auth.POST("/rooms", h.CreateRoom)
		auth.GET("/rooms/:id", h.GetRoom)
		auth.PATCH("/rooms/:id", h.JoinRoom)
		auth.PATCH("/rooms/:id/name", h.RenameRoom)

		auth.GET("/rooms/:id/messages", h.ListMessages)
		auth.POST("/rooms/:id/messages", h.SendMessage)
		auth.POST("/rooms/:id/typing", h.PostTyping)

		auth.POST("/messages/:id/read", h.MarkRead)
		auth.POST("/messages/:id/reveal", h.Reveal)

		auth.POST("/upload", h.Upload)
		auth.DELETE("/upload", h.DeleteUpload)

		auth.GET("/ws", h.ServeWebSocket)
	}

	return r
}
