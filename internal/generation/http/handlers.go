package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metrically/metrically-backend/internal/generation/domain"
	"github.com/metrically/metrically-backend/internal/generation/service"
)

// Handler exposes the generation backend's status and the on-demand
// SQL generation passthrough.
type Handler struct {
	client       *service.Client
	availability *service.AvailabilityCache
}

func New(client *service.Client, availability *service.AvailabilityCache) *Handler {
	return &Handler{client: client, availability: availability}
}

// Register attaches the public status route.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/status", h.status)
}

// RegisterProtected attaches routes that require a session.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/generate-sql", h.generateSQL)
	rg.POST("/format-metrics", h.formatMetrics)
}

// status reports the cached availability probe, falling back to a live
// probe when the cache has never been filled.
func (h *Handler) status(c *gin.Context) {
	status, checked := h.availability.Last()
	if checked.IsZero() {
		status = h.availability.Refresh(c.Request.Context())
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) generateSQL(c *gin.Context) {
	var req domain.SQLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MetricName == "" || req.TechStack == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	token := c.GetString("session_token")
	resp, err := h.client.GenerateSQL(c.Request.Context(), token, req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "SQL generation is temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// formatMetrics runs the best-effort extraction over raw generation
// text. It never fails; unrecognizable text yields the default example
// metrics.
func (h *Handler) formatMetrics(c *gin.Context) {
	var req struct {
		RawResponse string `json:"raw_response"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	result := service.FormatMetrics(req.RawResponse)
	c.JSON(http.StatusOK, gin.H{"ok": true, "metrics": result.Metrics, "fallback": result.Fallback})
}
