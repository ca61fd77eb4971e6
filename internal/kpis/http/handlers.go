package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metrically/metrically-backend/internal/auth"
	"github.com/metrically/metrically-backend/internal/kpis/domain"
	"github.com/metrically/metrically-backend/internal/kpis/repository"
)

// Handler bundles the dependencies for KPI-set read endpoints.
type Handler struct {
	repo  *repository.SetRepository
	cache *repository.SetCache
}

func New(repo *repository.SetRepository, cache *repository.SetCache) *Handler {
	return &Handler{repo: repo, cache: cache}
}

// Register attaches KPI routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/latest", h.latest)
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)

	sets, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpi_sets": sets})
}

// latest serves from the cache when possible and falls back to
// Postgres, refilling the cache on the way out.
func (h *Handler) latest(c *gin.Context) {
	userID := auth.UserID(c)
	ctx := c.Request.Context()

	if h.cache != nil {
		if set, err := h.cache.GetLatest(ctx, userID); err == nil {
			c.JSON(http.StatusOK, gin.H{"ok": true, "kpi_set": set, "cached": true})
			return
		}
	}

	set, err := h.repo.LatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSetNotFound) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "kpi_set": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if h.cache != nil {
		_ = h.cache.PutLatest(ctx, set)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpi_set": set})
}
