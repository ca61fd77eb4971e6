package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	genservice "github.com/metrically/metrically-backend/internal/generation/service"
)

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	DB          string    `json:"db,omitempty"`
	Cache       string    `json:"cache,omitempty"`
	AIAvailable *bool     `json:"ai_available,omitempty"`
}

type HealthHandler struct {
	serviceName  string
	version      string
	db           *pgxpool.Pool
	cache        *redis.Client
	availability *genservice.AvailabilityCache
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, cache *redis.Client, availability *genservice.AvailabilityCache) *HealthHandler {
	return &HealthHandler{
		serviceName:  serviceName,
		version:      version,
		db:           db,
		cache:        cache,
		availability: availability,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        "disabled",
		Cache:     "disabled",
	}

	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			resp.DB = "down"
		} else {
			resp.DB = "up"
		}
	}

	if h.cache != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.cache.Ping(pingCtx).Err(); err != nil {
			resp.Cache = "down"
		} else {
			resp.Cache = "up"
		}
	}

	if h.availability != nil {
		if status, checked := h.availability.Last(); !checked.IsZero() {
			available := status.Available
			resp.AIAvailable = &available
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
