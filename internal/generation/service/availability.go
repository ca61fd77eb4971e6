package service

import (
	"context"
	"sync"
	"time"

	"github.com/metrically/metrically-backend/internal/generation/domain"
)

// AvailabilityCache holds the last observed backend status so read
// paths (health, dashboards) can report availability without a live
// probe per request. The submit path still probes live; this cache is
// informational.
type AvailabilityCache struct {
	client *Client

	mu      sync.RWMutex
	status  domain.AIServiceStatus
	checked time.Time
}

func NewAvailabilityCache(client *Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// Refresh probes the backend and records the result.
func (a *AvailabilityCache) Refresh(ctx context.Context) domain.AIServiceStatus {
	status := a.client.Status(ctx)

	a.mu.Lock()
	a.status = status
	a.checked = time.Now()
	a.mu.Unlock()

	return status
}

// Last returns the most recent probe result and when it was taken. A
// zero time means no probe has run yet.
func (a *AvailabilityCache) Last() (domain.AIServiceStatus, time.Time) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status, a.checked
}
