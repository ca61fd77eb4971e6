package domain

import (
	"time"

	gendomain "github.com/metrically/metrically-backend/internal/generation/domain"
)

// GeneratedKPISet is one persisted generation result. Sets are
// append-only: each successful generation inserts a new row and no
// versioning relationship is modeled between sets.
type GeneratedKPISet struct {
	ID                       string                `json:"id"`
	UserID                   string                `json:"user_id"`
	StartupID                string                `json:"startup_id"`
	Metrics                  []gendomain.Metric    `json:"metrics"`
	DashboardRecommendations []gendomain.Dashboard `json:"dashboard_recommendations"`
	Summary                  string                `json:"summary"`
	CreatedAt                time.Time             `json:"created_at"`
}
