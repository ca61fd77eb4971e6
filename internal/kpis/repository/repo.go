package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	gendomain "github.com/metrically/metrically-backend/internal/generation/domain"
	"github.com/metrically/metrically-backend/internal/kpis/domain"
)

// SetRepository persists generated KPI sets. Sets are append-only:
// every successful generation inserts a new row.
type SetRepository struct {
	db *pgxpool.Pool
}

func NewSetRepository(db *pgxpool.Pool) *SetRepository {
	return &SetRepository{db: db}
}

// Insert stores one generation result for the given profile.
func (r *SetRepository) Insert(ctx context.Context, userID, startupID string, content gendomain.KPIContent) (*domain.GeneratedKPISet, error) {
	if userID == "" || startupID == "" {
		return nil, fmt.Errorf("user id and startup id required")
	}

	metricsJSON, err := json.Marshal(content.Metrics)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics: %w", err)
	}
	dashboardsJSON, err := json.Marshal(content.DashboardRecommendations)
	if err != nil {
		return nil, fmt.Errorf("marshal dashboards: %w", err)
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	const q = `
insert into generated_kpis (id, user_id, startup_id, metrics, dashboard_recommendations, summary, created_at)
values ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7);
`
	if _, err := r.db.Exec(ctx, q, id, userID, startupID, metricsJSON, dashboardsJSON, content.Summary, now); err != nil {
		return nil, err
	}

	return &domain.GeneratedKPISet{
		ID:                       id,
		UserID:                   userID,
		StartupID:                startupID,
		Metrics:                  content.Metrics,
		DashboardRecommendations: content.DashboardRecommendations,
		Summary:                  content.Summary,
		CreatedAt:                now,
	}, nil
}

// ListByUser returns the user's sets, newest first.
func (r *SetRepository) ListByUser(ctx context.Context, userID string) ([]domain.GeneratedKPISet, error) {
	const q = `
select id::text, user_id::text, startup_id::text, metrics, dashboard_recommendations, summary, created_at
from generated_kpis
where user_id = $1::uuid
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.GeneratedKPISet, 0, 8)
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *set)
	}
	return out, rows.Err()
}

// LatestByUser returns the most recent set, or ErrSetNotFound.
func (r *SetRepository) LatestByUser(ctx context.Context, userID string) (*domain.GeneratedKPISet, error) {
	const q = `
select id::text, user_id::text, startup_id::text, metrics, dashboard_recommendations, summary, created_at
from generated_kpis
where user_id = $1::uuid
order by created_at desc
limit 1;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrSetNotFound
	}
	return scanSet(rows)
}

// DeleteByUser removes all of the user's sets. Used by account deletion.
func (r *SetRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `delete from generated_kpis where user_id = $1::uuid;`, userID)
	return err
}

func scanSet(rows pgx.Rows) (*domain.GeneratedKPISet, error) {
	var (
		set            domain.GeneratedKPISet
		metricsJSON    []byte
		dashboardsJSON []byte
	)
	if err := rows.Scan(&set.ID, &set.UserID, &set.StartupID, &metricsJSON, &dashboardsJSON, &set.Summary, &set.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metricsJSON, &set.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if len(dashboardsJSON) > 0 {
		if err := json.Unmarshal(dashboardsJSON, &set.DashboardRecommendations); err != nil {
			return nil, fmt.Errorf("unmarshal dashboards: %w", err)
		}
	}
	return &set, nil
}
