package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/metrically/metrically-backend/internal/profiles/domain"
)

// ProfileRepository provides persistence operations for startup
// profiles. "No row yet" is reported as domain.ErrProfileNotFound so
// callers can branch create-vs-update without treating it as a failure.
//
// Timestamps are stamped at the call site with the current time rather
// than server-generated, matching the store's contract.
type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUser returns the user's profile, or ErrProfileNotFound.
func (r *ProfileRepository) FindByUser(ctx context.Context, userID string) (*domain.StartupProfile, error) {
	const q = `
select startup_id::text, user_id::text, company_name, industry_sector, business_model,
       customer_segment, geographic_focus, currency_type, stage, strategic_focus,
       custom_prompt, created_at, updated_at
from startup_profiles
where user_id = $1::uuid;
`
	var p domain.StartupProfile
	err := r.db.QueryRow(ctx, q, userID).Scan(
		&p.StartupID, &p.UserID, &p.CompanyName, &p.IndustrySector, &p.BusinessModel,
		&p.CustomerSegment, &p.GeographicFocus, &p.CurrencyType, &p.Stage, &p.StrategicFocus,
		&p.CustomPrompt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a profile for the user and returns it with its new
// startup_id. The at-most-one-profile-per-user invariant is checked by
// the caller's query-then-insert; a race between two near-simultaneous
// creates can produce duplicate rows (known, documented gap).
func (r *ProfileRepository) Create(ctx context.Context, userID string, attrs domain.ProfileAttrs) (*domain.StartupProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	now := time.Now().UTC()
	startupID := uuid.New().String()

	const q = `
insert into startup_profiles
  (startup_id, user_id, company_name, industry_sector, business_model, customer_segment,
   geographic_focus, currency_type, stage, strategic_focus, custom_prompt, created_at, updated_at)
values ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
returning startup_id::text, user_id::text, company_name, industry_sector, business_model,
          customer_segment, geographic_focus, currency_type, stage, strategic_focus,
          custom_prompt, created_at, updated_at;
`
	var p domain.StartupProfile
	err := r.db.QueryRow(ctx, q,
		startupID, userID, attrs.CompanyName, attrs.IndustrySector, attrs.BusinessModel,
		attrs.CustomerSegment, attrs.GeographicFocus, attrs.CurrencyType, attrs.Stage,
		attrs.StrategicFocus, attrs.CustomPrompt, now,
	).Scan(
		&p.StartupID, &p.UserID, &p.CompanyName, &p.IndustrySector, &p.BusinessModel,
		&p.CustomerSegment, &p.GeographicFocus, &p.CurrencyType, &p.Stage, &p.StrategicFocus,
		&p.CustomPrompt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update overwrites the profile's attributes and stamps updated_at.
// The row must belong to userID; a foreign or unknown profile id is
// ErrProfileNotFound.
func (r *ProfileRepository) Update(ctx context.Context, userID, profileID string, attrs domain.ProfileAttrs) error {
	now := time.Now().UTC()

	const q = `
update startup_profiles
set company_name = $3, industry_sector = $4, business_model = $5, customer_segment = $6,
    geographic_focus = $7, currency_type = $8, stage = $9, strategic_focus = $10,
    custom_prompt = $11, updated_at = $12
where startup_id = $1::uuid and user_id = $2::uuid;
`
	tag, err := r.db.Exec(ctx, q,
		profileID, userID, attrs.CompanyName, attrs.IndustrySector, attrs.BusinessModel,
		attrs.CustomerSegment, attrs.GeographicFocus, attrs.CurrencyType, attrs.Stage,
		attrs.StrategicFocus, attrs.CustomPrompt, now,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// DeleteByUser removes the user's profile rows. Used by the account
// deletion path.
func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `delete from startup_profiles where user_id = $1::uuid;`, userID)
	return err
}
