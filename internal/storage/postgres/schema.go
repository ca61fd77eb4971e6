package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates required extensions and tables if they do not
// exist. Statements are idempotent so a restart against an existing
// database is a no-op.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			full_name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS startup_profiles (
			startup_id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			company_name TEXT NOT NULL,
			industry_sector TEXT NOT NULL,
			business_model TEXT NOT NULL,
			customer_segment TEXT[] NOT NULL DEFAULT '{}',
			geographic_focus TEXT NOT NULL,
			currency_type TEXT NOT NULL,
			stage TEXT NOT NULL,
			strategic_focus TEXT[] NOT NULL DEFAULT '{}',
			custom_prompt TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS startup_profiles_user_id_idx ON startup_profiles(user_id)`,
		`CREATE TABLE IF NOT EXISTS generated_kpis (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			startup_id UUID NOT NULL REFERENCES startup_profiles(startup_id) ON DELETE CASCADE,
			metrics JSONB NOT NULL DEFAULT '[]'::jsonb,
			dashboard_recommendations JSONB NOT NULL DEFAULT '[]'::jsonb,
			summary TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS generated_kpis_user_id_idx ON generated_kpis(user_id, created_at DESC)`,
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("schema ensure: %w", err)
		}
	}
	return nil
}
