package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/metrically/metrically-backend/internal/auth/domain"
)

// UserRepository provides persistence operations for user accounts.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, fullName string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email required")
	}

	const q = `
insert into users (email, password_hash, full_name)
values ($1, $2, nullif($3,''))
returning id::text, email, password_hash, coalesce(full_name,''), created_at, updated_at;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, email, passwordHash, fullName).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// unique violation on email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user registered under the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
select id::text, email, password_hash, coalesce(full_name,''), created_at, updated_at
from users
where email = $1;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
select id::text, email, password_hash, coalesce(full_name,''), created_at, updated_at
from users
where id = $1::uuid;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureOAuthUser creates or fetches the account for an OAuth sign-in.
// OAuth accounts carry no local password.
func (r *UserRepository) EnsureOAuthUser(ctx context.Context, email, fullName string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email required")
	}

	const q = `
insert into users (email, password_hash, full_name)
values ($1, '', nullif($2,''))
on conflict (email) do update
set full_name = coalesce(nullif(excluded.full_name,''), users.full_name),
    updated_at = now()
returning id::text, email, password_hash, coalesce(full_name,''), created_at, updated_at;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, email, fullName).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes a user account. Account deletion is a separate,
// unguarded operation; profile and KPI rows are removed by their own
// repositories before this is called.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `delete from users where id = $1::uuid;`, id)
	return err
}
