package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, surname, image, admin, created_at, last_active_at`

func scanUser(row pgx.Row) (*domain.UserProfile, error) {
	var u domain.UserProfile
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Surname, &u.Image, &u.Admin, &u.CreatedAt, &u.LastActiveAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by Firebase UID.
func (r *UserRepository) GetByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `select `+userColumns+` from users where id = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetProfile satisfies auth.ProfileSource.
func (r *UserRepository) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return r.GetByID(ctx, uid)
}

// Upsert creates the profile or refreshes the provided fields, and touches
// last_active_at. The admin flag is never written here.
func (r *UserRepository) Upsert(ctx context.Context, req domain.SyncProfileRequest) (*domain.UserProfile, error) {
	const q = `
insert into users (id, email, name, surname, image, last_active_at)
values ($1, $2, coalesce($3, ''), coalesce($4, ''), $5, now())
on conflict (id) do update
set
  email = case when excluded.email = '' then users.email else excluded.email end,
  name = coalesce($3, users.name),
  surname = coalesce($4, users.surname),
  image = coalesce($5, users.image),
  last_active_at = now()
returning ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, q, req.ID, req.Email, req.Name, req.Surname, req.Image))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	const q = `
update users
set name = coalesce($2, name),
    surname = coalesce($3, surname),
    image = coalesce($4, image)
where id = $1
returning ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, q, uid, req.Name, req.Surname, req.Image))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (r *UserRepository) TouchLastActive(ctx context.Context, uid string) error {
	tag, err := r.db.Exec(ctx, `update users set last_active_at = now() where id = $1`, uid)
	if err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	rows, err := r.db.Query(ctx, `select `+userColumns+` from users order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.UserProfile, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `select count(*) from users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `select count(*) from users where admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, uid string, admin bool) error {
	tag, err := r.db.Exec(ctx, `update users set admin = $2 where id = $1`, uid, admin)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
