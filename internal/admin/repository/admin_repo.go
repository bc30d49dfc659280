package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mensbreakfast/breakfast-backend/internal/admin/domain"
	authdomain "github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
)

// roleLockKey serialises admin role changes across API instances.
const roleLockKey = 0x6d62_6164 // "mbad"

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// DecideFunc maps the target's current flag and the admin count to a decision.
type DecideFunc func(currentIsAdmin bool, adminCount int) (domain.Decision, error)

// ChangeRole reads the target's role and the admin count under a transaction
// scoped advisory lock, applies decide and writes the result when it changed.
func (r *AdminRepository) ChangeRole(ctx context.Context, target string, decide DecideFunc) (domain.Decision, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock($1)`, int64(roleLockKey)); err != nil {
		return domain.Decision{}, fmt.Errorf("role lock: %w", err)
	}

	var isAdmin bool
	err = tx.QueryRow(ctx, `select admin from users where id = $1`, target).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Decision{}, authdomain.ErrUserNotFound
	}
	if err != nil {
		return domain.Decision{}, fmt.Errorf("read role: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `select count(*) from users where admin`).Scan(&count); err != nil {
		return domain.Decision{}, fmt.Errorf("count admins: %w", err)
	}

	d, err := decide(isAdmin, count)
	if err != nil {
		return d, err
	}
	if !d.Changed {
		return d, nil
	}

	if _, err := tx.Exec(ctx, `update users set admin = $2 where id = $1`, target, d.Admin); err != nil {
		return domain.Decision{}, fmt.Errorf("write role: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Decision{}, fmt.Errorf("commit: %w", err)
	}
	return d, nil
}

func (r *AdminRepository) CountPendingApprovals(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `select count(*) from approvals where status = 'pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count approvals: %w", err)
	}
	return n, nil
}
