package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/admin/domain"
	authdomain "github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/postgres/pgtest"
)

func TestAdminRepository_ChangeRole(t *testing.T) {
	pool := pgtest.Pool(t)
	repo := NewAdminRepository(pool)
	ctx := context.Background()

	for i := 0; i < domain.MaxAdmins+1; i++ {
		_, err := pool.Exec(ctx, `insert into users (id) values ($1)`, fmt.Sprintf("u%d", i))
		require.NoError(t, err)
	}

	promote := func(target string) (domain.Decision, error) {
		return repo.ChangeRole(ctx, target, func(isAdmin bool, count int) (domain.Decision, error) {
			return domain.Promote("root", target, isAdmin, count)
		})
	}

	for i := 0; i < domain.MaxAdmins; i++ {
		d, err := promote(fmt.Sprintf("u%d", i))
		require.NoError(t, err)
		assert.True(t, d.Changed)
		assert.Equal(t, i+1, d.AdminCount)
	}

	_, err := promote(fmt.Sprintf("u%d", domain.MaxAdmins))
	assert.ErrorIs(t, err, domain.ErrAdminLimitReached)

	var admins int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from users where admin`).Scan(&admins))
	assert.Equal(t, domain.MaxAdmins, admins)

	_, err = promote("ghost")
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)
}

func TestAdminRepository_CountPendingApprovals(t *testing.T) {
	pool := pgtest.Pool(t)
	repo := NewAdminRepository(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `insert into users (id) values ('u1')`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `insert into approvals (user_id, status) values ('u1', 'pending'), ('u1', 'pending'), ('u1', 'approved')`)
	require.NoError(t, err)

	n, err := repo.CountPendingApprovals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
