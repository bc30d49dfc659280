package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/postgres/pgtest"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_Postgres(t *testing.T) {
	repo := NewUserRepository(pgtest.Pool(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u, err := repo.Upsert(ctx, domain.SyncProfileRequest{ID: "u1", Email: "a@b.c", Name: strPtr("John")})
	require.NoError(t, err)
	assert.Equal(t, "John", u.Name)
	assert.False(t, u.Admin)
	require.NotNil(t, u.LastActiveAt)

	// empty email and nil fields keep stored values
	u, err = repo.Upsert(ctx, domain.SyncProfileRequest{ID: "u1", Surname: strPtr("Doe")})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
	assert.Equal(t, "John", u.Name)
	assert.Equal(t, "Doe", u.Surname)

	_, err = repo.Upsert(ctx, domain.SyncProfileRequest{ID: "u2", Email: "x@y.z"})
	require.NoError(t, err)

	require.NoError(t, repo.SetAdmin(ctx, "u2", true))
	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u2", list[0].ID)

	assert.ErrorIs(t, repo.SetAdmin(ctx, "ghost", true), domain.ErrUserNotFound)
	assert.ErrorIs(t, repo.TouchLastActive(ctx, "ghost"), domain.ErrUserNotFound)
}

// The row created for a first-time user is enough for tables that reference users.
func TestUserRepository_MinimalRowSatisfiesReferences(t *testing.T) {
	pool := pgtest.Pool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `insert into transactions (id, user_id, type, amount, category, payment_method)
values (gen_random_uuid(), 'fresh', 'expense', 1, 'Food', 'cash')`)
	require.Error(t, err)

	u, err := repo.Upsert(ctx, domain.SyncProfileRequest{ID: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "", u.Name)

	_, err = pool.Exec(ctx, `insert into transactions (id, user_id, type, amount, category, payment_method)
values (gen_random_uuid(), 'fresh', 'expense', 1, 'Food', 'cash')`)
	require.NoError(t, err)
}
