// Package pgtest opens a migrated Postgres database for integration tests.
// Tests are skipped unless TEST_DB_DSN (or TEST_DB_HOST/PORT/USER/NAME) is set.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/storage/migrations"
)

// DSN returns the test database DSN or skips the test.
func DSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		return dsn
	}

	host := os.Getenv("TEST_DB_HOST")
	port := os.Getenv("TEST_DB_PORT")
	user := os.Getenv("TEST_DB_USER")
	name := os.Getenv("TEST_DB_NAME")
	if host == "" || port == "" || user == "" || name == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, os.Getenv("TEST_DB_PASSWORD"), name)
}

// SQL opens a database/sql handle with the schema applied and every table emptied.
func SQL(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", DSN(t))
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, migrations.Up(db))
	truncate(t, db)
	t.Cleanup(func() { db.Close() })
	return db
}

// Pool opens a pgx pool over the same migrated, emptied database.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	SQL(t)

	pool, err := pgxpool.New(context.Background(), DSN(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func truncate(t *testing.T, db *sql.DB) {
	_, err := db.Exec(`truncate rsvps, events, transactions, monday_motivations, thoughts_of_day,
recommended_media, investment_blogs, approvals, users cascade`)
	require.NoError(t, err)
}
