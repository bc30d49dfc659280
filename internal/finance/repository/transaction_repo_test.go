package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/finance/domain"
)

func setupRepo(t *testing.T) (*TransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewTransactionRepository(db), mock, db
}

func TestTransactionRepository_Create(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tx := &domain.Transaction{
		ID: "7f1c", UserID: "u1", Type: domain.TypeExpense, Amount: 1999,
		Category: "Food", PaymentMethod: domain.MethodCard, OccurredAt: at,
	}

	t.Run("writes amount as two-decimal text", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO transactions`).
			WithArgs("7f1c", "u1", "expense", "19.99", "Food", "card", "", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps driver errors", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO transactions`).WillReturnError(errors.New("boom"))

		err := repo.Create(context.Background(), tx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ListByUser(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	cols := []string{"id", "user_id", "type", "amount", "category", "payment_method", "description", "date"}
	now := time.Now().UTC()

	t.Run("parses numeric text into cents", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow("b", "u1", "income", "2500.00", "Salary", "bank transfer", "March", now).
			AddRow("a", "u1", "expense", "4.5", "Food", "cash", "", now.Add(-time.Hour))
		mock.ExpectQuery(`SELECT id, user_id, type, amount::text`).WithArgs("u1").WillReturnRows(rows)

		txs, err := repo.ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, domain.Money(250000), txs[0].Amount)
		assert.Equal(t, domain.TypeIncome, txs[0].Type)
		assert.Equal(t, domain.Money(450), txs[1].Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id`).WithArgs("u2").WillReturnRows(sqlmock.NewRows(cols))

		txs, err := repo.ListByUser(context.Background(), "u2")
		require.NoError(t, err)
		assert.NotNil(t, txs)
		assert.Empty(t, txs)
	})

	t.Run("rejects corrupt amounts", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).AddRow("c", "u1", "expense", "1.234", "Food", "cash", "", now)
		mock.ExpectQuery(`SELECT id`).WithArgs("u1").WillReturnRows(rows)

		_, err := repo.ListByUser(context.Background(), "u1")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}
