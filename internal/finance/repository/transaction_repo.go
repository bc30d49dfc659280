package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mensbreakfast/breakfast-backend/internal/finance/domain"
)

// TransactionRepository stores transactions through database/sql (lib/pq).
// Amounts cross the driver as NUMERIC text so no float conversion happens.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	const q = `
INSERT INTO transactions (id, user_id, type, amount, category, payment_method, description, date)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, q,
		tx.ID, tx.UserID, string(tx.Type), tx.Amount.String(),
		tx.Category, tx.PaymentMethod, tx.Description, tx.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByUser returns uid's transactions, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, uid string) ([]domain.Transaction, error) {
	const q = `
SELECT id, user_id, type, amount::text, category, payment_method, description, date
FROM transactions
WHERE user_id = $1
ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, q, uid)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			tx     domain.Transaction
			typ    string
			amount string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &typ, &amount, &tx.Category, &tx.PaymentMethod, &tx.Description, &tx.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = domain.TransactionType(typ)
		if tx.Amount, err = domain.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("transaction %s amount %q: %w", tx.ID, amount, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
