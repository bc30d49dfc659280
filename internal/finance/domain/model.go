package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidType     = errors.New("type must be expense or income")
	ErrInvalidMethod   = errors.New("payment method must be card, cash or bank transfer")
	ErrMissingCategory = errors.New("category is required")
	ErrInvalidTimezone = errors.New("unknown timezone")
)

type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

const (
	MethodCard         = "card"
	MethodCash         = "cash"
	MethodBankTransfer = "bank transfer"
)

// Categories are suggestions; any non-empty category is accepted.
var Categories = []string{
	"Food", "Transport", "Shopping", "Entertainment", "Bills", "Healthcare",
	"Education", "Travel", "Gifts", "Salary", "Freelance", "Investments",
}

var PaymentMethods = []string{MethodCard, MethodCash, MethodBankTransfer}

var Types = []TransactionType{TypeExpense, TypeIncome}

type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        Money           `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"date"`
}

type CreateTransactionRequest struct {
	Type          TransactionType
	Amount        Money
	Category      string
	PaymentMethod string
	Description   string
}

// Normalize trims free text and lower-cases the enumerations.
func (r *CreateTransactionRequest) Normalize() {
	r.Type = TransactionType(strings.ToLower(strings.TrimSpace(string(r.Type))))
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreateTransactionRequest) Validate() error {
	if r.Amount <= 0 || r.Amount > MaxAmount {
		return ErrInvalidAmount
	}
	if r.Category == "" {
		return ErrMissingCategory
	}
	if r.Type != TypeExpense && r.Type != TypeIncome {
		return ErrInvalidType
	}
	switch r.PaymentMethod {
	case MethodCard, MethodCash, MethodBankTransfer:
	default:
		return ErrInvalidMethod
	}
	return nil
}
