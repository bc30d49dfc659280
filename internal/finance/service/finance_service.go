package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mensbreakfast/breakfast-backend/internal/finance/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
)

// Store is implemented by repository.TransactionRepository.
type Store interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	ListByUser(ctx context.Context, uid string) ([]domain.Transaction, error)
}

type FinanceService struct {
	store      Store
	publisher  realtime.Publisher
	defaultLoc *time.Location
	now        func() time.Time
}

func NewFinanceService(store Store, publisher realtime.Publisher, defaultLoc *time.Location) *FinanceService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &FinanceService{store: store, publisher: publisher, defaultLoc: defaultLoc, now: time.Now}
}

// AddTransaction records a transaction for uid stamped with the current time.
func (s *FinanceService) AddTransaction(ctx context.Context, uid string, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        uid,
		Type:          req.Type,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, tx); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, realtime.TopicTransactions, realtime.ActionInsert, tx.ID, uid, tx); err != nil {
			logging.New(ctx).Warnf("publish_transaction", "id=%s err=%v", tx.ID, err)
		}
	}
	return tx, nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, uid string) ([]domain.Transaction, error) {
	return s.store.ListByUser(ctx, uid)
}

// Summary aggregates uid's transactions by local date in tz. An empty tz uses
// the server default.
func (s *FinanceService) Summary(ctx context.Context, uid, tz string) (domain.Summary, error) {
	loc := s.defaultLoc
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return domain.Summary{}, domain.ErrInvalidTimezone
		}
		loc = l
	}

	txs, err := s.store.ListByUser(ctx, uid)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Aggregate(txs, loc), nil
}
