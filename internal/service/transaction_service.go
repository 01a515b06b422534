// internal/service/transaction_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/metrics"
	"finflow-tracker/internal/repository"
	"finflow-tracker/internal/stats"
	"finflow-tracker/internal/util"
)

// TransactionPage is one page of a filtered transaction listing.
type TransactionPage struct {
	Data  []domain.Transaction `json:"data"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// TotalPages is the number of pages needed to show Total rows at Limit per page.
func (p TransactionPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// TransactionService defines the interface for transaction-related business logic.
type TransactionService interface {
	Create(ctx context.Context, userID string, in domain.TransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, id, userID string) (*domain.Transaction, error)
	Update(ctx context.Context, id, userID string, patch domain.TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
	Query(ctx context.Context, userID string, filter domain.TransactionFilter) (*TransactionPage, error)
	Stats(ctx context.Context, userID string, start, end *time.Time) (*stats.TransactionStats, error)
}

// transactionService implements the TransactionService interface.
type transactionService struct {
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
	metrics         *metrics.Collector
	logger          *slog.Logger
}

// NewTransactionService creates a new instance of TransactionService.
func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	categoryRepo repository.CategoryRepository,
	collector *metrics.Collector,
	logger *slog.Logger,
) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		metrics:         collector,
		logger:          logger,
	}
}

// Create validates and stores a new transaction for userID.
func (s *transactionService) Create(ctx context.Context, userID string, in domain.TransactionInput) (*domain.Transaction, error) {
	if userID == "" {
		return nil, util.Invalid("userId is required")
	}
	tx, err := domain.NewTransaction(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.logger.Debug("Transaction created", "transaction_id", tx.ID, "user_id", userID)
	return tx, nil
}

// Get retrieves one of userID's transactions.
func (s *transactionService) Get(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// Update applies a partial update. The owner of a transaction never changes.
func (s *transactionService) Update(ctx context.Context, id, userID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update transaction %s: %w", id, err)
	}
	if err := tx.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return tx, nil
}

// Delete removes one of userID's transactions.
func (s *transactionService) Delete(ctx context.Context, id, userID string) error {
	if err := s.transactionRepo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// Query normalizes filter and returns the requested page of userID's matching transactions.
func (s *transactionService) Query(ctx context.Context, userID string, filter domain.TransactionFilter) (*TransactionPage, error) {
	if userID == "" {
		return nil, util.Invalid("userId is required")
	}
	normalized, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	res, err := s.transactionRepo.Find(ctx, userID, normalized)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	s.metrics.QueryMatched(res.Total)

	return &TransactionPage{
		Data:  res.Items,
		Total: res.Total,
		Page:  normalized.Page,
		Limit: normalized.Limit,
	}, nil
}

// Stats aggregates userID's transactions within the inclusive date range. The
// range only applies when both bounds are given; a lone bound is echoed but
// does not filter. Transactions and category names are loaded concurrently.
func (s *transactionService) Stats(ctx context.Context, userID string, start, end *time.Time) (*stats.TransactionStats, error) {
	if userID == "" {
		return nil, util.Invalid("userId is required")
	}

	var (
		txs      []domain.Transaction
		names    map[string]string
		from, to *time.Time
	)
	if start != nil && end != nil {
		from, to = start, end
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactionRepo.ListByPeriod(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		names, err = s.categoryRepo.NamesByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("transaction stats: %w", err)
	}

	out := stats.Aggregate(txs, names, start, end)
	return &out, nil
}
