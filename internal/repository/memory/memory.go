// Package memory provides in-process repositories, used by DATA_BACKEND=memory and in tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/query"
	"finflow-tracker/internal/repository"
	"finflow-tracker/internal/util"
)

// TransactionStore keeps transactions in insertion order.
type TransactionStore struct {
	mu    sync.RWMutex
	items []domain.Transaction
}

// NewTransactionStore creates an empty TransactionStore.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

var _ repository.TransactionRepository = (*TransactionStore)(nil)

func (s *TransactionStore) Create(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, cloneTransaction(*tx))
	return nil
}

func (s *TransactionStore) GetByID(_ context.Context, id, userID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id, userID)
	if i < 0 {
		return nil, util.ErrTransactionNotFound
	}
	tx := cloneTransaction(s.items[i])
	return &tx, nil
}

func (s *TransactionStore) Update(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(tx.ID, tx.UserID)
	if i < 0 {
		return util.ErrTransactionNotFound
	}
	s.items[i] = cloneTransaction(*tx)
	return nil
}

func (s *TransactionStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id, userID)
	if i < 0 {
		return util.ErrTransactionNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *TransactionStore) Find(_ context.Context, userID string, filter domain.TransactionFilter) (query.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := query.Apply(s.items, userID, filter)
	for i := range res.Items {
		res.Items[i] = cloneTransaction(res.Items[i])
	}
	return res, nil
}

func (s *TransactionStore) ListByPeriod(_ context.Context, userID string, start, end *time.Time) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := domain.TransactionFilter{StartDate: start, EndDate: end}
	out := []domain.Transaction{}
	for _, tx := range s.items {
		if tx.UserID == userID && query.Matches(tx, f) {
			out = append(out, cloneTransaction(tx))
		}
	}
	return out, nil
}

func (s *TransactionStore) index(id, userID string) int {
	return slices.IndexFunc(s.items, func(tx domain.Transaction) bool {
		return tx.ID == id && tx.UserID == userID
	})
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	tx.Tags = append(domain.Tags{}, tx.Tags...)
	return tx
}

// GoalStore keeps goals keyed by id. One mutex serializes every write, which
// makes UpdateWithLock atomic.
type GoalStore struct {
	mu    sync.Mutex
	goals map[string]domain.Goal
}

// NewGoalStore creates an empty GoalStore.
func NewGoalStore() *GoalStore {
	return &GoalStore{goals: make(map[string]domain.Goal)}
}

var _ repository.GoalRepository = (*GoalStore)(nil)

func (s *GoalStore) Create(_ context.Context, goal *domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[goal.ID] = cloneGoal(*goal)
	return nil
}

func (s *GoalStore) GetByID(_ context.Context, id, userID string) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id, userID)
}

func (s *GoalStore) List(_ context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Goal{}
	for _, g := range s.goals {
		if g.UserID != userID || (status != "" && g.Status != status) {
			continue
		}
		out = append(out, cloneGoal(g))
	}
	slices.SortFunc(out, func(a, b domain.Goal) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *GoalStore) Update(_ context.Context, goal *domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(goal.ID, goal.UserID); err != nil {
		return err
	}
	s.goals[goal.ID] = cloneGoal(*goal)
	return nil
}

func (s *GoalStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(id, userID); err != nil {
		return err
	}
	delete(s.goals, id)
	return nil
}

func (s *GoalStore) UpdateWithLock(_ context.Context, id, userID string, fn repository.GoalMutator) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, err := s.get(id, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(goal); err != nil {
		return nil, err
	}
	s.goals[id] = cloneGoal(*goal)
	return goal, nil
}

func (s *GoalStore) get(id, userID string) (*domain.Goal, error) {
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, util.ErrGoalNotFound
	}
	g = cloneGoal(g)
	return &g, nil
}

func cloneGoal(g domain.Goal) domain.Goal {
	g.Rules = slices.Clone(g.Rules)
	return g
}

// CategoryStore holds category names.
type CategoryStore struct {
	mu         sync.RWMutex
	categories []domain.Category
}

// NewCategoryStore creates a CategoryStore seeded with cats.
func NewCategoryStore(cats ...domain.Category) *CategoryStore {
	return &CategoryStore{categories: cats}
}

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// Add registers a category.
func (s *CategoryStore) Add(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

func (s *CategoryStore) NamesByUser(_ context.Context, userID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[string]string)
	for _, c := range s.categories {
		if c.UserID == nil || *c.UserID == userID {
			names[c.ID] = c.Name
		}
	}
	return names, nil
}
