// Package memory implements the store ports with in-process maps. It
// backs the "memory" data backend and the service tests; semantics match
// the SQLite repository, including the atomic budget uniqueness check.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

type Store struct {
	mu sync.Mutex

	nextID        int64
	transactions  map[int64]core.Transaction
	categories    map[int64]core.Category
	budgets       map[int64]core.Budget
	notifications map[string]store.Notification // keyed by userID/month/year
	txnSeq        map[int64]int64               // insertion order for date ties
	seq           int64
}

func New() *Store {
	return &Store{
		nextID:        1,
		transactions:  make(map[int64]core.Transaction),
		categories:    make(map[int64]core.Category),
		budgets:       make(map[int64]core.Budget),
		notifications: make(map[string]store.Notification),
		txnSeq:        make(map[int64]int64),
	}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[t.CategoryID]
	if !ok {
		return core.Transaction{}, core.ErrCategoryNotFound
	}
	t.ID = s.allocID()
	t.Category = cat
	s.seq++
	s.txnSeq[t.ID] = s.seq
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	t.Category = s.categories[t.CategoryID]
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, userID string, rng *core.DateRange) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if rng != nil && !rng.Contains(t.Date) {
			continue
		}
		t.Category = s.categories[t.CategoryID]
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return s.txnSeq[out[i].ID] < s.txnSeq[out[j].ID]
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[t.ID]; !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	cat, ok := s.categories[t.CategoryID]
	if !ok {
		return core.Transaction{}, core.ErrCategoryNotFound
	}
	t.Category = cat
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return core.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	delete(s.txnSeq, id)
	return nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Single critical section: check and insert cannot interleave, so
	// concurrent creates for the same key cannot both succeed.
	for _, existing := range s.budgets {
		if existing.UserID == b.UserID && existing.Month == b.Month && existing.Year == b.Year {
			return core.Budget{}, core.ErrBudgetExists
		}
	}
	b.ID = s.allocID()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) GetBudget(_ context.Context, userID string, month, year int) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.budgets {
		if b.UserID == userID && b.Month == month && b.Year == year {
			return b, nil
		}
	}
	return core.Budget{}, core.ErrBudgetNotFound
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (s *Store) ListBudgetsByPeriod(_ context.Context, month, year int) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets {
		if b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[b.ID]; !ok {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID string, month, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range s.budgets {
		if b.UserID == userID && b.Month == month && b.Year == year {
			delete(s.budgets, id)
			return nil
		}
	}
	return core.ErrBudgetNotFound
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.allocID()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, core.ErrCategoryNotFound
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[c.ID]; !ok {
		return core.Category{}, core.ErrCategoryNotFound
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return core.ErrCategoryNotFound
	}
	for _, t := range s.transactions {
		if t.CategoryID == id {
			return core.ErrCategoryInUse
		}
	}
	delete(s.categories, id)
	return nil
}

func notificationKey(userID string, month, year int) string {
	return userID + "/" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (s *Store) UpsertNotification(_ context.Context, n store.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := notificationKey(n.UserID, n.Month, n.Year)
	if existing, ok := s.notifications[key]; ok {
		n.ID = existing.ID
		n.CreatedAt = existing.CreatedAt
	} else {
		n.ID = s.allocID()
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}
	}
	s.notifications[key] = n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, userID string) ([]store.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
