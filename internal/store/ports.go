// Package store declares the persistence ports the services depend on.
// Implementations: internal/storage (SQLite) and internal/store/memory.
package store

import (
	"context"
	"time"

	"github.com/GeX90/gestorapp-backend/internal/core"
)

type (
	// TransactionStore owns transaction rows. List and Get return
	// transactions with their category resolved through the relation.
	TransactionStore interface {
		// CreateTransaction persists t and returns it with its id and
		// category populated.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)

		// GetTransaction returns the row regardless of owner; ownership
		// is checked by the caller so Forbidden and NotFound stay
		// distinguishable.
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)

		// ListTransactions returns the user's transactions intersecting
		// rng (nil = all-time), ordered ascending by date with ties
		// broken by insertion order.
		ListTransactions(ctx context.Context, userID string, rng *core.DateRange) ([]core.Transaction, error)

		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	// BudgetStore owns budget rows, unique per (userID, month, year).
	// CreateBudget must reject a duplicate key atomically.
	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, userID string, month, year int) (core.Budget, error)

		// ListBudgets returns the user's budgets ordered year desc,
		// month desc.
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)

		// ListBudgetsByPeriod returns every user's budget for a month;
		// the alert worker scans these.
		ListBudgetsByPeriod(ctx context.Context, month, year int) ([]core.Budget, error)

		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, userID string, month, year int) error
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)

		// DeleteCategory removes an unreferenced category. A category
		// still referenced by transactions yields ErrCategoryInUse;
		// transactions never lose their relation.
		DeleteCategory(ctx context.Context, id int64) error
	}

	// NotificationStore records delivered budget alerts. One row per
	// (userID, month, year); repeated alerts update in place.
	NotificationStore interface {
		UpsertNotification(ctx context.Context, n Notification) error
		ListNotifications(ctx context.Context, userID string) ([]Notification, error)
	}
)

// Notification is a recorded budget alert.
type Notification struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Percentage string    `json:"percentage"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
