// Package services orchestrates the budget-tracking engine over the
// store ports: budget evaluation, transaction recording with ownership
// checks, period stats and the CSV export.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

// BudgetService evaluates monthly budgets against the expense spend of
// their calendar month.
type BudgetService struct {
	budgets store.BudgetStore
	txns    store.TransactionStore
}

func NewBudgetService(budgets store.BudgetStore, txns store.TransactionStore) *BudgetService {
	return &BudgetService{budgets: budgets, txns: txns}
}

// Evaluate returns the computed view for the user's budget of the given
// month. core.ErrBudgetNotFound when none exists, core.ErrInvalidMonth
// for an out-of-range month.
func (s *BudgetService) Evaluate(ctx context.Context, userID string, month, year int) (core.BudgetView, error) {
	if month < 1 || month > 12 {
		return core.BudgetView{}, core.ErrInvalidMonth
	}
	b, err := s.budgets.GetBudget(ctx, userID, month, year)
	if err != nil {
		return core.BudgetView{}, err
	}
	return s.EvaluateRecord(ctx, b)
}

// EvaluateRecord computes the view for an already-loaded budget record.
// Income is irrelevant here; only the expense partition counts.
func (s *BudgetService) EvaluateRecord(ctx context.Context, b core.Budget) (core.BudgetView, error) {
	rng, err := core.MonthRange(b.Year, b.Month)
	if err != nil {
		return core.BudgetView{}, err
	}
	txns, err := s.txns.ListTransactions(ctx, b.UserID, &rng)
	if err != nil {
		return core.BudgetView{}, fmt.Errorf("list transactions for budget: %w", err)
	}
	_, expense := core.SumByType(txns)
	return core.EvaluateBudget(b, expense), nil
}

// Current evaluates the budget of the present calendar month.
func (s *BudgetService) Current(ctx context.Context, userID string) (core.BudgetView, error) {
	now := time.Now().UTC()
	return s.Evaluate(ctx, userID, int(now.Month()), now.Year())
}

// Create stores a new budget. alertAt defaults to core.DefaultAlertAt
// when nil. The store rejects a duplicate (user, month, year) key with
// core.ErrBudgetExists.
func (s *BudgetService) Create(ctx context.Context, userID string, month, year int, amount decimal.Decimal, alertAt *int) (core.BudgetView, error) {
	b := core.Budget{
		UserID:  userID,
		Month:   month,
		Year:    year,
		Amount:  amount,
		AlertAt: core.DefaultAlertAt,
	}
	if alertAt != nil {
		b.AlertAt = *alertAt
	}
	if err := b.Validate(); err != nil {
		return core.BudgetView{}, err
	}
	created, err := s.budgets.CreateBudget(ctx, b)
	if err != nil {
		return core.BudgetView{}, err
	}
	return s.EvaluateRecord(ctx, created)
}

// Update changes the amount and/or alert threshold of an existing
// budget; nil fields are left untouched.
func (s *BudgetService) Update(ctx context.Context, userID string, month, year int, amount *decimal.Decimal, alertAt *int) (core.BudgetView, error) {
	if month < 1 || month > 12 {
		return core.BudgetView{}, core.ErrInvalidMonth
	}
	b, err := s.budgets.GetBudget(ctx, userID, month, year)
	if err != nil {
		return core.BudgetView{}, err
	}
	if amount != nil {
		b.Amount = *amount
	}
	if alertAt != nil {
		b.AlertAt = *alertAt
	}
	if err := b.Validate(); err != nil {
		return core.BudgetView{}, err
	}
	updated, err := s.budgets.UpdateBudget(ctx, b)
	if err != nil {
		return core.BudgetView{}, err
	}
	return s.EvaluateRecord(ctx, updated)
}

func (s *BudgetService) Delete(ctx context.Context, userID string, month, year int) error {
	if month < 1 || month > 12 {
		return core.ErrInvalidMonth
	}
	return s.budgets.DeleteBudget(ctx, userID, month, year)
}

// List returns every budget of the user, newest period first, each
// evaluated against its month's spend.
func (s *BudgetService) List(ctx context.Context, userID string) ([]core.BudgetView, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]core.BudgetView, 0, len(budgets))
	for _, b := range budgets {
		view, err := s.EvaluateRecord(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ListByPeriod evaluates every user's budget for a month; the alert
// worker uses it as a backup scan for missed alert messages.
func (s *BudgetService) ListByPeriod(ctx context.Context, month, year int) ([]core.BudgetView, error) {
	budgets, err := s.budgets.ListBudgetsByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}
	views := make([]core.BudgetView, 0, len(budgets))
	for _, b := range budgets {
		view, err := s.EvaluateRecord(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
