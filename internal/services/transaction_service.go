package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GeX90/gestorapp-backend/internal/amqp"
	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

// AlertPublisher pushes budget alerts onto the message queue. The AMQP
// client implements it; tests substitute a recorder.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg amqp.BudgetAlertMessage) error
}

// TransactionService handles transaction writes and reads. Every
// operation checks ownership explicitly so a cross-user access yields
// core.ErrForbidden instead of a silent not-found.
type TransactionService struct {
	txns    store.TransactionStore
	cats    store.CategoryStore
	budgets *BudgetService
	alerts  AlertPublisher
}

func NewTransactionService(txns store.TransactionStore, cats store.CategoryStore, budgets *BudgetService, alerts AlertPublisher) *TransactionService {
	return &TransactionService{txns: txns, cats: cats, budgets: budgets, alerts: alerts}
}

// TransactionInput carries the caller-supplied fields of a create.
type TransactionInput struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// TransactionUpdate carries the optional fields of an update; nil means
// keep the stored value.
type TransactionUpdate struct {
	CategoryID  *int64
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
}

// Create records a transaction after verifying the category exists and
// belongs to the user. An expense that pushes the month's budget to its
// alert threshold publishes a budget alert; publish failures never fail
// the request.
func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	cat, err := s.checkCategory(ctx, userID, in.CategoryID)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Date:        in.Date.UTC(),
		Description: in.Description,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.txns.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	if cat.Type == core.Expense {
		s.notifyBudget(ctx, userID, created.Date)
	}
	return created, nil
}

// List returns the user's transactions filtered by the optional period,
// newest first. A month without a year is rejected.
func (s *TransactionService) List(ctx context.Context, userID string, month, year *int) ([]core.Transaction, error) {
	rng, err := core.ResolvePeriodFilter(month, year)
	if err != nil {
		return nil, err
	}
	txns, err := s.txns.ListTransactions(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	// Stores list oldest first for the export; the listing endpoint
	// shows newest first.
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}
	return txns, nil
}

func (s *TransactionService) Get(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	t, err := s.txns.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.UserID != userID {
		return core.Transaction{}, core.ErrForbidden
	}
	return t, nil
}

// Update modifies an owned transaction. Re-pointing the category runs
// the same existence and ownership checks as Create.
func (s *TransactionService) Update(ctx context.Context, userID string, id int64, in TransactionUpdate) (core.Transaction, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if in.CategoryID != nil {
		if _, err := s.checkCategory(ctx, userID, *in.CategoryID); err != nil {
			return core.Transaction{}, err
		}
		t.CategoryID = *in.CategoryID
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Date != nil {
		t.Date = in.Date.UTC()
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.txns.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	if updated.Category.Type == core.Expense {
		s.notifyBudget(ctx, userID, updated.Date)
	}
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.txns.DeleteTransaction(ctx, id)
}

// checkCategory resolves the category and distinguishes a missing one
// from one owned by another user.
func (s *TransactionService) checkCategory(ctx context.Context, userID string, categoryID int64) (core.Category, error) {
	cat, err := s.cats.GetCategory(ctx, categoryID)
	if err != nil {
		return core.Category{}, err
	}
	if cat.UserID != userID {
		return core.Category{}, core.ErrForbidden
	}
	return cat, nil
}

// notifyBudget re-evaluates the budget of the transaction's month and
// publishes an alert when the threshold is reached. Best effort: a
// missing budget or a publish failure only logs.
func (s *TransactionService) notifyBudget(ctx context.Context, userID string, date time.Time) {
	if s.budgets == nil {
		return
	}
	view, err := s.budgets.Evaluate(ctx, userID, int(date.Month()), date.Year())
	if err != nil {
		if !errors.Is(err, core.ErrBudgetNotFound) {
			slog.ErrorContext(ctx, "Budget evaluation after write failed",
				"user_id", userID, "month", int(date.Month()), "year", date.Year(), "error", err)
		}
		return
	}
	if !view.ShouldAlert {
		return
	}
	if s.alerts == nil {
		slog.WarnContext(ctx, "Alert publisher not available, skipping budget alert",
			"user_id", userID, "month", view.Month, "year", view.Year)
		return
	}
	msg := amqp.NewBudgetAlertMessage(userID, view.Month, view.Year, view.Percentage.String(), derefString(view.AlertMessage))
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"user_id", userID, "month", view.Month, "year", view.Year, "error", err)
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
