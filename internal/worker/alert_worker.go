package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GeX90/gestorapp-backend/internal/amqp"
	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/services"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

// AlertWorker records budget alert notifications. It consumes alert
// messages published by the API on expense writes and re-evaluates the
// budget against the database before recording, so a stale message never
// produces a stale notification.
type AlertWorker struct {
	budgets       *services.BudgetService
	notifications store.NotificationStore
	batchSize     int
}

func NewAlertWorker(budgets *services.BudgetService, notifications store.NotificationStore, batchSize int) *AlertWorker {
	return &AlertWorker{
		budgets:       budgets,
		notifications: notifications,
		batchSize:     batchSize,
	}
}

// HandleAlertMessage processes a single budget alert message from AMQP
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing alert message",
		"user_id", msg.UserID,
		"month", msg.Month,
		"year", msg.Year)

	view, err := w.budgets.Evaluate(ctx, msg.UserID, msg.Month, msg.Year)
	if err != nil {
		if errors.Is(err, core.ErrBudgetNotFound) {
			// Budget was deleted between publish and consume, nothing to record
			slog.WarnContext(ctx, "Budget no longer exists, dropping alert",
				"user_id", msg.UserID,
				"month", msg.Month,
				"year", msg.Year)
			return nil
		}
		return fmt.Errorf("evaluate budget: %w", err)
	}

	if !view.ShouldAlert {
		// Spending dropped below the threshold since the message was published
		slog.InfoContext(ctx, "Budget below alert threshold, dropping alert",
			"user_id", msg.UserID,
			"percentage", view.Percentage.String())
		return nil
	}

	return w.recordAlert(ctx, view)
}

// ProcessCurrentBudgets evaluates every budget for the current month and
// records notifications for those at or past their alert threshold.
// This is a backup mechanism in case AMQP messages are lost.
func (w *AlertWorker) ProcessCurrentBudgets(ctx context.Context) error {
	now := time.Now().UTC()
	return w.ProcessPeriod(ctx, int(now.Month()), now.Year())
}

// ProcessPeriod evaluates every budget for the given month and records
// notifications for those at or past their alert threshold.
func (w *AlertWorker) ProcessPeriod(ctx context.Context, month, year int) error {
	views, err := w.budgets.ListByPeriod(ctx, month, year)
	if err != nil {
		return fmt.Errorf("list budgets for period: %w", err)
	}

	if len(views) == 0 {
		return nil
	}

	alerted := 0
	errored := 0
	for _, view := range views {
		if !view.ShouldAlert {
			continue
		}
		// The cap budgets alert recording, not evaluation: a month full
		// of healthy budgets must never starve the alerting ones.
		if w.batchSize > 0 && alerted+errored >= w.batchSize {
			slog.InfoContext(ctx, "Batch size reached, deferring remaining alerts",
				"recorded", alerted+errored,
				"total", len(views))
			break
		}
		if err := w.recordAlert(ctx, view); err != nil {
			slog.ErrorContext(ctx, "Failed to record alert",
				"user_id", view.UserID,
				"month", view.Month,
				"year", view.Year,
				"error", err)
			errored++
			continue
		}
		alerted++
	}

	slog.InfoContext(ctx, "Processed period budgets",
		"month", month,
		"year", year,
		"total", len(views),
		"alerted", alerted,
		"errors", errored)

	return nil
}

// StartupCheck scans the current month once at worker startup. This is
// useful to recover from missed AMQP messages or worker downtime.
func (w *AlertWorker) StartupCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup budget scan")
	if err := w.ProcessCurrentBudgets(ctx); err != nil {
		return fmt.Errorf("startup budget scan: %w", err)
	}
	return nil
}

func (w *AlertWorker) recordAlert(ctx context.Context, view core.BudgetView) error {
	message := ""
	if view.AlertMessage != nil {
		message = *view.AlertMessage
	}

	err := w.notifications.UpsertNotification(ctx, store.Notification{
		UserID:     view.UserID,
		Month:      view.Month,
		Year:       view.Year,
		Percentage: view.Percentage.String(),
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("upsert notification: %w", err)
	}

	slog.InfoContext(ctx, "Recorded budget alert",
		"user_id", view.UserID,
		"month", view.Month,
		"year", view.Year,
		"percentage", view.Percentage.String(),
		"over_budget", view.IsOverBudget)

	return nil
}
