// Package storage is the SQLite implementation of the store ports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Interface conformance
var (
	_ store.TransactionStore  = (*SQLiteRepository)(nil)
	_ store.BudgetStore       = (*SQLiteRepository)(nil)
	_ store.CategoryStore     = (*SQLiteRepository)(nil)
	_ store.NotificationStore = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, date_unix_ms, description)
		 VALUES (?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, t.Amount.String(), t.Date.UTC().UnixMilli(), t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", t.UserID,
		"category_id", t.CategoryID,
		"amount", t.Amount.String())

	return r.GetTransaction(ctx, id)
}

const transactionColumns = `t.id, t.user_id, t.category_id, t.amount, t.date_unix_ms, t.description,
	c.id, c.user_id, c.name, c.type`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t        core.Transaction
		amount   string
		dateMs   int64
		category core.Category
	)
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &amount, &dateMs, &t.Description,
		&category.ID, &category.UserID, &category.Name, &category.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	t.Date = time.UnixMilli(dateMs).UTC()
	t.Category = category
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, rng *core.DateRange) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ?`
	args := []any{userID}
	if rng != nil {
		query += ` AND t.date_unix_ms BETWEEN ? AND ?`
		args = append(args, rng.Start.UTC().UnixMilli(), rng.End.UTC().UnixMilli())
	}
	// Ascending by date, insertion order breaks ties; the export
	// depends on this being stable.
	query += ` ORDER BY t.date_unix_ms ASC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, amount = ?, date_unix_ms = ?, description = ?
		 WHERE id = ?`,
		t.CategoryID, t.Amount.String(), t.Date.UTC().UnixMilli(), t.Description, t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return r.GetTransaction(ctx, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	// The UNIQUE (user_id, month, year) key makes the duplicate check
	// atomic; concurrent creates cannot both pass.
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, month, year, amount, alert_at)
		 VALUES (?, ?, ?, ?, ?)`,
		b.UserID, b.Month, b.Year, b.Amount.String(), b.AlertAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Budget{}, core.ErrBudgetExists
		}
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	b.ID = id

	slog.InfoContext(ctx, "Budget saved",
		"id", id,
		"user_id", b.UserID,
		"month", b.Month,
		"year", b.Year,
		"amount", b.Amount.String())

	return b, nil
}

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b      core.Budget
		amount string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Month, &b.Year, &amount, &b.AlertAt)
	if err != nil {
		return core.Budget{}, err
	}
	b.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID string, month, year int) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, month, year, amount, alert_at FROM budgets
		 WHERE user_id = ? AND month = ? AND year = ?`, userID, month, year)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) listBudgets(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return r.listBudgets(ctx,
		`SELECT id, user_id, month, year, amount, alert_at FROM budgets
		 WHERE user_id = ? ORDER BY year DESC, month DESC`, userID)
}

func (r *SQLiteRepository) ListBudgetsByPeriod(ctx context.Context, month, year int) ([]core.Budget, error) {
	return r.listBudgets(ctx,
		`SELECT id, user_id, month, year, amount, alert_at FROM budgets
		 WHERE month = ? AND year = ? ORDER BY id ASC`, month, year)
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET amount = ?, alert_at = ? WHERE id = ?`,
		b.Amount.String(), b.AlertAt, b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if affected == 0 {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID string, month, year int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = ? AND month = ? AND year = ?`,
		userID, month, year)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if affected == 0 {
		return core.ErrBudgetNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
		c.UserID, c.Name, string(c.Type))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ? WHERE id = ?`,
		c.Name, string(c.Type), c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if affected == 0 {
		return core.Category{}, core.ErrCategoryNotFound
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	// A category with transactions cannot go away: every transaction
	// resolves its type through the relation.
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE category_id = ?`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count category references: %w", err)
	}
	if refs > 0 {
		return core.ErrCategoryInUse
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}

func (r *SQLiteRepository) UpsertNotification(ctx context.Context, n store.Notification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, month, year, percentage, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, month, year)
		 DO UPDATE SET percentage = excluded.percentage, message = excluded.message`,
		n.UserID, n.Month, n.Year, n.Percentage, n.Message, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert notification: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, userID string) ([]store.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, month, year, percentage, message, created_at
		 FROM notifications WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []store.Notification
	for rows.Next() {
		var (
			n         store.Notification
			createdMs int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Month, &n.Year, &n.Percentage, &n.Message, &createdMs); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// isUniqueViolation detects the sqlite unique-constraint error without
// depending on the driver's private error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
