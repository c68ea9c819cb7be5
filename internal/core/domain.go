package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryType = "INCOME"
	Expense CategoryType = "EXPENSE"
)

// DefaultAlertAt is the alert threshold (percent) assigned to budgets
// created without an explicit one.
const DefaultAlertAt = 80

type (
	CategoryType string

	Category struct {
		ID     int64        `json:"id"`
		UserID string       `json:"userId"`
		Name   string       `json:"name"`
		Type   CategoryType `json:"type"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      string          `json:"userId"`
		CategoryID  int64           `json:"categoryId"`
		Amount      decimal.Decimal `json:"amount"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description,omitempty"`
		// Category is resolved through the relation on reads; a
		// transaction's effective type is never stored redundantly.
		Category Category `json:"category"`
	}

	Budget struct {
		ID      int64           `json:"id"`
		UserID  string          `json:"userId"`
		Month   int             `json:"month"` // 1-12
		Year    int             `json:"year"`
		Amount  decimal.Decimal `json:"amount"`
		AlertAt int             `json:"alertAt"` // percent, 0-100
	}

	// BudgetView is a Budget enriched with the spend computed over its
	// calendar month. Never persisted.
	BudgetView struct {
		Budget
		Spent        decimal.Decimal `json:"spent"`
		Remaining    decimal.Decimal `json:"remaining"`
		Percentage   decimal.Decimal `json:"percentage"`
		IsOverBudget bool            `json:"isOverBudget"`
		ShouldAlert  bool            `json:"shouldAlert"`
		AlertMessage *string         `json:"alertMessage"`
	}

	StatsView struct {
		TotalIncome      decimal.Decimal `json:"totalIncome"`
		TotalExpense     decimal.Decimal `json:"totalExpense"`
		Balance          decimal.Decimal `json:"balance"`
		TransactionCount int             `json:"transactionCount"`
	}
)

var (
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrInvalidYear    = errors.New("year must be between 2000 and 2100")
	ErrYearRequired   = errors.New("month filter requires a year")
	ErrInvalidAmount  = errors.New("amount must be a non-negative decimal")
	ErrInvalidAlertAt = errors.New("alert threshold must be between 0 and 100")
	ErrInvalidType    = errors.New("category type must be INCOME or EXPENSE")
	ErrEmptyName      = errors.New("empty category name")
	ErrNameTooLong    = errors.New("category name too long (max 100 characters)")
	ErrDescTooLong    = errors.New("description too long (max 500 characters)")
	ErrZeroDate       = errors.New("date is required")
	ErrNoCategory     = errors.New("category is required")

	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetExists        = errors.New("budget already exists for that month")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category has transactions")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoTransactions      = errors.New("no transactions in the requested period")

	ErrForbidden = errors.New("resource belongs to another user")
)

// DefaultCategories are seeded for a user on request. Names follow the
// stock taxonomy the product ships with.
var DefaultCategories = []Category{
	{Name: "Salario", Type: Income},
	{Name: "Freelance", Type: Income},
	{Name: "Alimentación", Type: Expense},
	{Name: "Transporte", Type: Expense},
	{Name: "Entretenimiento", Type: Expense},
	{Name: "Alquiler", Type: Expense},
	{Name: "Servicios", Type: Expense},
	{Name: "Salud", Type: Expense},
}

func (t CategoryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	return c.Type.Validate()
}

func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(t.Description) > 500 {
		return ErrDescTooLong
	}
	if t.CategoryID == 0 {
		return ErrNoCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 2000 || b.Year > 2100 {
		return ErrInvalidYear
	}
	if b.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if b.AlertAt < 0 || b.AlertAt > 100 {
		return ErrInvalidAlertAt
	}
	return nil
}
