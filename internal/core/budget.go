package core

import "github.com/shopspring/decimal"

// EvaluateBudget derives the computed view for a budget given the
// expense sum over its calendar month. Pure; the stored record is never
// mutated.
//
// Rules:
//   - percentage is spent/amount*100 rounded half-up to 2 decimals,
//     zero when amount is zero
//   - isOverBudget is strict: spending exactly the amount is not over
//   - shouldAlert triggers at the threshold itself (inclusive)
//   - the alert message carries the whole-number percentage and is only
//     present while shouldAlert holds
func EvaluateBudget(b Budget, spent decimal.Decimal) BudgetView {
	percentage := Percentage(spent, b.Amount)

	view := BudgetView{
		Budget:       b,
		Spent:        spent,
		Remaining:    b.Amount.Sub(spent),
		Percentage:   percentage,
		IsOverBudget: spent.GreaterThan(b.Amount),
		ShouldAlert:  percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertAt))),
	}
	if view.ShouldAlert {
		msg := AlertMessage(spent, b.Amount)
		view.AlertMessage = &msg
	}
	return view
}

// SumByType partitions transaction amounts by the category type resolved
// through each transaction's relation. Raw sums, no rounding.
func SumByType(txns []Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Category.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
