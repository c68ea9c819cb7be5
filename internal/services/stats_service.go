package services

import (
	"context"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

// StatsService produces raw period totals: no rounding, no alerting.
type StatsService struct {
	txns store.TransactionStore
}

func NewStatsService(txns store.TransactionStore) *StatsService {
	return &StatsService{txns: txns}
}

// Stats sums the user's transactions by type over the optional period.
// The period filter follows the same rules as the listing endpoint:
// both month and year for a month, year alone for a whole year, neither
// for all-time, and a month without a year is rejected.
func (s *StatsService) Stats(ctx context.Context, userID string, month, year *int) (core.StatsView, error) {
	rng, err := core.ResolvePeriodFilter(month, year)
	if err != nil {
		return core.StatsView{}, err
	}
	txns, err := s.txns.ListTransactions(ctx, userID, rng)
	if err != nil {
		return core.StatsView{}, err
	}

	income, expense := core.SumByType(txns)
	return core.StatsView{
		TotalIncome:      income,
		TotalExpense:     expense,
		Balance:          income.Sub(expense),
		TransactionCount: len(txns),
	}, nil
}
