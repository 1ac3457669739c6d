// Package finance derives monthly financial snapshots and affordability
// analyses from a user's raw records.
package finance

import (
	"context"

	"finance-board/internal/logging"
	"finance-board/internal/models"
	"finance-board/internal/store"
)

// Builder aggregates a user's records into a FinancialContext.
type Builder struct {
	store store.DataStore
}

// NewBuilder creates a new financial context builder.
func NewBuilder(dataStore store.DataStore) *Builder {
	return &Builder{store: dataStore}
}

// Build computes the monthly snapshot for a user. A user with no records
// yields an all-zero context rather than an error; deliberation still runs
// and the affordability analysis lands in the unaffordable tiers naturally.
func (b *Builder) Build(ctx context.Context, userID string) (*models.FinancialContext, error) {
	incomes, err := b.store.GetIncomeSources(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	expenses, err := b.store.GetExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	bills, err := b.store.GetBills(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := b.store.GetSavingsGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	accounts, err := b.store.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("user_id", userID).
		Int("income_sources", len(incomes)).
		Int("expenses", len(expenses)).
		Int("bills", len(bills)).
		Int("goals", len(goals)).
		Int("accounts", len(accounts)).
		Msg("Financial records loaded")

	fc := &models.FinancialContext{SavingsGoals: goals}

	for _, inc := range incomes {
		monthly := inc.Amount * inc.Frequency.MonthlyMultiplier()
		fc.MonthlyIncome += monthly
		fc.IncomeBreakdown = append(fc.IncomeBreakdown, models.AmountBreakdown{
			Name:    inc.Name,
			Monthly: monthly,
		})
	}

	for _, exp := range expenses {
		// Variable and discretionary allocations are budget plans, not
		// obligations; only recurring fixed expenses count.
		if !exp.Recurring || !exp.Fixed {
			continue
		}
		monthly := exp.Amount * exp.Frequency.MonthlyMultiplier()
		fc.MonthlyExpenses += monthly
		fc.ExpenseBreakdown = append(fc.ExpenseBreakdown, models.AmountBreakdown{
			Name:    exp.Name,
			Monthly: monthly,
		})
	}

	for _, bill := range bills {
		fc.MonthlyBills += bill.Amount * bill.Frequency.MonthlyMultiplier()
	}

	for _, goal := range goals {
		fc.TotalSavings += goal.CurrentBalance
	}
	for _, acct := range accounts {
		switch acct.Type {
		case models.AccountSavings, models.AccountChecking:
			fc.TotalSavings += acct.Balance
		case models.AccountCredit, models.AccountLoan:
			fc.TotalDebt += acct.Balance
		}
	}

	// Unclamped: a negative value signals the user is over budget and must
	// reach every advisor prompt as-is.
	fc.DiscretionaryBudget = fc.MonthlyIncome - fc.MonthlyExpenses - fc.MonthlyBills

	return fc, nil
}
