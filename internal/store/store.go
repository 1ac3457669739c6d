// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"finance-board/internal/models"
)

// DataStore defines the interface for data persistence. The engine assumes
// only these read/write operations with eventual visibility of just-written
// rows, not a specific storage engine.
type DataStore interface {
	// Purchases
	SavePurchase(ctx context.Context, purchase *models.PurchaseRequest) error
	GetPurchase(ctx context.Context, id string) (*models.PurchaseRequest, error)
	ListPurchases(ctx context.Context, filter PurchaseFilter) ([]models.PurchaseRequest, error)
	UpdatePurchaseStatus(ctx context.Context, id string, status models.PurchaseStatus) error

	// Financial records
	SaveIncomeSource(ctx context.Context, income *models.IncomeSource) error
	GetIncomeSources(ctx context.Context, userID string, activeOnly bool) ([]models.IncomeSource, error)
	SaveExpense(ctx context.Context, expense *models.ExpenseRecord) error
	GetExpenses(ctx context.Context, userID string) ([]models.ExpenseRecord, error)
	SaveBill(ctx context.Context, bill *models.Bill) error
	GetBills(ctx context.Context, userID string) ([]models.Bill, error)
	SaveSavingsGoal(ctx context.Context, goal *models.SavingsGoal) error
	GetSavingsGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccounts(ctx context.Context, userID string) ([]models.Account, error)

	// Deliberations
	SaveDeliberation(ctx context.Context, deliberation *models.BoardDeliberation) error
	GetDeliberations(ctx context.Context, purchaseID string) ([]models.BoardDeliberation, error)
	SaveMemberResult(ctx context.Context, deliberationID string, result *models.MemberResult) error
	GetMemberResults(ctx context.Context, deliberationID string) ([]models.MemberResult, error)

	// Lifecycle
	Close() error
}

// PurchaseFilter represents filters for querying purchases.
type PurchaseFilter struct {
	UserID    string
	Status    models.PurchaseStatus
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
