package store

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"finance-board/internal/errors"
	"finance-board/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreUnwritablePath(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "missing", "board.db"))
	if err == nil {
		t.Fatal("expected an error for a db path in a missing directory")
	}
	if !stderrors.Is(err, errors.ErrDatabaseError) {
		t.Errorf("err = %v, want ErrDatabaseError in the chain", err)
	}
}

func TestPurchaseRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	purchase := &models.PurchaseRequest{
		ID:          "PUR-1",
		UserID:      "user-1",
		Item:        "road bike",
		Price:       1499.99,
		Category:    "fitness",
		Urgency:     models.UrgencyLow,
		Description: "commuter replacement",
		Context:     "old bike stolen",
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := s.SavePurchase(ctx, purchase); err != nil {
		t.Fatalf("SavePurchase: %v", err)
	}

	got, err := s.GetPurchase(ctx, "PUR-1")
	if err != nil {
		t.Fatalf("GetPurchase: %v", err)
	}
	if got.Item != purchase.Item || got.Price != purchase.Price ||
		got.Urgency != purchase.Urgency || got.Status != purchase.Status ||
		got.Category != purchase.Category || got.Context != purchase.Context {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, purchase)
	}
}

func TestGetPurchaseNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPurchase(context.Background(), "PUR-missing")
	if !stderrors.Is(err, errors.ErrPurchaseNotFound) {
		t.Fatalf("err = %v, want ErrPurchaseNotFound", err)
	}
}

func TestUpdatePurchaseStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	purchase := &models.PurchaseRequest{
		ID: "PUR-2", UserID: "user-1", Item: "headphones", Price: 300,
		Urgency: models.UrgencyMedium, Status: models.StatusPending, CreatedAt: time.Now(),
	}
	if err := s.SavePurchase(ctx, purchase); err != nil {
		t.Fatal(err)
	}

	for _, status := range []models.PurchaseStatus{
		models.StatusDeliberating, models.StatusApproved,
	} {
		if err := s.UpdatePurchaseStatus(ctx, "PUR-2", status); err != nil {
			t.Fatalf("UpdatePurchaseStatus(%s): %v", status, err)
		}
		got, err := s.GetPurchase(ctx, "PUR-2")
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != status {
			t.Errorf("status = %s, want %s", got.Status, status)
		}
	}

	if err := s.UpdatePurchaseStatus(ctx, "PUR-missing", models.StatusFailed); !stderrors.Is(err, errors.ErrPurchaseNotFound) {
		t.Errorf("updating unknown purchase: err = %v, want ErrPurchaseNotFound", err)
	}
}

func TestListPurchasesFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []models.PurchaseRequest{
		{ID: "PUR-a", UserID: "alice", Item: "kettle", Price: 60, Urgency: models.UrgencyLow, Status: models.StatusApproved, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "PUR-b", UserID: "alice", Item: "sofa", Price: 900, Urgency: models.UrgencyLow, Status: models.StatusPending, CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "PUR-c", UserID: "bob", Item: "drone", Price: 450, Urgency: models.UrgencyHigh, Status: models.StatusPending, CreatedAt: time.Now()},
	}
	for i := range seed {
		if err := s.SavePurchase(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	alice, err := s.ListPurchases(ctx, PurchaseFilter{UserID: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if len(alice) != 2 {
		t.Errorf("alice has %d purchases, want 2", len(alice))
	}

	pending, err := s.ListPurchases(ctx, PurchaseFilter{Status: models.StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("%d pending purchases, want 2", len(pending))
	}

	limited, err := s.ListPurchases(ctx, PurchaseFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d purchases", len(limited))
	}
}

func TestFinancialRecordsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveIncomeSource(ctx, &models.IncomeSource{
		ID: "INC-1", UserID: "user-1", Name: "salary",
		Amount: 5000, Frequency: models.Monthly, Active: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveIncomeSource(ctx, &models.IncomeSource{
		ID: "INC-2", UserID: "user-1", Name: "old gig",
		Amount: 800, Frequency: models.Monthly, Active: false,
	}); err != nil {
		t.Fatal(err)
	}

	all, err := s.GetIncomeSources(ctx, "user-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("got %d income sources, want 2", len(all))
	}
	active, err := s.GetIncomeSources(ctx, "user-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != "INC-1" {
		t.Errorf("activeOnly returned %+v, want only INC-1", active)
	}

	if err := s.SaveExpense(ctx, &models.ExpenseRecord{
		ID: "EXP-1", UserID: "user-1", Name: "rent",
		Amount: 1800, Frequency: models.Monthly, Recurring: true, Fixed: true,
	}); err != nil {
		t.Fatal(err)
	}
	expenses, err := s.GetExpenses(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 1 || !expenses[0].Recurring || !expenses[0].Fixed {
		t.Errorf("expense flags lost in round trip: %+v", expenses)
	}

	if err := s.SaveBill(ctx, &models.Bill{
		ID: "BIL-1", UserID: "user-1", Name: "electricity",
		Amount: 120, Frequency: models.Monthly, DueDay: 15,
	}); err != nil {
		t.Fatal(err)
	}
	bills, err := s.GetBills(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 1 || bills[0].DueDay != 15 {
		t.Errorf("bill round trip mismatch: %+v", bills)
	}

	if err := s.SaveSavingsGoal(ctx, &models.SavingsGoal{
		ID: "GOA-1", UserID: "user-1", Name: "vacation",
		TargetAmount: 3000, CurrentBalance: 1200,
	}); err != nil {
		t.Fatal(err)
	}
	goals, err := s.GetSavingsGoals(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 || goals[0].CurrentBalance != 1200 {
		t.Errorf("goal round trip mismatch: %+v", goals)
	}

	if err := s.SaveAccount(ctx, &models.Account{
		ID: "ACC-1", UserID: "user-1", Name: "visa",
		Type: models.AccountCredit, Balance: 2500,
	}); err != nil {
		t.Fatal(err)
	}
	accounts, err := s.GetAccounts(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0].Type != models.AccountCredit {
		t.Errorf("account round trip mismatch: %+v", accounts)
	}

	// Records belong to their user only.
	other, err := s.GetExpenses(ctx, "user-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("user-2 sees %d foreign expenses", len(other))
	}
}

func TestDeliberationRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	purchase := &models.PurchaseRequest{
		ID: "PUR-3", UserID: "user-1", Item: "camera", Price: 2000,
		Urgency: models.UrgencyLow, Status: models.StatusDeliberating, CreatedAt: time.Now(),
	}
	if err := s.SavePurchase(ctx, purchase); err != nil {
		t.Fatal(err)
	}

	started := time.Now().Add(-30 * time.Second)
	completed := time.Now()
	d := &models.BoardDeliberation{
		ID:            "DLB-1",
		PurchaseID:    "PUR-3",
		Votes:         []models.VoteOutput{{Decision: models.DecisionApprove, Reasoning: "worth it", Confidence: 70}},
		Failures:      []models.MemberFailure{{PersonaID: "zen", PersonaName: "Kai Zen", Stage: models.StageResearch, Reason: "provider down"}},
		ApproveCount:  1,
		RejectCount:   0,
		FinalDecision: models.DecisionApprove,
		IsUnanimous:   true,
		Summary:       "Unanimous: the board approved.",
		Insight:       "Comfortable purchase.",
		StartedAt:     started,
		CompletedAt:   completed,

		TotalProcessingTimeMs: completed.Sub(started).Milliseconds(),
		FinancialContext:      models.FinancialContext{MonthlyIncome: 5000, TotalSavings: 20000},
		Affordability: models.AffordabilityAnalysis{
			PercentageOfIncome: 40, Recommendation: models.NotRecommended,
		},
	}
	if err := s.SaveDeliberation(ctx, d); err != nil {
		t.Fatalf("SaveDeliberation: %v", err)
	}

	got, err := s.GetDeliberations(ctx, "PUR-3")
	if err != nil {
		t.Fatalf("GetDeliberations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d deliberations, want 1", len(got))
	}
	r := got[0]
	if r.FinalDecision != models.DecisionApprove || !r.IsUnanimous {
		t.Errorf("decision fields mismatch: %+v", r)
	}
	if len(r.Votes) != 1 || r.Votes[0].Decision != models.DecisionApprove {
		t.Errorf("votes lost in round trip: %+v", r.Votes)
	}
	if len(r.Failures) != 1 || r.Failures[0].PersonaID != "zen" || r.Failures[0].Stage != models.StageResearch {
		t.Errorf("failures lost in round trip: %+v", r.Failures)
	}
	if r.FinancialContext.MonthlyIncome != 5000 {
		t.Errorf("financial context lost: %+v", r.FinancialContext)
	}
	if r.Affordability.Recommendation != models.NotRecommended {
		t.Errorf("affordability lost: %+v", r.Affordability)
	}
}

func TestMemberResultsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results := []models.MemberResult{
		{
			PersonaID:   "prudence",
			PersonaName: "Prudence Vault",
			Research:    models.ResearchOutput{MarketContext: "saturated", PriceAnalysis: "fair"},
			Reasoning:   models.ReasoningOutput{Pros: []string{"durable"}, InitialLeaning: models.LeanApprove, Confidence: 60},
			Critique:    models.CritiqueOutput{RevisedPosition: models.DecisionApprove, FinalConfidence: 65},
			Vote:        models.VoteOutput{Decision: models.DecisionApprove, Reasoning: "fine", Confidence: 65},
		},
		{
			PersonaID:   "ledger",
			PersonaName: "Lena Ledger",
			Research:    models.ResearchOutput{MarketContext: "niche", PriceAnalysis: "high"},
			Reasoning:   models.ReasoningOutput{Cons: []string{"pricey"}, InitialLeaning: models.LeanReject, Confidence: 70},
			Critique:    models.CritiqueOutput{RevisedPosition: models.DecisionReject, FinalConfidence: 75},
			Vote:        models.VoteOutput{Decision: models.DecisionReject, Reasoning: "too much", Confidence: 75},
		},
	}
	for i := range results {
		if err := s.SaveMemberResult(ctx, "DLB-9", &results[i]); err != nil {
			t.Fatalf("SaveMemberResult: %v", err)
		}
	}

	got, err := s.GetMemberResults(ctx, "DLB-9")
	if err != nil {
		t.Fatalf("GetMemberResults: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d member results, want 2", len(got))
	}
	// Insertion order is preserved.
	if got[0].PersonaID != "prudence" || got[1].PersonaID != "ledger" {
		t.Errorf("order not preserved: %s, %s", got[0].PersonaID, got[1].PersonaID)
	}
	if got[0].Research.MarketContext != "saturated" {
		t.Errorf("research lost: %+v", got[0].Research)
	}
	if got[1].Vote.Decision != models.DecisionReject {
		t.Errorf("vote lost: %+v", got[1].Vote)
	}
}
