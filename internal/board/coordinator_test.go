package board

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"finance-board/internal/config"
	"finance-board/internal/errors"
	"finance-board/internal/models"
	"finance-board/internal/personas"
	"finance-board/internal/store"
)

// memStore is an in-memory DataStore for coordinator tests. It records the
// status transitions each purchase goes through.
type memStore struct {
	mu            sync.Mutex
	purchases     map[string]*models.PurchaseRequest
	statusHistory map[string][]models.PurchaseStatus
	incomes       map[string][]models.IncomeSource
	expenses      map[string][]models.ExpenseRecord
	bills         map[string][]models.Bill
	goals         map[string][]models.SavingsGoal
	accounts      map[string][]models.Account
	deliberations []models.BoardDeliberation
	memberResults map[string][]models.MemberResult
}

func newMemStore() *memStore {
	return &memStore{
		purchases:     make(map[string]*models.PurchaseRequest),
		statusHistory: make(map[string][]models.PurchaseStatus),
		incomes:       make(map[string][]models.IncomeSource),
		expenses:      make(map[string][]models.ExpenseRecord),
		bills:         make(map[string][]models.Bill),
		goals:         make(map[string][]models.SavingsGoal),
		accounts:      make(map[string][]models.Account),
		memberResults: make(map[string][]models.MemberResult),
	}
}

func (s *memStore) SavePurchase(ctx context.Context, p *models.PurchaseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.purchases[p.ID] = &cp
	return nil
}

func (s *memStore) GetPurchase(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return nil, errors.ErrPurchaseNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ListPurchases(ctx context.Context, filter store.PurchaseFilter) ([]models.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PurchaseRequest
	for _, p := range s.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (s *memStore) UpdatePurchaseStatus(ctx context.Context, id string, status models.PurchaseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return errors.ErrPurchaseNotFound
	}
	p.Status = status
	s.statusHistory[id] = append(s.statusHistory[id], status)
	return nil
}

func (s *memStore) SaveIncomeSource(ctx context.Context, in *models.IncomeSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes[in.UserID] = append(s.incomes[in.UserID], *in)
	return nil
}

func (s *memStore) GetIncomeSources(ctx context.Context, userID string, activeOnly bool) ([]models.IncomeSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.IncomeSource
	for _, in := range s.incomes[userID] {
		if activeOnly && !in.Active {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (s *memStore) SaveExpense(ctx context.Context, e *models.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.UserID] = append(s.expenses[e.UserID], *e)
	return nil
}

func (s *memStore) GetExpenses(ctx context.Context, userID string) ([]models.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses[userID], nil
}

func (s *memStore) SaveBill(ctx context.Context, b *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[b.UserID] = append(s.bills[b.UserID], *b)
	return nil
}

func (s *memStore) GetBills(ctx context.Context, userID string) ([]models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills[userID], nil
}

func (s *memStore) SaveSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.UserID] = append(s.goals[g.UserID], *g)
	return nil
}

func (s *memStore) GetSavingsGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals[userID], nil
}

func (s *memStore) SaveAccount(ctx context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.UserID] = append(s.accounts[a.UserID], *a)
	return nil
}

func (s *memStore) GetAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[userID], nil
}

func (s *memStore) SaveDeliberation(ctx context.Context, d *models.BoardDeliberation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliberations = append(s.deliberations, *d)
	return nil
}

func (s *memStore) GetDeliberations(ctx context.Context, purchaseID string) ([]models.BoardDeliberation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BoardDeliberation
	for _, d := range s.deliberations {
		if d.PurchaseID == purchaseID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) SaveMemberResult(ctx context.Context, deliberationID string, r *models.MemberResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberResults[deliberationID] = append(s.memberResults[deliberationID], *r)
	return nil
}

func (s *memStore) GetMemberResults(ctx context.Context, deliberationID string) ([]models.MemberResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberResults[deliberationID], nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) history(purchaseID string) []models.PurchaseStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PurchaseStatus(nil), s.statusHistory[purchaseID]...)
}

func (s *memStore) deliberationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliberations)
}

// boardClient routes behavior per persona, identified by name in the system
// prompt. Personas listed in failing always error; the rest complete every
// stage, casting the configured vote.
type boardClient struct {
	failing map[string]bool
	votes   map[string]string
}

func (c *boardClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "insight", nil
}

func (c *boardClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	for name := range c.failing {
		if strings.Contains(systemPrompt, name) {
			return "", fmt.Errorf("provider unavailable")
		}
	}
	switch stageOfPrompt(userPrompt) {
	case models.StageVote:
		for name, vote := range c.votes {
			if strings.Contains(systemPrompt, name) {
				return vote, nil
			}
		}
		return goodVote, nil
	case models.StageCritique:
		return goodCritique, nil
	case models.StageReasoning:
		return goodReasoning, nil
	default:
		return goodResearch, nil
	}
}

func coordinatorConfig() config.BoardConfig {
	return config.BoardConfig{
		Model:           "test-model",
		BatchSize:       2,
		StageTimeout:    2 * time.Second,
		OverallDeadline: 10 * time.Second,
		MaxStageRetries: 1,
		RetryDelay:      time.Millisecond,
	}
}

func seedPurchase(t *testing.T, s *memStore) *models.PurchaseRequest {
	t.Helper()
	purchase := &models.PurchaseRequest{
		ID:        "PUR-100",
		UserID:    "user-1",
		Item:      "standing desk",
		Price:     800,
		Urgency:   models.UrgencyMedium,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.SavePurchase(context.Background(), purchase); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveIncomeSource(context.Background(), &models.IncomeSource{
		ID: "INC-1", UserID: "user-1", Name: "salary",
		Amount: 6000, Frequency: models.Monthly, Active: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAccount(context.Background(), &models.Account{
		ID: "ACC-1", UserID: "user-1", Name: "emergency fund",
		Type: models.AccountSavings, Balance: 12000,
	}); err != nil {
		t.Fatal(err)
	}
	return purchase
}

func TestDeliberateMajorityWithPartialFailures(t *testing.T) {
	s := newMemStore()
	seedPurchase(t, s)

	// Two members never get a provider response; the remaining three vote
	// approve, approve, reject.
	client := &boardClient{
		failing: map[string]bool{"Kai Zen": true, "Harper Hype": true},
		votes:   map[string]string{"Lena Ledger": rejectVote},
	}

	c := NewCoordinator(s, client, personas.Default(), coordinatorConfig(), zerolog.Nop(), nil)
	deliberation, err := c.Deliberate(context.Background(), "PUR-100")
	if err != nil {
		t.Fatalf("Deliberate: %v", err)
	}

	if deliberation.FinalDecision != models.DecisionApprove {
		t.Errorf("final decision = %s, want approve", deliberation.FinalDecision)
	}
	if deliberation.ApproveCount != 2 || deliberation.RejectCount != 1 {
		t.Errorf("tally = %d-%d, want 2-1", deliberation.ApproveCount, deliberation.RejectCount)
	}
	if deliberation.IsUnanimous {
		t.Error("deliberation with a dissenting vote marked unanimous")
	}
	if len(deliberation.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(deliberation.Failures))
	}
	for _, f := range deliberation.Failures {
		if f.PersonaID != "zen" && f.PersonaID != "hype" {
			t.Errorf("unexpected failed persona %s", f.PersonaID)
		}
		if f.Stage != models.StageResearch {
			t.Errorf("failure stage = %s, want research", f.Stage)
		}
	}

	wantHistory := []models.PurchaseStatus{models.StatusDeliberating, models.StatusApproved}
	history := s.history("PUR-100")
	if len(history) != len(wantHistory) {
		t.Fatalf("status history = %v, want %v", history, wantHistory)
	}
	for i := range wantHistory {
		if history[i] != wantHistory[i] {
			t.Errorf("status history = %v, want %v", history, wantHistory)
		}
	}

	saved, err := s.GetDeliberations(context.Background(), "PUR-100")
	if err != nil || len(saved) != 1 {
		t.Fatalf("saved deliberations = %d (%v), want 1", len(saved), err)
	}
	results, err := s.GetMemberResults(context.Background(), deliberation.ID)
	if err != nil || len(results) != 3 {
		t.Fatalf("saved member results = %d (%v), want 3", len(results), err)
	}
}

func TestDeliberateNoQuorum(t *testing.T) {
	s := newMemStore()
	seedPurchase(t, s)

	client := &boardClient{failing: map[string]bool{
		"Prudence Vault": true, "Max Maverick": true, "Lena Ledger": true,
		"Kai Zen": true, "Harper Hype": true,
	}}

	c := NewCoordinator(s, client, personas.Default(), coordinatorConfig(), zerolog.Nop(), nil)
	_, err := c.Deliberate(context.Background(), "PUR-100")
	if !stderrors.Is(err, errors.ErrNoQuorum) {
		t.Fatalf("err = %v, want ErrNoQuorum", err)
	}

	if got := s.deliberationCount(); got != 0 {
		t.Errorf("%d deliberations persisted after total failure, want 0", got)
	}

	history := s.history("PUR-100")
	if len(history) == 0 || history[len(history)-1] != models.StatusFailed {
		t.Errorf("status history = %v, want terminal failed", history)
	}
}

func TestDeliberateUnanimousRejection(t *testing.T) {
	s := newMemStore()
	seedPurchase(t, s)

	votes := make(map[string]string)
	for _, p := range personas.Default() {
		votes[p.Name] = rejectVote
	}
	client := &boardClient{votes: votes}

	c := NewCoordinator(s, client, personas.Default(), coordinatorConfig(), zerolog.Nop(), nil)
	deliberation, err := c.Deliberate(context.Background(), "PUR-100")
	if err != nil {
		t.Fatalf("Deliberate: %v", err)
	}

	if deliberation.FinalDecision != models.DecisionReject {
		t.Errorf("final decision = %s, want reject", deliberation.FinalDecision)
	}
	if !deliberation.IsUnanimous {
		t.Error("unanimous rejection not flagged")
	}
	if !strings.HasPrefix(deliberation.Summary, "Unanimous:") {
		t.Errorf("summary missing unanimity prefix: %q", deliberation.Summary)
	}

	history := s.history("PUR-100")
	if history[len(history)-1] != models.StatusRejected {
		t.Errorf("terminal status = %s, want rejected", history[len(history)-1])
	}
}

func TestDeliberateUnknownPurchase(t *testing.T) {
	s := newMemStore()
	c := NewCoordinator(s, &boardClient{}, personas.Default(), coordinatorConfig(), zerolog.Nop(), nil)
	_, err := c.Deliberate(context.Background(), "PUR-missing")
	if !stderrors.Is(err, errors.ErrPurchaseNotFound) {
		t.Fatalf("err = %v, want ErrPurchaseNotFound", err)
	}
}

func TestDeliberateOverallDeadline(t *testing.T) {
	s := newMemStore()
	seedPurchase(t, s)

	client := &stallClient{}
	cfg := coordinatorConfig()
	cfg.OverallDeadline = 50 * time.Millisecond
	cfg.StageTimeout = time.Second
	cfg.MaxStageRetries = 0

	c := NewCoordinator(s, client, personas.Default(), cfg, zerolog.Nop(), nil)
	_, err := c.Deliberate(context.Background(), "PUR-100")
	if !stderrors.Is(err, errors.ErrDeadlineExceeded) {
		t.Fatalf("err = %v, want ErrDeadlineExceeded", err)
	}

	history := s.history("PUR-100")
	if history[len(history)-1] != models.StatusFailed {
		t.Errorf("terminal status = %s, want failed", history[len(history)-1])
	}
}

func TestDeliberateInsightHangFallsBack(t *testing.T) {
	s := newMemStore()
	seedPurchase(t, s)

	cfg := coordinatorConfig()
	cfg.InsightEnabled = true
	cfg.StageTimeout = 50 * time.Millisecond
	cfg.OverallDeadline = 5 * time.Second

	c := NewCoordinator(s, &insightStallClient{}, personas.Default(), cfg, zerolog.Nop(), nil)
	start := time.Now()
	deliberation, err := c.Deliberate(context.Background(), "PUR-100")
	if err != nil {
		t.Fatalf("Deliberate: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("hung insight call stalled the run for %s", elapsed)
	}

	if deliberation.FinalDecision != models.DecisionApprove {
		t.Errorf("final decision = %s, want approve", deliberation.FinalDecision)
	}
	if !strings.Contains(deliberation.Insight, "of monthly income") {
		t.Errorf("insight is not the deterministic fallback: %q", deliberation.Insight)
	}
}

// insightStallClient answers every stage instantly but hangs the free-form
// insight call until its context dies.
type insightStallClient struct {
	boardClient
}

func (c *insightStallClient) Complete(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// stallClient blocks until the caller's context dies.
type stallClient struct{}

func (c *stallClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "insight", nil
}

func (c *stallClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
