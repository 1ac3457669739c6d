package board

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finance-board/internal/config"
	"finance-board/internal/errors"
	"finance-board/internal/finance"
	"finance-board/internal/logging"
	"finance-board/internal/models"
	"finance-board/internal/personas"
	"finance-board/internal/store"
)

// Coordinator runs one complete deliberation per purchase request. All
// collaborators are injected at construction; there is no shared global
// state, so a Coordinator is cheap to build per request and trivially
// testable with fakes.
type Coordinator struct {
	store     store.DataStore
	client    CompletionClient
	roster    personas.Roster
	cfg       config.BoardConfig
	logger    zerolog.Logger
	progress  ProgressFunc
	scheduler *BatchScheduler
	executor  *StageExecutor
	insight   *InsightGenerator
}

// NewCoordinator creates a deliberation coordinator.
func NewCoordinator(dataStore store.DataStore, client CompletionClient, roster personas.Roster, cfg config.BoardConfig, logger zerolog.Logger, progress ProgressFunc) *Coordinator {
	return &Coordinator{
		store:     dataStore,
		client:    client,
		roster:    roster,
		cfg:       cfg,
		logger:    logger,
		progress:  progress,
		scheduler: NewBatchScheduler(cfg.BatchSize),
		executor:  NewStageExecutor(client, cfg),
		insight:   NewInsightGenerator(client, cfg.InsightEnabled, cfg.StageTimeout),
	}
}

// Deliberate runs the full pipeline for one purchase: mark it deliberating,
// build the financial snapshot, fan the roster out under the batch window,
// tally votes, persist the record, and set the final status. On any failure
// before a decision exists the purchase status is forced to failed so the
// request is never left perpetually deliberating. Re-invoking on the same
// purchase is safe and produces a fresh, independent deliberation.
func (c *Coordinator) Deliberate(ctx context.Context, purchaseID string) (*models.BoardDeliberation, error) {
	logger := logging.WithPurchase(c.logger, purchaseID)
	started := time.Now()

	purchase, err := c.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := purchase.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidPurchase, err.Error())
	}
	if len(c.roster) == 0 {
		return nil, fmt.Errorf("empty persona roster")
	}

	if err := c.store.UpdatePurchaseStatus(ctx, purchaseID, models.StatusDeliberating); err != nil {
		return nil, errors.NewPersistenceError("purchase", purchaseID, err)
	}

	deliberation, err := c.run(ctx, logger, purchase, started)
	if err != nil {
		c.markFailed(purchaseID, logger)
		return nil, err
	}

	finalStatus := models.StatusRejected
	if deliberation.FinalDecision == models.DecisionApprove {
		finalStatus = models.StatusApproved
	}
	if err := c.store.UpdatePurchaseStatus(ctx, purchaseID, finalStatus); err != nil {
		c.markFailed(purchaseID, logger)
		return nil, errors.NewPersistenceError("purchase", purchaseID, err)
	}

	logging.LogDeliberation(logger, purchaseID, string(deliberation.FinalDecision),
		deliberation.ApproveCount, deliberation.RejectCount, len(deliberation.Failures),
		time.Since(started))

	return deliberation, nil
}

func (c *Coordinator) run(ctx context.Context, logger zerolog.Logger, purchase *models.PurchaseRequest, started time.Time) (*models.BoardDeliberation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OverallDeadline)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	builder := finance.NewBuilder(c.store)
	fc, err := builder.Build(ctx, purchase.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "building financial context")
	}
	affordability := finance.Analyze(purchase.Price, fc)

	logger.Debug().
		Float64("monthly_income", fc.MonthlyIncome).
		Float64("discretionary", fc.DiscretionaryBudget).
		Str("affordability", string(affordability.Recommendation)).
		Msg("Financial context built")

	insight := c.insight.Generate(ctx, purchase, fc, affordability)

	pc := PromptContext{
		Purchase:      purchase,
		Financial:     fc,
		Affordability: affordability,
	}

	outcomes := c.scheduler.Run(ctx, c.roster, func(ctx context.Context, p personas.Persona) MemberOutcome {
		pipeline := NewMemberPipeline(c.executor, p, logger, c.progress)
		return pipeline.Run(ctx, pc)
	})

	var results []models.MemberResult
	var failures []models.MemberFailure
	for _, outcome := range outcomes {
		switch {
		case outcome.Abort != nil:
			if stderrors.Is(outcome.Abort, context.DeadlineExceeded) {
				return nil, errors.ErrDeadlineExceeded
			}
			return nil, outcome.Abort
		case outcome.Result != nil:
			results = append(results, *outcome.Result)
		case outcome.Failure != nil:
			failures = append(failures, *outcome.Failure)
			logger.Warn().
				Str("persona", outcome.Failure.PersonaID).
				Str("stage", string(outcome.Failure.Stage)).
				Str("reason", outcome.Failure.Reason).
				Msg("Board member failed")
		}
	}

	tally, err := Aggregate(results, affordability)
	if err != nil {
		return nil, err
	}

	completed := time.Now()
	deliberation := &models.BoardDeliberation{
		ID:                    generateDeliberationID(),
		PurchaseID:            purchase.ID,
		Votes:                 tally.Votes,
		Failures:              failures,
		ApproveCount:          tally.ApproveCount,
		RejectCount:           tally.RejectCount,
		FinalDecision:         tally.FinalDecision,
		IsUnanimous:           tally.IsUnanimous,
		Summary:               tally.Summary,
		Insight:               insight,
		StartedAt:             started,
		CompletedAt:           completed,
		TotalProcessingTimeMs: completed.Sub(started).Milliseconds(),
		FinancialContext:      *fc,
		Affordability:         affordability,
	}

	if err := c.store.SaveDeliberation(ctx, deliberation); err != nil {
		return nil, errors.NewPersistenceError("deliberation", deliberation.ID, err)
	}
	for i := range results {
		if err := c.store.SaveMemberResult(ctx, deliberation.ID, &results[i]); err != nil {
			return nil, errors.NewPersistenceError("member_result", results[i].PersonaID, err)
		}
	}

	return deliberation, nil
}

// markFailed forces the purchase to a terminal failed status. Best effort
// with a fresh context: the deliberation context may already be dead.
func (c *Coordinator) markFailed(purchaseID string, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.store.UpdatePurchaseStatus(ctx, purchaseID, models.StatusFailed); err != nil {
		logger.Error().Err(err).Msg("Failed to mark purchase as failed")
	}
}

func generateDeliberationID() string {
	return fmt.Sprintf("DLB-%d", time.Now().UnixNano())
}
