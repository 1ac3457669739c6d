package board

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finance-board/internal/config"
	"finance-board/internal/errors"
	"finance-board/internal/models"
	"finance-board/pkg/retry"
)

// stageResult is implemented by all four stage output types.
type stageResult interface {
	Validate() error
}

// StageExecutor invokes the completion provider for one reasoning stage with
// a typed result contract. It never mutates shared state.
type StageExecutor struct {
	client  CompletionClient
	timeout time.Duration
	retry   retry.Config
}

// NewStageExecutor creates a stage executor from board configuration.
func NewStageExecutor(client CompletionClient, cfg config.BoardConfig) *StageExecutor {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.MaxStageRetries + 1
	if cfg.RetryDelay > 0 {
		rc.InitialDelay = cfg.RetryDelay
	}
	rc.RetryIf = errors.IsTransient
	return &StageExecutor{
		client:  client,
		timeout: cfg.StageTimeout,
		retry:   rc,
	}
}

// Execute runs one stage call and decodes the response into out. Transient
// provider failures are retried with backoff up to the configured bound; a
// structurally invalid response is a SchemaViolation and is never retried.
// Retries are internal and invisible to the scheduler.
func (e *StageExecutor) Execute(ctx context.Context, personaID string, stage models.Stage, systemPrompt, userPrompt string, out stageResult) error {
	_, err := retry.DoWithResult(ctx, e.retry, func() (struct{}, error) {
		return struct{}{}, e.executeOnce(ctx, personaID, stage, systemPrompt, userPrompt, out)
	})
	if errors.IsTransient(err) {
		return fmt.Errorf("%w: %w", errors.ErrProviderExhausted, err)
	}
	return err
}

func (e *StageExecutor) executeOnce(ctx context.Context, personaID string, stage models.Stage, systemPrompt, userPrompt string, out stageResult) error {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.CompleteJSON(callCtx, systemPrompt, userPrompt)
	if err != nil {
		// The overall deliberation deadline is not a member-level failure.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.NewStageError(personaID, string(stage), errors.KindTransient, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.NewStageError(personaID, string(stage), errors.KindSchemaViolation, err)
	}
	if err := out.Validate(); err != nil {
		return errors.NewStageError(personaID, string(stage), errors.KindSchemaViolation, err)
	}
	return nil
}
