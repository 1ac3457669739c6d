package board

import (
	"context"
	"sync"

	"finance-board/internal/personas"
)

// BatchScheduler runs member pipelines under a bounded concurrency window.
// The roster is split into consecutive chunks of the batch size; pipelines
// within a chunk run concurrently and the whole chunk is awaited before the
// next begins, which caps burst load on the completion provider.
type BatchScheduler struct {
	batchSize int
}

// NewBatchScheduler creates a scheduler with the given batch size.
// A size below 1 is treated as 1.
func NewBatchScheduler(batchSize int) *BatchScheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	return &BatchScheduler{batchSize: batchSize}
}

// Run executes one pipeline per roster member. Results are returned in
// roster order regardless of completion order within a chunk. A failing
// pipeline never cancels siblings in its chunk or halts later chunks.
func (s *BatchScheduler) Run(ctx context.Context, roster personas.Roster, run func(context.Context, personas.Persona) MemberOutcome) []MemberOutcome {
	outcomes := make([]MemberOutcome, len(roster))

	for start := 0; start < len(roster); start += s.batchSize {
		end := start + s.batchSize
		if end > len(roster) {
			end = len(roster)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, persona personas.Persona) {
				defer wg.Done()
				outcomes[idx] = run(ctx, persona)
			}(i, roster[i])
		}
		wg.Wait()
	}

	return outcomes
}
