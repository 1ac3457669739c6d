package board

import "finance-board/internal/models"

// ProgressEvent reports the completion of one reasoning stage for one
// advisor. Err is set when the stage failed and ended that member's pipeline.
type ProgressEvent struct {
	PersonaID   string
	PersonaName string
	Stage       models.Stage
	Err         error
}

// ProgressFunc receives progress events during a deliberation. The callback
// is invoked from pipeline goroutines and must be safe for concurrent use; a
// nil ProgressFunc disables reporting.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(e ProgressEvent) {
	if f != nil {
		f(e)
	}
}
