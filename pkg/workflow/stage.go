package workflow

import (
	"context"
	"time"

	"audit-copilot-be/pkg/llm"
)

// stagePayload is what a stage body hands back to the envelope: the typed
// payload for the state slot plus any token usage the stage consumed.
type stagePayload[T any] struct {
	value T
	usage *llm.Usage
}

// runStage executes one stage body inside the shared envelope: it times the
// call, records a StageResult under the stage name, and converts a returned
// error into a failed result plus an appended run error instead of halting
// the pipeline. The boolean reports whether the payload is usable.
func runStage[T any](ctx context.Context, state *RunState, name string, body func(ctx context.Context) (stagePayload[T], error)) (T, bool) {
	start := time.Now()
	payload, err := body(ctx)
	elapsed := time.Since(start)

	result := &StageResult{
		Status:        StageCompleted,
		ExecutionTime: elapsed,
		TokenUsage:    payload.usage,
	}
	if err != nil {
		result.Status = StageFailed
		result.Error = err.Error()
		state.AddError(name, err.Error())
	}
	state.RecordStage(name, result)

	return payload.value, err == nil
}

// markDegraded downgrades an already recorded stage to a degraded
// completion. Used when a collaborator failed but a designed fallback
// payload took its place.
func markDegraded(state *RunState, name string) {
	if result, ok := state.StageResults[name]; ok {
		result.Status = StageDegraded
	}
}
