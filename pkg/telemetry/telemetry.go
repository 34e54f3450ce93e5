package telemetry

import (
	"context"
	"time"
)

// Telemetry records workflow progress for observability. Implementations
// are fire-and-forget: failures are logged, never returned, so telemetry
// can never affect workflow control flow.
type Telemetry interface {
	LogStage(ctx context.Context, runID, stage, status string, duration time.Duration)
	LogRun(ctx context.Context, runID, status string, errorCount int, duration time.Duration)
}

// Nop discards all telemetry. Used when no event bus is configured.
type Nop struct{}

var _ Telemetry = Nop{}

func (Nop) LogStage(ctx context.Context, runID, stage, status string, duration time.Duration) {}

func (Nop) LogRun(ctx context.Context, runID, status string, errorCount int, duration time.Duration) {
}
