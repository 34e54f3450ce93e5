package telemetry

import (
	"context"
	"log"
	"time"

	"audit-copilot-be/pkg/events"
	appnats "audit-copilot-be/pkg/nats"
)

// NatsTelemetry publishes stage and run events to the JetStream bus.
type NatsTelemetry struct {
	publisher *appnats.Publisher
	logger    *log.Logger
}

var _ Telemetry = &NatsTelemetry{}

func NewNatsTelemetry(publisher *appnats.Publisher, logger *log.Logger) *NatsTelemetry {
	return &NatsTelemetry{publisher: publisher, logger: logger}
}

func (t *NatsTelemetry) LogStage(ctx context.Context, runID, stage, status string, duration time.Duration) {
	event := events.NewStageCompletedEvent(runID, stage, status, duration.Milliseconds())
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Printf("telemetry: stage event publish failed: %v", err)
	}
}

func (t *NatsTelemetry) LogRun(ctx context.Context, runID, status string, errorCount int, duration time.Duration) {
	event := events.NewRunCompletedEvent(runID, status, errorCount, duration.Milliseconds())
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Printf("telemetry: run event publish failed: %v", err)
	}
}
