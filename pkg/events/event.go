package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RUN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewStageCompletedEvent records the outcome of a single workflow stage.
func NewStageCompletedEvent(runID, stage, status string, durationMs int64) Event {
	return BaseEvent{
		Type: "STAGE_COMPLETED",
		Data: map[string]interface{}{
			"run_id":      runID,
			"stage":       stage,
			"status":      status,
			"duration_ms": durationMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewRunCompletedEvent records the outcome of a whole workflow run.
func NewRunCompletedEvent(runID, status string, errorCount int, durationMs int64) Event {
	return BaseEvent{
		Type: "RUN_COMPLETED",
		Data: map[string]interface{}{
			"run_id":      runID,
			"status":      status,
			"error_count": errorCount,
			"duration_ms": durationMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentEmbedEvent asks the embedding consumer to (re)index a document.
func NewDocumentEmbedEvent(documentID string) Event {
	return BaseEvent{
		Type: "DOCUMENT_EMBED",
		Data: map[string]interface{}{
			"document_id": documentID,
		},
		OccurredAt: time.Now(),
	}
}
