package workflow

import (
	"context"
	"fmt"

	"audit-copilot-be/pkg/retrieval"
)

// ContextRetriever picks a strategy from the question analysis and fetches
// the supporting chunks through the retrieval engine.
type ContextRetriever struct {
	selector *retrieval.StrategySelector
	engine   *retrieval.Engine
}

func NewContextRetriever(selector *retrieval.StrategySelector, engine *retrieval.Engine) *ContextRetriever {
	return &ContextRetriever{selector: selector, engine: engine}
}

func (r *ContextRetriever) Retrieve(ctx context.Context, question string, analysis *QuestionAnalysis, documentID string) (*RetrievedContext, error) {
	strategy := r.selector.Select(question, analysis.Complexity)

	var filters map[string]interface{}
	if documentID != "" {
		filters = map[string]interface{}{"document_id": documentID}
	}

	results, method, err := r.engine.Retrieve(ctx, question, strategy, retrieval.Options{Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("context retrieval: %w", err)
	}

	return &RetrievedContext{
		Results:  results,
		Strategy: strategy.String(),
		Method:   method,
	}, nil
}
