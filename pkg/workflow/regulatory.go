package workflow

import (
	"context"

	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/guidance"
)

// RegulatorySearcher enriches the run with current regulatory guidance.
// When the guidance service fails the stage completes degraded with a
// static fallback payload rather than failing the run.
type RegulatorySearcher struct {
	client guidance.Client
}

func NewRegulatorySearcher(client guidance.Client) *RegulatorySearcher {
	return &RegulatorySearcher{client: client}
}

// Search returns the guidance result and whether it is the degraded fallback.
func (s *RegulatorySearcher) Search(ctx context.Context, question string, classifications map[string]*classify.Classification) (*guidance.GuidanceResult, bool) {
	if s.client == nil {
		return guidance.FallbackGuidance(), true
	}

	documentType, framework := dominantClassification(classifications)
	result, err := s.client.SearchGuidance(ctx, question, documentType, framework)
	if err != nil {
		return guidance.FallbackGuidance(), true
	}
	return result, false
}

// dominantClassification picks the type and framework to scope the guidance
// search with, preferring the highest-confidence classification.
func dominantClassification(classifications map[string]*classify.Classification) (string, string) {
	var best *classify.Classification
	for _, c := range classifications {
		if best == nil || c.Confidence > best.Confidence {
			best = c
		}
	}
	if best == nil {
		return "", ""
	}
	framework := ""
	if len(best.Frameworks) > 0 {
		framework = best.Frameworks[0]
	}
	return best.DocumentType, framework
}
