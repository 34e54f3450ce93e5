package workflow

import (
	"context"

	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/retrieval"
)

// DocumentClassifier labels the retrieved documents. In single-document mode
// only the top-ranked chunk is classified; multi-document mode classifies the
// best chunk of every distinct document.
type DocumentClassifier struct {
	classifier classify.Classifier
}

func NewDocumentClassifier(classifier classify.Classifier) *DocumentClassifier {
	return &DocumentClassifier{classifier: classifier}
}

func (c *DocumentClassifier) Classify(ctx context.Context, results []retrieval.SearchResult, multiDocument bool) (map[string]*classify.Classification, error) {
	classifications := make(map[string]*classify.Classification)
	if len(results) == 0 {
		return classifications, nil
	}

	targets := results[:1]
	if multiDocument {
		targets = topChunkPerDocument(results)
	}

	for _, target := range targets {
		classification, err := c.classifier.Classify(ctx, target.ChunkText)
		if err != nil {
			return classifications, err
		}
		classifications[classificationKey(target)] = classification
	}
	return classifications, nil
}

func classificationKey(r retrieval.SearchResult) string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	return "top_result"
}

// topChunkPerDocument keeps the first (highest ranked) chunk of each
// distinct document, preserving rank order.
func topChunkPerDocument(results []retrieval.SearchResult) []retrieval.SearchResult {
	seen := make(map[string]bool)
	var targets []retrieval.SearchResult
	for _, r := range results {
		key := classificationKey(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, r)
	}
	return targets
}
