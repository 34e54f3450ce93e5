package retrieval

import "context"

// Index is the semantic (vector) side of retrieval.
type Index interface {
	SemanticSearch(ctx context.Context, query string, limit int, scoreThreshold float64, filters map[string]interface{}) ([]SearchResult, error)
}

// KeywordRetriever is the lexical side of retrieval.
type KeywordRetriever interface {
	Relevant(ctx context.Context, query string) ([]KeywordDocument, error)
}

// CombinedRetriever is a pre-fused retriever used by the ensemble strategy.
type CombinedRetriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
