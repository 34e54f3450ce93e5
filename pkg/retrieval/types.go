package retrieval

// SearchResult is one ranked chunk returned by any retrieval method.
type SearchResult struct {
	DocumentID    string                 `json:"document_id"`
	ChunkText     string                 `json:"chunk_text"`
	Score         float64                `json:"score"`
	SemanticScore float64                `json:"semantic_score"`
	KeywordScore  float64                `json:"keyword_score"`
	CombinedScore float64                `json:"combined_score"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// KeywordDocument is a raw keyword-retriever hit before score fusion.
type KeywordDocument struct {
	Content  string
	Metadata map[string]interface{}
}
