// FILE: internal/service/document_index_service.go
package service

import (
	"context"
	"fmt"

	"audit-copilot-be/internal/repository/contract"
	"audit-copilot-be/internal/repository/unitofwork"
	"audit-copilot-be/pkg/embedding"
	"audit-copilot-be/pkg/retrieval"
)

// DocumentIndexService adapts the chunk repository to the retrieval engine's
// semantic, keyword and combined retriever contracts.
type DocumentIndexService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	fusion            *retrieval.ScoreFusion
}

var (
	_ retrieval.Index             = &DocumentIndexService{}
	_ retrieval.KeywordRetriever  = &DocumentIndexService{}
	_ retrieval.CombinedRetriever = &DocumentIndexService{}
)

func NewDocumentIndexService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	fusion *retrieval.ScoreFusion,
) *DocumentIndexService {
	return &DocumentIndexService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		fusion:            fusion,
	}
}

func (s *DocumentIndexService) SemanticSearch(ctx context.Context, query string, limit int, scoreThreshold float64, filters map[string]interface{}) ([]retrieval.SearchResult, error) {
	embeddingRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, limit, scoreThreshold)
	if err != nil {
		return nil, err
	}

	results := make([]retrieval.SearchResult, 0, len(scored))
	for _, sc := range scored {
		result := scoredChunkToResult(sc)
		if len(filters) > 0 && !retrieval.MatchesFilters(result.Metadata, filters) {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *DocumentIndexService) Relevant(ctx context.Context, query string) ([]retrieval.KeywordDocument, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().SearchKeyword(ctx, query, 10)
	if err != nil {
		return nil, err
	}

	docs := make([]retrieval.KeywordDocument, 0, len(chunks))
	for _, chunk := range chunks {
		metadata := make(map[string]interface{}, len(chunk.Metadata)+1)
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadata["document_id"] = chunk.DocumentId.String()
		docs = append(docs, retrieval.KeywordDocument{
			Content:  chunk.Content,
			Metadata: metadata,
		})
	}
	return docs, nil
}

// Retrieve serves the ensemble strategy with a fused semantic+keyword ranking.
func (s *DocumentIndexService) Retrieve(ctx context.Context, query string, limit int) ([]retrieval.SearchResult, error) {
	semantic, err := s.SemanticSearch(ctx, query, limit, 0, nil)
	if err != nil {
		return nil, err
	}

	var keywordResults []retrieval.SearchResult
	docs, err := s.Relevant(ctx, query)
	if err == nil {
		for i, doc := range docs {
			id, _ := doc.Metadata["document_id"].(string)
			keywordResults = append(keywordResults, retrieval.SearchResult{
				DocumentID: id,
				ChunkText:  doc.Content,
				Score:      1.0 / float64(i+1),
				Metadata:   doc.Metadata,
			})
		}
	}

	fused := s.fusion.Combine(semantic, keywordResults)
	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

func scoredChunkToResult(sc *contract.ScoredDocumentChunk) retrieval.SearchResult {
	metadata := make(map[string]interface{}, len(sc.Chunk.Metadata)+2)
	for k, v := range sc.Chunk.Metadata {
		metadata[k] = v
	}
	metadata["document_id"] = sc.Chunk.DocumentId.String()
	metadata["chunk_index"] = sc.Chunk.ChunkIndex

	return retrieval.SearchResult{
		DocumentID:    sc.Chunk.DocumentId.String(),
		ChunkText:     sc.Chunk.Content,
		Score:         sc.Similarity,
		SemanticScore: sc.Similarity,
		Metadata:      metadata,
	}
}
