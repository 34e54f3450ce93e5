// FILE: internal/service/workflow_service.go
package service

import (
	"context"

	"audit-copilot-be/internal/dto"
	"audit-copilot-be/pkg/retrieval"
	"audit-copilot-be/pkg/workflow"
)

type IWorkflowService interface {
	Ask(ctx context.Context, req *dto.RunWorkflowRequest) (*dto.RunWorkflowResponse, error)
	CacheStats() *dto.CacheStatsResponse
	InvalidateCache(pattern string) int
}

type workflowService struct {
	engine *workflow.Engine
	cache  *retrieval.CacheStore
}

func NewWorkflowService(engine *workflow.Engine, cache *retrieval.CacheStore) IWorkflowService {
	return &workflowService{
		engine: engine,
		cache:  cache,
	}
}

func (s *workflowService) Ask(ctx context.Context, req *dto.RunWorkflowRequest) (*dto.RunWorkflowResponse, error) {
	result := s.engine.Run(ctx, workflow.RunRequest{
		Question:       req.Question,
		ConversationID: req.ConversationId,
		DocumentID:     req.DocumentId,
		MultiDocument:  req.MultiDocument,
	})
	if result == nil {
		// Engine contract says this cannot happen; still never hand the
		// caller a nil run.
		return &dto.RunWorkflowResponse{
			Response: "I apologize, but I was unable to process your question. Please try again.",
			Status:   string(workflow.StatusFailed),
			Sources:  []dto.SourceResponse{},
		}, nil
	}

	return mapRunResult(result), nil
}

func (s *workflowService) CacheStats() *dto.CacheStatsResponse {
	if s.cache == nil {
		return &dto.CacheStatsResponse{}
	}
	stats := s.cache.Stats()
	return &dto.CacheStatsResponse{
		Hits:          stats.Hits,
		Misses:        stats.Misses,
		Evictions:     stats.Evictions,
		TotalRequests: stats.TotalRequests,
		HitRate:       stats.HitRate(),
		Entries:       s.cache.Len(),
	}
}

func (s *workflowService) InvalidateCache(pattern string) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.InvalidatePattern(pattern)
}

func mapRunResult(result *workflow.RunResult) *dto.RunWorkflowResponse {
	sources := make([]dto.SourceResponse, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, dto.SourceResponse{
			DocumentId:    src.DocumentID,
			ChunkText:     src.ChunkText,
			Score:         src.Score,
			CombinedScore: src.CombinedScore,
			Metadata:      src.Metadata,
		})
	}

	timings := make(map[string]int64, len(result.Metadata.StageTimings))
	for stage, duration := range result.Metadata.StageTimings {
		timings[stage] = duration.Milliseconds()
	}

	return &dto.RunWorkflowResponse{
		Response:       result.Response,
		Status:         string(result.Status),
		RunId:          result.RunID,
		ConversationId: result.ConversationID,
		Sources:        sources,
		Metadata: dto.RunMetadataResponse{
			StageTimingsMs: timings,
			TokenUsage: dto.TokenUsageResponse{
				PromptTokens:     result.Metadata.TokenUsage.PromptTokens,
				CompletionTokens: result.Metadata.TokenUsage.CompletionTokens,
				TotalTokens:      result.Metadata.TokenUsage.TotalTokens,
			},
			SuccessRate:        result.Metadata.SuccessRate,
			AverageStageTimeMs: result.Metadata.AverageStageTime.Milliseconds(),
			TotalDurationMs:    result.Metadata.TotalDuration.Milliseconds(),
			RetrievalStrategy:  result.Metadata.RetrievalStrategy,
		},
		Errors: result.Errors,
	}
}
