package dto

type RunWorkflowRequest struct {
	Question       string `json:"question" validate:"required,min=3"`
	ConversationId string `json:"conversation_id,omitempty" validate:"omitempty,uuid"`
	DocumentId     string `json:"document_id,omitempty" validate:"omitempty,uuid"`
	MultiDocument  bool   `json:"multi_document,omitempty"`
}

type SourceResponse struct {
	DocumentId    string                 `json:"document_id"`
	ChunkText     string                 `json:"chunk_text"`
	Score         float64                `json:"score"`
	CombinedScore float64                `json:"combined_score"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type TokenUsageResponse struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type RunMetadataResponse struct {
	StageTimingsMs     map[string]int64   `json:"stage_timings_ms"`
	TokenUsage         TokenUsageResponse `json:"token_usage"`
	SuccessRate        float64            `json:"success_rate"`
	AverageStageTimeMs int64              `json:"average_stage_time_ms"`
	TotalDurationMs    int64              `json:"total_duration_ms"`
	RetrievalStrategy  string             `json:"retrieval_strategy,omitempty"`
}

type RunWorkflowResponse struct {
	Response       string              `json:"response"`
	Status         string              `json:"status"`
	RunId          string              `json:"run_id"`
	ConversationId string              `json:"conversation_id"`
	Sources        []SourceResponse    `json:"sources"`
	Metadata       RunMetadataResponse `json:"metadata"`
	Errors         []string            `json:"errors,omitempty"`
}

type CacheStatsResponse struct {
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Evictions     int64   `json:"evictions"`
	TotalRequests int64   `json:"total_requests"`
	HitRate       float64 `json:"hit_rate"`
	Entries       int     `json:"entries"`
}
