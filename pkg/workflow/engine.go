package workflow

import (
	"context"
	"log"
	"time"

	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/guidance"
	"audit-copilot-be/pkg/llm"
	"audit-copilot-be/pkg/retrieval"
	"audit-copilot-be/pkg/telemetry"
)

// RunRequest starts one workflow run.
type RunRequest struct {
	Question       string
	ConversationID string
	DocumentID     string
	MultiDocument  bool
}

// RunMetadata aggregates per-stage observability data for one run.
type RunMetadata struct {
	StageTimings      map[string]time.Duration `json:"stage_timings"`
	TokenUsage        llm.Usage                `json:"token_usage"`
	SuccessRate       float64                  `json:"success_rate"`
	AverageStageTime  time.Duration            `json:"average_stage_time"`
	TotalDuration     time.Duration            `json:"total_duration"`
	RetrievalStrategy string                   `json:"retrieval_strategy,omitempty"`
	RetrievalMethod   string                   `json:"retrieval_method,omitempty"`
}

// RunResult is what a completed run hands back to the caller.
type RunResult struct {
	Response       string                   `json:"response"`
	Status         Status                   `json:"status"`
	RunID          string                   `json:"run_id"`
	ConversationID string                   `json:"conversation_id"`
	Sources        []retrieval.SearchResult `json:"sources"`
	Metadata       RunMetadata              `json:"metadata"`
	Errors         []string                 `json:"errors"`
}

// Engine drives a question through the analysis stages in strict order.
// Stage failures accumulate on the run state and never halt the pipeline;
// the run finishes failed only when at least one stage failed.
type Engine struct {
	analyzer      *QuestionAnalyzer
	retriever     *ContextRetriever
	classifier    *DocumentClassifier
	compliance    *ComplianceAnalyzer
	regulatory    *RegulatorySearcher
	synthesizer   *ResponseSynthesizer
	conversations ConversationStore
	telemetry     telemetry.Telemetry
	logger        *log.Logger
}

func NewEngine(
	analyzer *QuestionAnalyzer,
	retriever *ContextRetriever,
	classifier *DocumentClassifier,
	compliance *ComplianceAnalyzer,
	regulatory *RegulatorySearcher,
	synthesizer *ResponseSynthesizer,
	conversations ConversationStore,
	tel telemetry.Telemetry,
	logger *log.Logger,
) *Engine {
	if tel == nil {
		tel = telemetry.Nop{}
	}
	return &Engine{
		analyzer:      analyzer,
		retriever:     retriever,
		classifier:    classifier,
		compliance:    compliance,
		regulatory:    regulatory,
		synthesizer:   synthesizer,
		conversations: conversations,
		telemetry:     tel,
		logger:        logger,
	}
}

// Run executes the full pipeline for one question. It always returns a
// usable result; collaborator failures surface through Errors and Status.
func (e *Engine) Run(ctx context.Context, req RunRequest) *RunResult {
	state := NewRunState(req)

	var history []ConversationTurn
	if e.conversations != nil {
		if h, err := e.conversations.History(state.ConversationID); err == nil {
			history = h
		}
	}

	// ANALYZE_QUESTION: a failed analysis degrades to the default payload
	// so strategy selection still has something to work with.
	analysis, ok := runStage(ctx, state, StageQuestionAnalysis, func(ctx context.Context) (stagePayload[*QuestionAnalysis], error) {
		a, usage, err := e.analyzer.Analyze(ctx, state.Question)
		return stagePayload[*QuestionAnalysis]{value: a, usage: usage}, err
	})
	if !ok {
		analysis = FallbackQuestionAnalysis()
	}
	state.Analysis = analysis
	e.logStage(ctx, state, StageQuestionAnalysis)

	// RETRIEVE_CONTEXT
	retrieved, ok := runStage(ctx, state, StageContextRetrieval, func(ctx context.Context) (stagePayload[*RetrievedContext], error) {
		r, err := e.retriever.Retrieve(ctx, state.Question, state.Analysis, state.DocumentID)
		return stagePayload[*RetrievedContext]{value: r}, err
	})
	if !ok {
		retrieved = &RetrievedContext{}
	}
	state.Retrieved = retrieved
	e.logStage(ctx, state, StageContextRetrieval)

	// CLASSIFY_DOCUMENTS
	classifications, ok := runStage(ctx, state, StageClassification, func(ctx context.Context) (stagePayload[map[string]*classify.Classification], error) {
		c, err := e.classifier.Classify(ctx, state.Retrieved.Results, state.MultiDocument)
		return stagePayload[map[string]*classify.Classification]{value: c}, err
	})
	if ok {
		state.Classifications = classifications
	}
	e.logStage(ctx, state, StageClassification)

	// ANALYZE_COMPLIANCE
	complianceResult, ok := runStage(ctx, state, StageCompliance, func(ctx context.Context) (stagePayload[*ComplianceAnalysis], error) {
		c, usage, err := e.compliance.Analyze(ctx, state.Question, state.Retrieved, state.Classifications)
		return stagePayload[*ComplianceAnalysis]{value: c, usage: usage}, err
	})
	if ok {
		state.Compliance = complianceResult
	}
	e.logStage(ctx, state, StageCompliance)

	// REGULATORY_SEARCH: guidance failures are a designed fallback, so the
	// stage completes degraded instead of failing.
	var degraded bool
	regulatoryResult, _ := runStage(ctx, state, StageRegulatorySearch, func(ctx context.Context) (stagePayload[*guidance.GuidanceResult], error) {
		result, fellBack := e.regulatory.Search(ctx, state.Question, state.Classifications)
		degraded = fellBack
		return stagePayload[*guidance.GuidanceResult]{value: result}, nil
	})
	if degraded {
		markDegraded(state, StageRegulatorySearch)
	}
	state.Regulatory = regulatoryResult
	e.logStage(ctx, state, StageRegulatorySearch)

	// SYNTHESIZE_RESPONSE
	response, ok := runStage(ctx, state, StageSynthesis, func(ctx context.Context) (stagePayload[string], error) {
		r, usage, err := e.synthesizer.Synthesize(ctx, state, history)
		return stagePayload[string]{value: r, usage: usage}, err
	})
	if !ok || response == "" {
		response = apologeticResponse()
	}
	state.FinalResponse = response
	e.logStage(ctx, state, StageSynthesis)

	// COMPLETE
	state.EndedAt = time.Now()
	if len(state.Errors) > 0 {
		state.Status = StatusFailed
	} else {
		state.Status = StatusCompleted
	}

	e.recordConversation(state)
	e.telemetry.LogRun(ctx, state.RunID, string(state.Status), len(state.Errors), state.EndedAt.Sub(state.StartedAt))

	return buildResult(state)
}

func apologeticResponse() string {
	return "I apologize, but I was unable to fully answer your question due to " +
		"internal errors while analyzing the documents. Please try again or rephrase the question."
}

func (e *Engine) logStage(ctx context.Context, state *RunState, name string) {
	if result, ok := state.StageResults[name]; ok {
		e.telemetry.LogStage(ctx, state.RunID, name, result.Status, result.ExecutionTime)
	}
}

// recordConversation appends the question and answer after the run so a
// failed run still leaves the exchange in history.
func (e *Engine) recordConversation(state *RunState) {
	if e.conversations == nil {
		return
	}
	now := time.Now()
	if err := e.conversations.Append(state.ConversationID, ConversationTurn{Role: "user", Content: state.Question, CreatedAt: now}); err != nil {
		e.logger.Printf("workflow: append user turn failed: %v", err)
		return
	}
	if err := e.conversations.Append(state.ConversationID, ConversationTurn{Role: "assistant", Content: state.FinalResponse, CreatedAt: now}); err != nil {
		e.logger.Printf("workflow: append assistant turn failed: %v", err)
	}
}

func buildResult(state *RunState) *RunResult {
	metadata := RunMetadata{
		StageTimings:  make(map[string]time.Duration, len(state.StageResults)),
		TotalDuration: state.EndedAt.Sub(state.StartedAt),
	}

	var stageTotal time.Duration
	succeeded := 0
	for name, result := range state.StageResults {
		metadata.StageTimings[name] = result.ExecutionTime
		stageTotal += result.ExecutionTime
		metadata.TokenUsage.Add(result.TokenUsage)
		if result.Status != StageFailed {
			succeeded++
		}
	}
	if n := len(state.StageResults); n > 0 {
		metadata.SuccessRate = float64(succeeded) / float64(n)
		metadata.AverageStageTime = stageTotal / time.Duration(n)
	}

	var sources []retrieval.SearchResult
	if state.Retrieved != nil {
		sources = state.Retrieved.Results
		metadata.RetrievalStrategy = state.Retrieved.Strategy
		metadata.RetrievalMethod = state.Retrieved.Method
	}

	return &RunResult{
		Response:       state.FinalResponse,
		Status:         state.Status,
		RunID:          state.RunID,
		ConversationID: state.ConversationID,
		Sources:        sources,
		Metadata:       metadata,
		Errors:         state.Errors,
	}
}
