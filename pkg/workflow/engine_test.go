package workflow

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/guidance"
	"audit-copilot-be/pkg/llm"
	"audit-copilot-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	content string
	usage   *llm.Usage
	err     error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{Content: f.content, Usage: f.usage}, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Result, error) {
	return f.Chat(ctx, nil, opts...)
}

type fakeIndex struct {
	results []retrieval.SearchResult
	err     error
}

func (f *fakeIndex) SemanticSearch(ctx context.Context, query string, limit int, scoreThreshold float64, filters map[string]interface{}) ([]retrieval.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	results := f.results
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type fakeClassifier struct {
	classification *classify.Classification
	err            error
	calls          int
}

func (f *fakeClassifier) Classify(ctx context.Context, content string) (*classify.Classification, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.classification, nil
}

type fakeGuidance struct {
	result *guidance.GuidanceResult
	err    error
}

func (f *fakeGuidance) SearchGuidance(ctx context.Context, query, documentType, framework string) (*guidance.GuidanceResult, error) {
	return f.result, f.err
}

type fakeConversations struct {
	turns map[string][]ConversationTurn
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{turns: make(map[string][]ConversationTurn)}
}

func (f *fakeConversations) History(id string) ([]ConversationTurn, error) {
	return f.turns[id], nil
}

func (f *fakeConversations) Append(id string, turn ConversationTurn) error {
	f.turns[id] = append(f.turns[id], turn)
	return nil
}

func (f *fakeConversations) Delete(id string) error {
	delete(f.turns, id)
	return nil
}

func (f *fakeConversations) List() ([]string, error) {
	ids := make([]string, 0, len(f.turns))
	for id := range f.turns {
		ids = append(ids, id)
	}
	return ids, nil
}

type engineDeps struct {
	analysisProvider   llm.LLMProvider
	complianceProvider llm.LLMProvider
	synthesisProvider  llm.LLMProvider
	index              retrieval.Index
	classifier         classify.Classifier
	guidance           guidance.Client
	conversations      ConversationStore
}

func newTestEngine(deps engineDeps) *Engine {
	logger := log.New(io.Discard, "", 0)
	retrievalEngine := retrieval.NewEngine(deps.index, nil, nil, nil, retrieval.NewScoreFusion(0.7, 0.3), retrieval.DefaultConfig(), logger)

	return NewEngine(
		NewQuestionAnalyzer(deps.analysisProvider),
		NewContextRetriever(retrieval.NewStrategySelector(), retrievalEngine),
		NewDocumentClassifier(deps.classifier),
		NewComplianceAnalyzer(deps.complianceProvider),
		NewRegulatorySearcher(deps.guidance),
		NewResponseSynthesizer(deps.synthesisProvider),
		deps.conversations,
		nil,
		logger,
	)
}

func evidenceResults() []retrieval.SearchResult {
	return []retrieval.SearchResult{
		{DocumentID: "doc-1", ChunkText: "three terminated users kept access", Score: 0.9,
			Metadata: map[string]interface{}{"document_type": "access_review"}},
		{DocumentID: "doc-2", ChunkText: "reconciliation completed with no exceptions", Score: 0.8,
			Metadata: map[string]interface{}{"document_type": "financial_reconciliation"}},
	}
}

func TestRunCompletesWithAllStages(t *testing.T) {
	conversations := newFakeConversations()
	engine := newTestEngine(engineDeps{
		analysisProvider:   &fakeProvider{content: `{"intent":"find_finding","complexity":"basic","key_terms":["access"]}`, usage: &llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}},
		complianceProvider: &fakeProvider{content: `{"summary":"access control gaps found","frameworks":["SOX"],"key_risks":["stale access"]}`, usage: &llm.Usage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30}},
		synthesisProvider:  &fakeProvider{content: "Three terminated users still had access, a SOX 404 concern.", usage: &llm.Usage{PromptTokens: 30, CompletionTokens: 15, TotalTokens: 45}},
		index:              &fakeIndex{results: evidenceResults()},
		classifier:         &fakeClassifier{classification: &classify.Classification{DocumentType: "access_review", RiskLevel: "high", Confidence: 0.9}},
		guidance:           &fakeGuidance{result: &guidance.GuidanceResult{Success: true, Insights: []string{"review access quarterly"}}},
		conversations:      conversations,
	})

	result := engine.Run(context.Background(), RunRequest{Question: "What did the access review find?"})

	require.Equalf(t, StatusCompleted, result.Status, "errors = %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Sources, 2)
	assert.NotEmpty(t, result.RunID)
	assert.NotEmpty(t, result.ConversationID)

	// Every stage recorded a timing.
	wantStages := []string{StageQuestionAnalysis, StageContextRetrieval, StageClassification, StageCompliance, StageRegulatorySearch, StageSynthesis}
	for _, stage := range wantStages {
		assert.Containsf(t, result.Metadata.StageTimings, stage, "missing timing for stage %s", stage)
	}
	assert.Equal(t, 1.0, result.Metadata.SuccessRate)

	// Token usage aggregates across the three model-backed stages.
	assert.Equal(t, 90, result.Metadata.TokenUsage.TotalTokens)

	// The exchange lands in conversation history after the run.
	turns := conversations.turns[result.ConversationID]
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)
}

func TestRunSurvivesAllCollaboratorFailures(t *testing.T) {
	failing := &fakeProvider{err: errors.New("model offline")}
	engine := newTestEngine(engineDeps{
		analysisProvider:   failing,
		complianceProvider: failing,
		synthesisProvider:  failing,
		index:              &fakeIndex{err: errors.New("index offline")},
		classifier:         &fakeClassifier{err: errors.New("classifier offline")},
		guidance:           &fakeGuidance{err: errors.New("guidance offline")},
		conversations:      newFakeConversations(),
	})

	result := engine.Run(context.Background(), RunRequest{Question: "anything"})

	assert.Equal(t, StatusFailed, result.Status)
	assert.NotEmpty(t, result.Response, "expected a response even with every collaborator down")
	assert.NotEmpty(t, result.Errors, "expected accumulated stage errors")
	// All six stages still ran.
	assert.Len(t, result.Metadata.StageTimings, 6)
}

func TestRunDegradesRegulatorySearch(t *testing.T) {
	engine := newTestEngine(engineDeps{
		analysisProvider:   &fakeProvider{content: `{"intent":"general_inquiry","complexity":"basic","key_terms":[]}`},
		complianceProvider: &fakeProvider{content: "no structured output"},
		synthesisProvider:  &fakeProvider{content: "answer"},
		index:              &fakeIndex{results: evidenceResults()},
		classifier:         &fakeClassifier{classification: classify.FallbackClassification()},
		guidance:           &fakeGuidance{err: errors.New("search api down")},
		conversations:      newFakeConversations(),
	})

	result := engine.Run(context.Background(), RunRequest{Question: "q"})

	// A guidance outage is a designed fallback, not a failure.
	assert.Equalf(t, StatusCompleted, result.Status, "errors = %v", result.Errors)
	assert.Equal(t, 1.0, result.Metadata.SuccessRate, "degraded stage should not count against success rate")
}

func TestRunAnalysisFallbackKeepsPipelineMoving(t *testing.T) {
	engine := newTestEngine(engineDeps{
		analysisProvider:   &fakeProvider{err: errors.New("model offline")},
		complianceProvider: &fakeProvider{content: "summary text"},
		synthesisProvider:  &fakeProvider{content: "answer"},
		index:              &fakeIndex{results: evidenceResults()},
		classifier:         &fakeClassifier{classification: classify.FallbackClassification()},
		guidance:           &fakeGuidance{result: guidance.FallbackGuidance()},
		conversations:      newFakeConversations(),
	})

	result := engine.Run(context.Background(), RunRequest{Question: "q"})

	// Analysis failed but the default payload kept retrieval working.
	assert.Equal(t, StatusFailed, result.Status, "analysis error should accumulate")
	assert.Len(t, result.Sources, 2, "retrieval should run on fallback analysis")
	assert.Equal(t, "answer", result.Response, "synthesis should still produce the answer")
}

func TestClassifySingleVersusMultiDocument(t *testing.T) {
	results := []retrieval.SearchResult{
		{DocumentID: "doc-1", ChunkText: "a", Score: 0.9},
		{DocumentID: "doc-1", ChunkText: "b", Score: 0.8},
		{DocumentID: "doc-2", ChunkText: "c", Score: 0.7},
		{DocumentID: "doc-3", ChunkText: "d", Score: 0.6},
	}

	single := &fakeClassifier{classification: classify.FallbackClassification()}
	got, err := NewDocumentClassifier(single).Classify(context.Background(), results, false)
	require.NoError(t, err)
	assert.Equal(t, 1, single.calls)
	assert.Len(t, got, 1)

	multi := &fakeClassifier{classification: classify.FallbackClassification()}
	got, err = NewDocumentClassifier(multi).Classify(context.Background(), results, true)
	require.NoError(t, err)
	// One classification per distinct document, top chunk only.
	assert.Equal(t, 3, multi.calls)
	assert.Len(t, got, 3)
}
