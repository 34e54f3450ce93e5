package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionAnalysis(t *testing.T) {
	raw := `Sure, here is the analysis:
{"intent": "compare_documents", "complexity": "advanced", "key_terms": ["access", "q3"]}`

	got, err := ParseQuestionAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, "compare_documents", got.Intent)
	assert.Equal(t, "advanced", got.Complexity)
	assert.Len(t, got.KeyTerms, 2)
}

func TestParseQuestionAnalysisStrict(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no json", "the model just rambled"},
		{"missing complexity", `{"intent": "general_inquiry"}`},
		{"malformed json", `{"intent": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuestionAnalysis(tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestFallbackQuestionAnalysisIsDistinguishable(t *testing.T) {
	fallback := FallbackQuestionAnalysis()
	assert.Equal(t, "general_inquiry", fallback.Intent)
	assert.Equal(t, "intermediate", fallback.Complexity)
}

func TestParseComplianceAnalysisFreeText(t *testing.T) {
	got := ParseComplianceAnalysis("  The controls appear adequate overall.  ")
	assert.Equal(t, "The controls appear adequate overall.", got.Summary)

	structured := ParseComplianceAnalysis(`{"summary":"gaps found","frameworks":["SOX"],"key_risks":["x"]}`)
	assert.Equal(t, "gaps found", structured.Summary)
	assert.Len(t, structured.Frameworks, 1)
}

func TestDocumentProcessorChunksContent(t *testing.T) {
	processor := NewDocumentProcessor(100, 20)
	state := NewRunState(RunRequest{Question: "ingest"})

	content := strings.Repeat("the quarterly access review covered all privileged accounts ", 10)
	processed, ok := processor.ProcessWithState(context.Background(), state, content)
	require.Truef(t, ok, "processing failed: %v", state.Errors)
	assert.GreaterOrEqual(t, processed.ChunkCount, 2, "expected multiple chunks")

	result, okStage := state.StageResults[StageDocumentProcessing]
	require.True(t, okStage, "expected document_processing stage recorded")
	assert.Equal(t, StageCompleted, result.Status)

	_, ok = processor.ProcessWithState(context.Background(), state, "   \n\t ")
	assert.False(t, ok, "expected empty document to fail processing")
	assert.Len(t, state.Errors, 1)
}
