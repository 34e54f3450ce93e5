package workflow

import (
	"context"
	"fmt"

	"audit-copilot-be/pkg/llm"
)

const analysisPromptTemplate = `You are an audit question analyst. Analyze the question below.

Respond with only a JSON object of this shape:
{
  "intent": "find_finding|compare_documents|assess_risk|check_compliance|general_inquiry",
  "complexity": "basic|intermediate|advanced",
  "key_terms": ["..."]
}

Question: %s`

// QuestionAnalyzer reads the user's question into a structured analysis that
// drives retrieval strategy selection.
type QuestionAnalyzer struct {
	provider llm.LLMProvider
}

func NewQuestionAnalyzer(provider llm.LLMProvider) *QuestionAnalyzer {
	return &QuestionAnalyzer{provider: provider}
}

func (a *QuestionAnalyzer) Analyze(ctx context.Context, question string) (*QuestionAnalysis, *llm.Usage, error) {
	prompt := fmt.Sprintf(analysisPromptTemplate, question)
	result, err := a.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, nil, fmt.Errorf("question analysis call: %w", err)
	}

	analysis, err := ParseQuestionAnalysis(result.Content)
	if err != nil {
		return nil, result.Usage, err
	}
	return analysis, result.Usage, nil
}
