package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"audit-copilot-be/pkg/llm"
)

// QuestionSuggestions is a set of follow-up questions offered to the chat
// surface, grouped by audit category.
type QuestionSuggestions struct {
	Questions  []string `json:"questions"`
	Categories []string `json:"categories"`
	Fallback   bool     `json:"-"`
}

// QuestionSuggester asks the model which questions are worth asking about a
// document. Model or parse failures degrade to the static audit set, never
// to an error.
type QuestionSuggester struct {
	provider llm.LLMProvider
}

func NewQuestionSuggester(provider llm.LLMProvider) *QuestionSuggester {
	return &QuestionSuggester{provider: provider}
}

const suggestionPrompt = `You are an audit and compliance assistant. Suggest questions an auditor should ask about a document.
Document type: %s
Compliance framework: %s
Respond with only a JSON object of the form {"questions": ["..."], "categories": ["..."]} containing five questions and the audit category of each.`

func (s *QuestionSuggester) Suggest(ctx context.Context, documentType, framework string) (*QuestionSuggestions, error) {
	if s.provider == nil {
		return FallbackQuestionSuggestions(), nil
	}
	if documentType == "" {
		documentType = "audit document"
	}
	if framework == "" {
		framework = "general"
	}

	result, err := s.provider.Generate(ctx, fmt.Sprintf(suggestionPrompt, documentType, framework), llm.WithTemperature(0.4))
	if err != nil {
		return FallbackQuestionSuggestions(), nil
	}

	suggestions, err := ParseQuestionSuggestions(result.Content)
	if err != nil {
		return FallbackQuestionSuggestions(), nil
	}
	return suggestions, nil
}

// ParseQuestionSuggestions extracts the JSON suggestion object from model
// output. It fails rather than guessing so callers can distinguish a parsed
// set from the fallback.
func ParseQuestionSuggestions(raw string) (*QuestionSuggestions, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in suggestion output")
	}

	var suggestions QuestionSuggestions
	if err := json.Unmarshal([]byte(raw[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("decode question suggestions: %w", err)
	}
	if len(suggestions.Questions) == 0 {
		return nil, fmt.Errorf("question suggestions missing questions")
	}
	return &suggestions, nil
}

// FallbackQuestionSuggestions is the static audit question set served when
// the model cannot produce one.
func FallbackQuestionSuggestions() *QuestionSuggestions {
	return &QuestionSuggestions{
		Questions: []string{
			"What are the key access control findings in this review?",
			"Are there any segregation of duties violations?",
			"What is the overall risk assessment for this access review?",
			"Are there any compliance gaps with SOX requirements?",
			"What recommendations are provided for improvement?",
		},
		Categories: []string{
			"Access Controls",
			"Segregation of Duties",
			"Risk Assessment",
			"Compliance",
			"Recommendations",
		},
		Fallback: true,
	}
}
