package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseQuestionAnalysis extracts the JSON analysis object from free-form
// model output. It fails rather than guessing so callers can distinguish a
// parsed analysis from a defaulted one.
func ParseQuestionAnalysis(raw string) (*QuestionAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in analysis output")
	}

	var analysis QuestionAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("decode question analysis: %w", err)
	}
	if analysis.Complexity == "" {
		return nil, fmt.Errorf("question analysis missing complexity")
	}
	return &analysis, nil
}

// FallbackQuestionAnalysis is the defaulted analysis used when the model
// output could not be parsed or the analyzer is unavailable.
func FallbackQuestionAnalysis() *QuestionAnalysis {
	return &QuestionAnalysis{
		Intent:     "general_inquiry",
		Complexity: "intermediate",
		KeyTerms:   []string{},
	}
}

// ParseComplianceAnalysis extracts the JSON compliance object from model
// output, falling back to treating the whole reply as the summary when no
// structured object is present.
func ParseComplianceAnalysis(raw string) *ComplianceAnalysis {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		var analysis ComplianceAnalysis
		if err := json.Unmarshal([]byte(raw[start:end+1]), &analysis); err == nil && analysis.Summary != "" {
			return &analysis
		}
	}
	return &ComplianceAnalysis{Summary: strings.TrimSpace(raw)}
}
