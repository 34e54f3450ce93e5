package workflow

import (
	"context"
	"fmt"
	"strings"

	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/llm"
)

const compliancePromptTemplate = `You are a compliance analyst reviewing audit evidence.

Question: %s

Document classifications:
%s

Evidence excerpts:
%s

Respond with only a JSON object of this shape:
{
  "summary": "...",
  "frameworks": ["SOX"],
  "key_risks": ["..."]
}`

// ComplianceAnalyzer assesses the retrieved evidence against the frameworks
// the classifications surfaced.
type ComplianceAnalyzer struct {
	provider llm.LLMProvider
}

func NewComplianceAnalyzer(provider llm.LLMProvider) *ComplianceAnalyzer {
	return &ComplianceAnalyzer{provider: provider}
}

func (a *ComplianceAnalyzer) Analyze(ctx context.Context, question string, retrieved *RetrievedContext, classifications map[string]*classify.Classification) (*ComplianceAnalysis, *llm.Usage, error) {
	var classLines []string
	for id, c := range classifications {
		classLines = append(classLines, fmt.Sprintf("- %s: %s (risk: %s, frameworks: %s)",
			id, c.DocumentType, c.RiskLevel, strings.Join(c.Frameworks, ", ")))
	}
	if len(classLines) == 0 {
		classLines = append(classLines, "- none available")
	}

	var excerpts []string
	if retrieved != nil {
		for i, r := range retrieved.Results {
			if i == 3 {
				break
			}
			excerpts = append(excerpts, "- "+r.ChunkText)
		}
	}
	if len(excerpts) == 0 {
		excerpts = append(excerpts, "- no evidence retrieved")
	}

	prompt := fmt.Sprintf(compliancePromptTemplate, question,
		strings.Join(classLines, "\n"), strings.Join(excerpts, "\n"))

	result, err := a.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return nil, nil, fmt.Errorf("compliance analysis call: %w", err)
	}

	return ParseComplianceAnalysis(result.Content), result.Usage, nil
}
