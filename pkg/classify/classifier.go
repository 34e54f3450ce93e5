package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"audit-copilot-be/pkg/llm"
)

// Classification describes what kind of audit document a chunk came from
// and which compliance signals it carries.
type Classification struct {
	DocumentType       string   `json:"document_type"`
	Frameworks         []string `json:"compliance_frameworks"`
	RiskLevel          string   `json:"risk_level"`
	Confidence         float64  `json:"confidence"`
	SOXControls        []string `json:"sox_controls"`
	MaterialWeaknesses []string `json:"material_weaknesses"`
}

// Classifier labels document content with audit metadata.
type Classifier interface {
	Classify(ctx context.Context, content string) (*Classification, error)
}

const classifyPromptTemplate = `You are an audit document analyst. Classify the document excerpt below.

Respond with only a JSON object of this shape:
{
  "document_type": "access_review|financial_reconciliation|risk_assessment|soc2_report|other",
  "compliance_frameworks": ["SOX", "SOC2", "ISO27001"],
  "risk_level": "low|medium|high",
  "confidence": 0.0,
  "sox_controls": ["404.a"],
  "material_weaknesses": ["..."]
}

Document excerpt:
%s`

// LLMClassifier asks a completion model for a structured classification.
type LLMClassifier struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ Classifier = &LLMClassifier{}

func NewLLMClassifier(provider llm.LLMProvider, logger *log.Logger) *LLMClassifier {
	return &LLMClassifier{provider: provider, logger: logger}
}

func (c *LLMClassifier) Classify(ctx context.Context, content string) (*Classification, error) {
	excerpt := content
	if len(excerpt) > 4000 {
		excerpt = excerpt[:4000]
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, excerpt)
	result, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("classification call: %w", err)
	}

	classification, err := ParseClassification(result.Content)
	if err != nil {
		return nil, err
	}
	return classification, nil
}

// ParseClassification extracts the JSON object from free-form model output.
// It fails rather than guessing, so callers can tell a parsed classification
// from a defaulted one.
func ParseClassification(raw string) (*Classification, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in classification output")
	}

	var c Classification
	if err := json.Unmarshal([]byte(raw[start:end+1]), &c); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	if c.DocumentType == "" {
		return nil, fmt.Errorf("classification missing document_type")
	}
	return &c, nil
}

// FallbackClassification is the defaulted result used when the model output
// could not be parsed or the classifier is unavailable.
func FallbackClassification() *Classification {
	return &Classification{
		DocumentType: "other",
		Frameworks:   []string{},
		RiskLevel:    "medium",
		Confidence:   0,
	}
}
