package classify

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"audit-copilot-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{Content: f.response}, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Result, error) {
	return f.Chat(ctx, nil, opts...)
}

func TestClassifyParsesModelOutput(t *testing.T) {
	provider := &fakeProvider{response: `Here is the classification:
{
  "document_type": "access_review",
  "compliance_frameworks": ["SOX"],
  "risk_level": "high",
  "confidence": 0.87,
  "sox_controls": ["404.a"],
  "material_weaknesses": ["stale privileged accounts"]
}`}

	classifier := NewLLMClassifier(provider, log.New(io.Discard, "", 0))
	got, err := classifier.Classify(context.Background(), "Q3 access review content")
	if err != nil {
		t.Fatal(err)
	}
	if got.DocumentType != "access_review" || got.RiskLevel != "high" {
		t.Errorf("unexpected classification: %+v", got)
	}
	if len(got.MaterialWeaknesses) != 1 {
		t.Errorf("material weaknesses not parsed: %+v", got.MaterialWeaknesses)
	}
}

func TestClassifyPropagatesProviderError(t *testing.T) {
	classifier := NewLLMClassifier(&fakeProvider{err: errors.New("model offline")}, log.New(io.Discard, "", 0))
	if _, err := classifier.Classify(context.Background(), "content"); err == nil {
		t.Fatal("expected error from provider")
	}
}

func TestParseClassificationStrictVsFallback(t *testing.T) {
	if _, err := ParseClassification("the model rambled with no json"); err == nil {
		t.Error("expected parse failure for non-JSON output")
	}
	if _, err := ParseClassification(`{"risk_level": "low"}`); err == nil {
		t.Error("expected parse failure for missing document_type")
	}

	fallback := FallbackClassification()
	if fallback.DocumentType != "other" || fallback.Confidence != 0 {
		t.Errorf("unexpected fallback: %+v", fallback)
	}
}
