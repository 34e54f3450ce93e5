package workflow

import (
	"context"
	"fmt"
	"strings"

	"audit-copilot-be/pkg/llm"
)

const synthesisSystemPrompt = `You are an audit and compliance assistant. Answer the user's question
using only the evidence, compliance analysis and regulatory guidance provided.
Cite the documents you relied on and say plainly when the evidence is insufficient.`

// ResponseSynthesizer turns everything the earlier stages gathered into the
// final answer, grounded by recent conversation history.
type ResponseSynthesizer struct {
	provider llm.LLMProvider
}

func NewResponseSynthesizer(provider llm.LLMProvider) *ResponseSynthesizer {
	return &ResponseSynthesizer{provider: provider}
}

func (s *ResponseSynthesizer) Synthesize(ctx context.Context, state *RunState, history []ConversationTurn) (string, *llm.Usage, error) {
	messages := []llm.Message{{Role: "system", Content: synthesisSystemPrompt}}

	// Only the most recent three turns ground the answer.
	recent := history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	for _, turn := range recent {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, llm.Message{Role: "user", Content: s.buildPrompt(state)})

	result, err := s.provider.Chat(ctx, messages, llm.WithTemperature(0.3))
	if err != nil {
		return "", nil, fmt.Errorf("response synthesis call: %w", err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return "", result.Usage, fmt.Errorf("response synthesis returned empty output")
	}
	return result.Content, result.Usage, nil
}

func (s *ResponseSynthesizer) buildPrompt(state *RunState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\n", state.Question)

	b.WriteString("Evidence:\n")
	if state.Retrieved != nil && len(state.Retrieved.Results) > 0 {
		for _, r := range state.Retrieved.Results {
			name := r.DocumentID
			if r.Metadata != nil {
				if v, ok := r.Metadata["display_name"].(string); ok && v != "" {
					name = v
				}
			}
			fmt.Fprintf(&b, "- [%s] %s\n", name, r.ChunkText)
		}
	} else {
		b.WriteString("- none retrieved\n")
	}

	if state.Compliance != nil && state.Compliance.Summary != "" {
		fmt.Fprintf(&b, "\nCompliance analysis: %s\n", state.Compliance.Summary)
		if len(state.Compliance.KeyRisks) > 0 {
			fmt.Fprintf(&b, "Key risks: %s\n", strings.Join(state.Compliance.KeyRisks, "; "))
		}
	}

	if state.Regulatory != nil {
		if state.Regulatory.Success && len(state.Regulatory.Insights) > 0 {
			fmt.Fprintf(&b, "\nRegulatory guidance: %s\n", strings.Join(state.Regulatory.Insights, " "))
		} else if state.Regulatory.FallbackMessage != "" {
			fmt.Fprintf(&b, "\nRegulatory guidance: %s\n", state.Regulatory.FallbackMessage)
		}
	}

	return b.String()
}
