package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStrategy(t *testing.T) {
	selector := NewStrategySelector()

	tests := []struct {
		name       string
		question   string
		complexity string
		want       Strategy
	}{
		{
			name:       "advanced comparison goes multi-hop",
			question:   "Compare the access controls across our Q3 and Q4 reviews",
			complexity: ComplexityAdvanced,
			want:       StrategyMultiHop,
		},
		{
			name:       "comparison cue without advanced complexity does not trigger multi-hop",
			question:   "Compare the findings in both reports",
			complexity: ComplexityBasic,
			want:       StrategySemantic,
		},
		{
			name:       "sox keyword triggers query expansion",
			question:   "What SOX 404 deficiencies were identified?",
			complexity: ComplexityBasic,
			want:       StrategyQueryExpansion,
		},
		{
			name:       "material weakness triggers query expansion",
			question:   "Is this a material weakness?",
			complexity: ComplexityBasic,
			want:       StrategyQueryExpansion,
		},
		{
			name:       "compliance keyword wins over document-type phrase",
			question:   "What compliance gaps came out of the risk assessment?",
			complexity: ComplexityBasic,
			want:       StrategyQueryExpansion,
		},
		{
			name:       "document type phrase triggers hybrid",
			question:   "Summarize the latest financial reconciliation",
			complexity: ComplexityBasic,
			want:       StrategyHybrid,
		},
		{
			name:       "intermediate complexity defaults to ensemble",
			question:   "How effective were the remediation efforts?",
			complexity: ComplexityIntermediate,
			want:       StrategyEnsemble,
		},
		{
			name:       "plain basic question defaults to semantic",
			question:   "Who prepared this report?",
			complexity: ComplexityBasic,
			want:       StrategySemantic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selector.Select(tt.question, tt.complexity)
			assert.Equalf(t, tt.want, got, "Select(%q, %s)", tt.question, tt.complexity)
		})
	}
}

func TestStrategyString(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     string
	}{
		{StrategySemantic, "semantic"},
		{StrategyHybrid, "hybrid"},
		{StrategyQueryExpansion, "query_expansion"},
		{StrategyMultiHop, "multi_hop"},
		{StrategyEnsemble, "ensemble"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.strategy.String())
	}
}
