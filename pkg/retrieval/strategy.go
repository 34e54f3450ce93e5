package retrieval

import "strings"

// Strategy enumerates the retrieval methods the engine can dispatch to.
type Strategy int

const (
	StrategySemantic Strategy = iota
	StrategyHybrid
	StrategyQueryExpansion
	StrategyMultiHop
	StrategyEnsemble
)

func (s Strategy) String() string {
	switch s {
	case StrategySemantic:
		return "semantic"
	case StrategyHybrid:
		return "hybrid"
	case StrategyQueryExpansion:
		return "query_expansion"
	case StrategyMultiHop:
		return "multi_hop"
	case StrategyEnsemble:
		return "ensemble"
	default:
		return "unknown"
	}
}

// Question complexity levels as produced by question analysis.
const (
	ComplexityBasic        = "basic"
	ComplexityIntermediate = "intermediate"
	ComplexityAdvanced     = "advanced"
)

var (
	multiHopCues = []string{"compare", "relationship", "connection", "across"}

	complianceKeywords = []string{
		"sox", "soc2", "iso27001", "compliance", "material weakness", "controls",
	}

	documentTypePhrases = []string{
		"access review", "financial reconciliation", "risk assessment",
	}
)

// StrategySelector picks a retrieval strategy from the question text and
// its analyzed complexity. Rules are checked in order; the first match wins.
type StrategySelector struct{}

func NewStrategySelector() *StrategySelector {
	return &StrategySelector{}
}

func (s *StrategySelector) Select(question, complexity string) Strategy {
	q := strings.ToLower(question)

	if complexity == ComplexityAdvanced && containsAny(q, multiHopCues) {
		return StrategyMultiHop
	}
	if containsAny(q, complianceKeywords) {
		return StrategyQueryExpansion
	}
	if containsAny(q, documentTypePhrases) {
		return StrategyHybrid
	}
	if complexity == ComplexityIntermediate {
		return StrategyEnsemble
	}
	return StrategySemantic
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
