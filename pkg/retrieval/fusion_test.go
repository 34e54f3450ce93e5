package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineWeightedScores(t *testing.T) {
	fusion := NewScoreFusion(0.5, 0.5)

	semantic := []SearchResult{{DocumentID: "doc-1", ChunkText: "a", Score: 1.0}}
	keyword := []SearchResult{{DocumentID: "doc-1", ChunkText: "a", Score: 0.5}}

	combined := fusion.Combine(semantic, keyword)
	require.Len(t, combined, 1, "both sides describe the same chunk")
	assert.InDelta(t, 0.75, combined[0].CombinedScore, 1e-9)
	assert.Equal(t, 1.0, combined[0].SemanticScore)
	assert.Equal(t, 0.5, combined[0].KeywordScore)
}

func TestCombineMissingSideScoresZero(t *testing.T) {
	fusion := NewScoreFusion(0.7, 0.3)

	semantic := []SearchResult{{DocumentID: "sem-only", Score: 0.8}}
	keyword := []SearchResult{{DocumentID: "key-only", Score: 0.6}}

	combined := fusion.Combine(semantic, keyword)
	require.Len(t, combined, 2)

	for _, r := range combined {
		switch r.DocumentID {
		case "sem-only":
			assert.InDelta(t, 0.56, r.CombinedScore, 1e-9)
		case "key-only":
			assert.InDelta(t, 0.18, r.CombinedScore, 1e-9)
		}
	}
}

func TestCombineTieBreakPreservesInputOrder(t *testing.T) {
	fusion := NewScoreFusion(1.0, 0.0)

	semantic := []SearchResult{
		{DocumentID: "first", Score: 0.5},
		{DocumentID: "second", Score: 0.5},
		{DocumentID: "third", Score: 0.5},
	}

	combined := fusion.Combine(semantic, nil)
	require.Len(t, combined, 3)
	for i, id := range []string{"first", "second", "third"} {
		assert.Equalf(t, id, combined[i].DocumentID, "position %d", i)
	}
}

func TestCombineContentPrefixIdentity(t *testing.T) {
	fusion := NewScoreFusion(0.5, 0.5)

	longText := "This chunk has no document id so its first fifty characters identify it across both result lists."
	semantic := []SearchResult{{ChunkText: longText, Score: 0.9}}
	keyword := []SearchResult{{ChunkText: longText, Score: 0.4}}

	combined := fusion.Combine(semantic, keyword)
	require.Len(t, combined, 1, "identical chunks should merge")
	assert.InDelta(t, 0.65, combined[0].CombinedScore, 1e-9)
}
