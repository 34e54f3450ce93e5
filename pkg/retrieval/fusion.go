package retrieval

import "sort"

// ScoreFusion merges semantic and keyword result lists into one ranking.
type ScoreFusion struct {
	SemanticWeight float64
	KeywordWeight  float64
}

func NewScoreFusion(semanticWeight, keywordWeight float64) *ScoreFusion {
	return &ScoreFusion{
		SemanticWeight: semanticWeight,
		KeywordWeight:  keywordWeight,
	}
}

// resultKey identifies a chunk across the two result lists. Chunks without a
// document id fall back to a content prefix.
func resultKey(r SearchResult) string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	text := []rune(r.ChunkText)
	if len(text) > 50 {
		text = text[:50]
	}
	return string(text)
}

// Combine produces one entry per distinct chunk with
// combined = semantic*wS + keyword*wK. A chunk missing from one list
// contributes 0 for that component. Output is sorted by combined score
// descending; ties keep first-seen input order (semantic list first).
func (f *ScoreFusion) Combine(semantic, keyword []SearchResult) []SearchResult {
	merged := make(map[string]*SearchResult)
	order := make([]string, 0, len(semantic)+len(keyword))

	for _, r := range semantic {
		key := resultKey(r)
		if _, ok := merged[key]; !ok {
			entry := r
			entry.SemanticScore = r.Score
			entry.KeywordScore = 0
			merged[key] = &entry
			order = append(order, key)
		}
	}

	for _, r := range keyword {
		key := resultKey(r)
		if existing, ok := merged[key]; ok {
			existing.KeywordScore = r.Score
			continue
		}
		entry := r
		entry.SemanticScore = 0
		entry.KeywordScore = r.Score
		merged[key] = &entry
		order = append(order, key)
	}

	combined := make([]SearchResult, 0, len(order))
	for _, key := range order {
		entry := merged[key]
		entry.CombinedScore = entry.SemanticScore*f.SemanticWeight + entry.KeywordScore*f.KeywordWeight
		entry.Score = entry.CombinedScore
		combined = append(combined, *entry)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CombinedScore > combined[j].CombinedScore
	})

	return combined
}
