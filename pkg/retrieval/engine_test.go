package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	byQuery  map[string][]SearchResult
	fallback []SearchResult
	err      error
	calls    []string
	limits   []int
}

func (f *fakeIndex) SemanticSearch(ctx context.Context, query string, limit int, scoreThreshold float64, filters map[string]interface{}) ([]SearchResult, error) {
	f.calls = append(f.calls, query)
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	results := f.fallback
	if r, ok := f.byQuery[query]; ok {
		results = r
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type fakeKeyword struct {
	docs []KeywordDocument
	err  error
}

func (f *fakeKeyword) Relevant(ctx context.Context, query string) ([]KeywordDocument, error) {
	return f.docs, f.err
}

type fakeCombined struct {
	results []SearchResult
	err     error
}

func (f *fakeCombined) Retrieve(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return f.results, f.err
}

func testEngine(index Index, keyword KeywordRetriever, combined CombinedRetriever, cache *CacheStore) *Engine {
	logger := log.New(io.Discard, "", 0)
	return NewEngine(index, keyword, combined, cache, NewScoreFusion(0.7, 0.3), DefaultConfig(), logger)
}

func indexedResults(n int, docType string) []SearchResult {
	results := make([]SearchResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, SearchResult{
			DocumentID: "doc-" + string(rune('a'+i)),
			ChunkText:  "finding number " + string(rune('a'+i)),
			Score:      1.0 - float64(i)*0.1,
			Metadata:   map[string]interface{}{"document_type": docType},
		})
	}
	return results
}

func TestHybridServedFromCache(t *testing.T) {
	index := &fakeIndex{fallback: indexedResults(3, "access_review")}
	cache := NewCacheStore(10, time.Minute)
	engine := testEngine(index, &fakeKeyword{}, nil, cache)

	for i := 0; i < 2; i++ {
		results, method, err := engine.Retrieve(context.Background(), "access review findings", StrategyHybrid, Options{Limit: 5})
		require.NoError(t, err, "retrieve %d", i)
		assert.Equal(t, "hybrid", method)
		assert.Len(t, results, 3, "retrieve %d", i)
	}

	assert.Len(t, index.calls, 1, "second retrieve should be served from cache")
	stats := cache.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestHybridKeywordFailureDegrades(t *testing.T) {
	index := &fakeIndex{fallback: indexedResults(2, "soc2_report")}
	keyword := &fakeKeyword{err: errors.New("bm25 index offline")}
	engine := testEngine(index, keyword, nil, nil)

	results, _, err := engine.Retrieve(context.Background(), "soc2 exceptions", StrategyHybrid, Options{Limit: 5})
	require.NoError(t, err, "expected semantic-only degrade")
	assert.Len(t, results, 2)
}

func TestFilterRecallValve(t *testing.T) {
	results := indexedResults(6, "risk_assessment")
	results[0].Metadata["document_type"] = "access_review"
	results[1].Metadata["document_type"] = "access_review"
	index := &fakeIndex{fallback: results}
	engine := testEngine(index, nil, nil, nil)

	// Only two of six results match the filter: the valve opens and the
	// unfiltered top five come back instead.
	got, _, err := engine.Retrieve(context.Background(), "scope", StrategySemantic, Options{
		Limit:   6,
		Filters: map[string]interface{}{"document_type": "access_review"},
	})
	require.NoError(t, err)
	assert.Len(t, got, 5, "expected unfiltered top 5")

	// Three or more matches: the filter holds.
	results[2].Metadata["document_type"] = "access_review"
	got, _, err = engine.Retrieve(context.Background(), "scope", StrategySemantic, Options{
		Limit:   6,
		Filters: map[string]interface{}{"document_type": "access_review"},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, "access_review", r.Metadata["document_type"])
	}
}

func TestFilterHoldsOnSmallCandidateSet(t *testing.T) {
	// With fewer than three candidates overall, a filter that matches
	// nothing returns nothing; the recall valve must stay shut.
	index := &fakeIndex{fallback: indexedResults(2, "risk_assessment")}
	engine := testEngine(index, nil, nil, nil)

	got, _, err := engine.Retrieve(context.Background(), "scope", StrategySemantic, Options{
		Limit:   5,
		Filters: map[string]interface{}{"document_type": "access_review"},
	})
	require.NoError(t, err)
	assert.Empty(t, got, "non-matching filter over a small set must not leak unfiltered results")

	// A partial match over the same small set survives untouched.
	results := indexedResults(2, "risk_assessment")
	results[0].Metadata["document_type"] = "access_review"
	index.fallback = results
	got, _, err = engine.Retrieve(context.Background(), "scope", StrategySemantic, Options{
		Limit:   5,
		Filters: map[string]interface{}{"document_type": "access_review"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "access_review", got[0].Metadata["document_type"])
}

func TestFilterListMembership(t *testing.T) {
	results := indexedResults(4, "soc2_report")
	results[0].Metadata["compliance_framework"] = "SOX"
	results[1].Metadata["compliance_framework"] = "SOC2"
	results[2].Metadata["compliance_framework"] = "ISO27001"
	results[3].Metadata["compliance_framework"] = "SOX"
	index := &fakeIndex{fallback: results}
	engine := testEngine(index, nil, nil, nil)

	// A list filter keeps every result whose value is in the list.
	got, _, err := engine.Retrieve(context.Background(), "exceptions", StrategySemantic, Options{
		Limit:   5,
		Filters: map[string]interface{}{"compliance_framework": []string{"SOX", "SOC2"}},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Contains(t, []string{"SOX", "SOC2"}, r.Metadata["compliance_framework"])
	}

	assert.True(t, MatchesFilters(
		map[string]interface{}{"compliance_framework": "SOC2"},
		map[string]interface{}{"compliance_framework": []interface{}{"SOX", "SOC2"}},
	))
	assert.False(t, MatchesFilters(
		map[string]interface{}{"compliance_framework": "HIPAA"},
		map[string]interface{}{"compliance_framework": []string{"SOX", "SOC2"}},
	))
}

func TestQueryExpansionVariantsAndDedup(t *testing.T) {
	// Every variant returns the same chunk, so dedup must leave one result.
	index := &fakeIndex{fallback: []SearchResult{{
		DocumentID: "doc-1",
		ChunkText:  "internal controls over financial reporting were tested",
		Score:      0.9,
	}}}
	engine := testEngine(index, nil, nil, nil)

	results, method, err := engine.Retrieve(context.Background(), "sox deficiencies", StrategyQueryExpansion, Options{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "query_expansion", method)
	assert.Len(t, results, 1, "duplicates should collapse to one result")

	// "sox" trigger adds three vocabulary variants to the original query.
	require.Len(t, index.calls, 4)
	assert.Equal(t, "sox deficiencies", index.calls[0], "first variant should be the original query")
	for _, call := range index.calls[1:] {
		assert.Truef(t, strings.HasPrefix(call, "sox deficiencies "), "variant %q does not extend the original query", call)
	}
}

func TestExpandQueryCap(t *testing.T) {
	// A query hitting several vocabulary triggers still caps at five variants.
	variants := expandQuery("sox compliance risk in financial close")
	assert.Len(t, variants, 5)
}

func TestMultiHopFollowUpQuery(t *testing.T) {
	base := "connection between access findings"
	index := &fakeIndex{
		byQuery: map[string][]SearchResult{
			base: {{
				DocumentID: "doc-1",
				ChunkText:  "terminated employees retained privileged database credentials",
				Score:      0.9,
			}},
		},
		fallback: []SearchResult{{
			DocumentID: "doc-2",
			ChunkText:  "quarterly certification was skipped",
			Score:      0.8,
		}},
	}
	engine := testEngine(index, nil, nil, nil)

	results, _, err := engine.Retrieve(context.Background(), base, StrategyMultiHop, Options{Limit: 5})
	require.NoError(t, err)
	require.Len(t, index.calls, 2, "expected 2 hops")

	followUp := index.calls[1]
	assert.Truef(t, strings.HasPrefix(followUp, base+" "), "follow-up query %q does not extend base query", followUp)
	// Mined terms are long alphabetic words from hop-one results.
	assert.Truef(t, strings.Contains(followUp, "terminated") || strings.Contains(followUp, "privileged"),
		"follow-up query %q missing mined terms", followUp)

	require.Len(t, results, 2, "expected results from both hops")
	assert.Equal(t, "doc-1", results[0].DocumentID, "highest scored result should come first")
}

func TestMultiHopSplitsLimitAcrossHops(t *testing.T) {
	index := &fakeIndex{fallback: []SearchResult{{
		DocumentID: "doc-1",
		ChunkText:  "privileged accounts remained enabled after termination",
		Score:      0.9,
	}}}
	engine := testEngine(index, nil, nil, nil)

	_, _, err := engine.Retrieve(context.Background(), "q", StrategyMultiHop, Options{Limit: 6})
	require.NoError(t, err)

	// Two hops at the default depth each get half the budget.
	require.Len(t, index.limits, 2)
	assert.Equal(t, []int{3, 3}, index.limits)
}

func TestEnsembleDegradesToSemantic(t *testing.T) {
	index := &fakeIndex{fallback: indexedResults(2, "soc2_report")}

	// Failing combined retriever falls back to semantic.
	engine := testEngine(index, nil, &fakeCombined{err: errors.New("ensemble offline")}, nil)
	results, method, err := engine.Retrieve(context.Background(), "q", StrategyEnsemble, Options{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "semantic", method)
	assert.Len(t, results, 2)

	// Healthy combined retriever serves the ensemble.
	engine = testEngine(index, nil, &fakeCombined{results: indexedResults(3, "soc2_report")}, nil)
	_, method, err = engine.Retrieve(context.Background(), "q", StrategyEnsemble, Options{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "ensemble", method)
}
