package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode"
)

// Config tunes the retrieval engine.
type Config struct {
	Limit          int     // default result count per request
	ScoreThreshold float64 // minimum semantic similarity
	MaxHops        int     // multi-hop search depth
}

func DefaultConfig() Config {
	return Config{
		Limit:          5,
		ScoreThreshold: 0.25,
		MaxHops:        2,
	}
}

// Options carries the per-request knobs. A filter value may be a scalar
// (exact match) or a list ([]string / []interface{}, membership match).
type Options struct {
	Limit          int
	ScoreThreshold float64
	Filters        map[string]interface{}
}

// Engine dispatches a query to the retrieval method picked by the strategy
// selector. Hybrid lookups are served from the shared cache when possible.
type Engine struct {
	index    Index
	keyword  KeywordRetriever
	combined CombinedRetriever // optional, nil degrades ensemble to semantic
	cache    *CacheStore
	fusion   *ScoreFusion
	config   Config
	logger   *log.Logger
}

func NewEngine(index Index, keyword KeywordRetriever, combined CombinedRetriever, cache *CacheStore, fusion *ScoreFusion, config Config, logger *log.Logger) *Engine {
	if config.Limit <= 0 {
		config.Limit = DefaultConfig().Limit
	}
	if config.MaxHops <= 0 {
		config.MaxHops = DefaultConfig().MaxHops
	}
	return &Engine{
		index:    index,
		keyword:  keyword,
		combined: combined,
		cache:    cache,
		fusion:   fusion,
		config:   config,
		logger:   logger,
	}
}

// Retrieve runs the query through the given strategy and returns the ranked
// results plus the name of the method that actually served them.
func (e *Engine) Retrieve(ctx context.Context, query string, strategy Strategy, opts Options) ([]SearchResult, string, error) {
	if opts.Limit <= 0 {
		opts.Limit = e.config.Limit
	}
	if opts.ScoreThreshold <= 0 {
		opts.ScoreThreshold = e.config.ScoreThreshold
	}

	switch strategy {
	case StrategyHybrid:
		results, err := e.hybridSearch(ctx, query, opts)
		return results, StrategyHybrid.String(), err
	case StrategyQueryExpansion:
		results, err := e.queryExpansionSearch(ctx, query, opts)
		return results, StrategyQueryExpansion.String(), err
	case StrategyMultiHop:
		results, err := e.multiHopSearch(ctx, query, opts)
		return results, StrategyMultiHop.String(), err
	case StrategyEnsemble:
		return e.ensembleSearch(ctx, query, opts)
	case StrategySemantic:
		results, err := e.semanticSearch(ctx, query, opts)
		return results, StrategySemantic.String(), err
	default:
		return nil, "", fmt.Errorf("unknown retrieval strategy: %d", strategy)
	}
}

func (e *Engine) semanticSearch(ctx context.Context, query string, opts Options) ([]SearchResult, error) {
	results, err := e.index.SemanticSearch(ctx, query, opts.Limit, opts.ScoreThreshold, nil)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	return e.applyFilters(results, opts.Filters, opts.Limit), nil
}

// hybridSearch fuses semantic and keyword rankings. The filtered ranking is
// cached under the full request key (query, limit, filters), so the same
// query with different filters occupies distinct entries.
func (e *Engine) hybridSearch(ctx context.Context, query string, opts Options) ([]SearchResult, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(query, opts.Limit, opts.Filters); ok {
			e.logger.Printf("retrieval: cache hit for hybrid query")
			return cached, nil
		}
	}

	semantic, err := e.index.SemanticSearch(ctx, query, opts.Limit, opts.ScoreThreshold, nil)
	if err != nil {
		return nil, fmt.Errorf("hybrid semantic side: %w", err)
	}

	var keywordResults []SearchResult
	if e.keyword != nil {
		docs, kerr := e.keyword.Relevant(ctx, query)
		if kerr != nil {
			// Keyword side is best-effort; semantic results still rank alone.
			e.logger.Printf("retrieval: keyword side failed, continuing semantic-only: %v", kerr)
		} else {
			keywordResults = keywordDocsToResults(docs)
		}
	}

	fused := e.fusion.Combine(semantic, keywordResults)
	if len(fused) > opts.Limit {
		fused = fused[:opts.Limit]
	}
	final := e.applyFilters(fused, opts.Filters, opts.Limit)

	if e.cache != nil {
		e.cache.Set(query, opts.Limit, opts.Filters, final)
	}
	return final, nil
}

// keywordDocsToResults assigns rank-decayed scores to raw keyword hits.
func keywordDocsToResults(docs []KeywordDocument) []SearchResult {
	results := make([]SearchResult, 0, len(docs))
	for i, doc := range docs {
		id := ""
		if doc.Metadata != nil {
			if v, ok := doc.Metadata["document_id"].(string); ok {
				id = v
			}
		}
		results = append(results, SearchResult{
			DocumentID: id,
			ChunkText:  doc.Content,
			Score:      1.0 / float64(i+1),
			Metadata:   doc.Metadata,
		})
	}
	return results
}

// expansionVocab maps a trigger term to the domain phrases appended when the
// trigger appears in the query.
var expansionVocab = []struct {
	trigger string
	terms   []string
}{
	{"sox", []string{"sarbanes-oxley", "section 404", "internal controls over financial reporting"}},
	{"access", []string{"user access review", "privileged access", "segregation of duties"}},
	{"material weakness", []string{"significant deficiency", "control deficiency", "remediation plan"}},
	{"compliance", []string{"regulatory requirements", "audit findings", "control testing"}},
	{"risk", []string{"risk assessment", "inherent risk", "control risk"}},
	{"financial", []string{"financial reporting", "account reconciliation", "journal entries"}},
}

const maxQueryVariants = 5

// expandQuery returns the original query plus up to four vocabulary-expanded
// variants, in deterministic order.
func expandQuery(query string) []string {
	q := strings.ToLower(query)
	variants := []string{query}
	for _, entry := range expansionVocab {
		if !strings.Contains(q, entry.trigger) {
			continue
		}
		for _, term := range entry.terms {
			if len(variants) >= maxQueryVariants {
				return variants
			}
			variants = append(variants, query+" "+term)
		}
	}
	return variants
}

func (e *Engine) queryExpansionSearch(ctx context.Context, query string, opts Options) ([]SearchResult, error) {
	variants := expandQuery(query)

	perVariant := opts.Limit / len(variants)
	if perVariant < 1 {
		perVariant = 1
	}

	var collected []SearchResult
	seen := make(map[string]bool)
	for _, variant := range variants {
		results, err := e.index.SemanticSearch(ctx, variant, perVariant, opts.ScoreThreshold, nil)
		if err != nil {
			return nil, fmt.Errorf("query expansion variant search: %w", err)
		}
		for _, r := range results {
			fp := contentFingerprint(r.ChunkText)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			collected = append(collected, r)
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Score > collected[j].Score
	})
	if len(collected) > opts.Limit {
		collected = collected[:opts.Limit]
	}
	return e.applyFilters(collected, opts.Filters, opts.Limit), nil
}

// contentFingerprint dedupes near-identical chunks across query variants.
func contentFingerprint(text string) string {
	runes := []rune(text)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return string(runes)
}

// multiHopSearch chains searches: terms mined from each hop's top results
// extend the base query for the next hop. The result budget is split evenly
// across hops so one hop cannot crowd out the others.
func (e *Engine) multiHopSearch(ctx context.Context, query string, opts Options) ([]SearchResult, error) {
	var collected []SearchResult
	seen := make(map[string]bool)

	perHop := opts.Limit / e.config.MaxHops
	if perHop < 1 {
		perHop = 1
	}

	current := query
	for hop := 0; hop < e.config.MaxHops; hop++ {
		results, err := e.index.SemanticSearch(ctx, current, perHop, opts.ScoreThreshold, nil)
		if err != nil {
			return nil, fmt.Errorf("multi-hop search hop %d: %w", hop+1, err)
		}

		for _, r := range results {
			fp := contentFingerprint(r.ChunkText)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			collected = append(collected, r)
		}

		if hop == e.config.MaxHops-1 {
			break
		}
		terms := followUpTerms(results, query)
		if len(terms) == 0 {
			break
		}
		current = query + " " + strings.Join(terms, " ")
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Score > collected[j].Score
	})
	if len(collected) > opts.Limit {
		collected = collected[:opts.Limit]
	}
	return e.applyFilters(collected, opts.Filters, opts.Limit), nil
}

// followUpTerms mines up to three long alphabetic terms from the top three
// results that are not already part of the base query.
func followUpTerms(results []SearchResult, baseQuery string) []string {
	base := strings.ToLower(baseQuery)

	top := results
	if len(top) > 3 {
		top = top[:3]
	}

	var terms []string
	seen := make(map[string]bool)
	for _, r := range top {
		for _, word := range strings.Fields(strings.ToLower(r.ChunkText)) {
			word = strings.Trim(word, ".,;:()[]\"'")
			if len(word) <= 5 || !isAlphabetic(word) {
				continue
			}
			if strings.Contains(base, word) || seen[word] {
				continue
			}
			seen[word] = true
			terms = append(terms, word)
			if len(terms) == 3 {
				return terms
			}
		}
	}
	return terms
}

func isAlphabetic(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ensembleSearch delegates to the pre-combined retriever; when that retriever
// is missing or fails, the search degrades to plain semantic.
func (e *Engine) ensembleSearch(ctx context.Context, query string, opts Options) ([]SearchResult, string, error) {
	if e.combined == nil {
		results, err := e.semanticSearch(ctx, query, opts)
		return results, StrategySemantic.String(), err
	}

	results, err := e.combined.Retrieve(ctx, query, opts.Limit)
	if err != nil {
		e.logger.Printf("retrieval: ensemble retriever failed, degrading to semantic: %v", err)
		fallback, ferr := e.semanticSearch(ctx, query, opts)
		return fallback, StrategySemantic.String(), ferr
	}
	return e.applyFilters(results, opts.Filters, opts.Limit), StrategyEnsemble.String(), nil
}

// applyFilters keeps results whose metadata matches every filter. When fewer
// than three survive out of at least three candidates, the unfiltered top
// five are returned instead so the caller never works from a starved context.
// With fewer than three candidates to begin with, the filter holds as-is.
func (e *Engine) applyFilters(results []SearchResult, filters map[string]interface{}, limit int) []SearchResult {
	if len(results) > limit {
		results = results[:limit]
	}
	if len(filters) == 0 {
		return results
	}

	var filtered []SearchResult
	for _, r := range results {
		if MatchesFilters(r.Metadata, filters) {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) < 3 && len(results) >= 3 {
		top := results
		if len(top) > 5 {
			top = top[:5]
		}
		return top
	}
	return filtered
}

// MatchesFilters reports whether metadata satisfies every filter. List
// filter values match when the metadata value equals any element.
func MatchesFilters(metadata map[string]interface{}, filters map[string]interface{}) bool {
	for key, want := range filters {
		value, ok := metadata[key]
		if !ok {
			return false
		}
		if !filterValueMatches(value, want) {
			return false
		}
	}
	return true
}

func filterValueMatches(value, want interface{}) bool {
	switch allowed := want.(type) {
	case []string:
		for _, w := range allowed {
			if fmt.Sprintf("%v", value) == w {
				return true
			}
		}
		return false
	case []interface{}:
		for _, w := range allowed {
			if fmt.Sprintf("%v", value) == fmt.Sprintf("%v", w) {
				return true
			}
		}
		return false
	default:
		return fmt.Sprintf("%v", value) == fmt.Sprintf("%v", want)
	}
}
