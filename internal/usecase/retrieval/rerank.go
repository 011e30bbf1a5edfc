package retrieval

import (
	"sort"

	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/domain/keyword"
)

// Result is one ranked entry.
type Result struct {
	EntryID      string
	Text         string
	Metadata     domjournal.Metadata
	Similarity   float64
	KeywordMatch float64
	Score        float64

	// Topics lists the taxonomy topics shared with the query.
	Topics []keyword.TopicMatch
}

// TopicNames returns the names of the shared topics, in taxonomy order.
func (r *Result) TopicNames() []string {
	names := make([]string, len(r.Topics))
	for i, t := range r.Topics {
		names[i] = t.Topic
	}
	return names
}

// Excerpts converts results, in order, for the context block.
func Excerpts(results []Result) []domjournal.Excerpt {
	out := make([]domjournal.Excerpt, len(results))
	for i, r := range results {
		out[i] = domjournal.Excerpt{Text: r.Text, Metadata: r.Metadata}
	}
	return out
}

// selectPool keeps the size most similar results. Ties keep fetch order.
// Results at or below floor are dropped; floor <= 0 keeps everything.
func selectPool(results []Result, size int, floor float64) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > size {
		results = results[:size]
	}
	if floor <= 0 {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		if r.Similarity > floor {
			kept = append(kept, r)
		}
	}
	return kept
}

// blend scores the pool with policy weights, sorts it and truncates to topK.
// Returns the weighting mode used.
func blend(pool []Result, p Policy, topK int) ([]Result, string) {
	maxKeyword := 0.0
	for _, r := range pool {
		maxKeyword = max(maxKeyword, r.KeywordMatch)
	}
	wk, ws, mode := p.Weights(maxKeyword)

	for i := range pool {
		pool[i].Score = pool[i].Similarity*ws + pool[i].KeywordMatch*wk
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
	if len(pool) > topK {
		pool = pool[:topK]
	}
	return pool, mode
}
