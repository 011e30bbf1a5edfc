package retrieval

import "fmt"

// Weighting modes reported by Policy.Weights.
const (
	ModeKeyword  = "keyword"
	ModeSemantic = "semantic"
)

// Policy decides how keyword and similarity scores are blended.
// When the best keyword score in the pool exceeds KeywordThreshold,
// the keyword-heavy weights apply; otherwise the similarity-heavy ones.
type Policy struct {
	KeywordThreshold float64

	StrongKeywordWeight    float64
	StrongSimilarityWeight float64

	WeakKeywordWeight    float64
	WeakSimilarityWeight float64
}

// DefaultPolicy returns the reference weighting: 0.75/0.25 above a keyword score of 3, else 0.3/0.7.
func DefaultPolicy() Policy {
	return Policy{
		KeywordThreshold:       3,
		StrongKeywordWeight:    0.75,
		StrongSimilarityWeight: 0.25,
		WeakKeywordWeight:      0.3,
		WeakSimilarityWeight:   0.7,
	}
}

// Validate checks that all weights are non-negative.
func (p Policy) Validate() error {
	weights := []struct {
		name string
		w    float64
	}{
		{"strong keyword", p.StrongKeywordWeight},
		{"strong similarity", p.StrongSimilarityWeight},
		{"weak keyword", p.WeakKeywordWeight},
		{"weak similarity", p.WeakSimilarityWeight},
	}
	for _, w := range weights {
		if w.w < 0 {
			return fmt.Errorf("%s weight must be >= 0, got %v", w.name, w.w)
		}
	}
	return nil
}

// Weights returns (keyword, similarity) weights and the mode for the given pool maximum.
func (p Policy) Weights(maxKeyword float64) (wk, ws float64, mode string) {
	if maxKeyword > p.KeywordThreshold {
		return p.StrongKeywordWeight, p.StrongSimilarityWeight, ModeKeyword
	}
	return p.WeakKeywordWeight, p.WeakSimilarityWeight, ModeSemantic
}
