// Package embedding implements the deterministic, topic-aware text encoder used for journal retrieval.
//
// The vector layout is fixed:
//
//	[0, 100)    per-keyword saturating frequency, first-seen keyword order
//	[100, 200)  per-topic aggregate frequency, taxonomy order
//	200         total token count / 100 (saturating)
//	201         distinct token count / 100
//	202         emotional polarity, (score/10 + 1) / 2
//	[220, dim)  |sin(hash(text) + i)| * 0.5
//
// The whole vector is L2-normalized.
package embedding

import (
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/kailas-cloud/mindsync/internal/domain/lexicon"
	"github.com/kailas-cloud/mindsync/internal/domain/taxonomy"
	"github.com/kailas-cloud/mindsync/internal/domain/vector"
)

// DefaultDim is the default embedding dimension.
const DefaultDim = 384

const (
	keywordSlots = 100
	topicOffset  = 100
	topicSlots   = 100
	lengthIdx    = 200
	diversityIdx = 201
	polarityIdx  = 202
	fillerStart  = 220

	// MinDim is the smallest dimension that still has room for one filler component.
	MinDim = fillerStart + 1
)

var (
	positiveWords = []string{
		"great", "good", "excellent", "amazing", "wonderful", "fantastic", "perfect", "proud", "happy", "excited",
	}
	negativeWords = []string{
		"bad", "terrible", "horrible", "awful", "sad", "angry", "frustrated", "disappointed",
	}
)

// Encoder converts text into a fixed-length, L2-normalized vector.
// It holds no mutable state and is safe for concurrent use.
type Encoder struct {
	analyzer *lexicon.Analyzer
	taxonomy *taxonomy.Taxonomy
	dim      int
}

// NewEncoder creates an Encoder. dim <= 0 selects DefaultDim.
func NewEncoder(analyzer *lexicon.Analyzer, tx *taxonomy.Taxonomy, dim int) (*Encoder, error) {
	if analyzer == nil || tx == nil {
		return nil, fmt.Errorf("encoder requires an analyzer and a taxonomy")
	}
	if dim <= 0 {
		dim = DefaultDim
	}
	if dim < MinDim {
		return nil, fmt.Errorf("embedding dimension %d is below minimum %d", dim, MinDim)
	}
	return &Encoder{analyzer: analyzer, taxonomy: tx, dim: dim}, nil
}

// Dim returns the vector length produced by Encode.
func (e *Encoder) Dim() int { return e.dim }

// Encode returns the embedding of text.
func (e *Encoder) Encode(text string) []float32 {
	return e.EncodeFrequencies(text, e.analyzer.Extract(text))
}

// EncodeFrequencies builds the embedding from pre-extracted frequencies.
// text is still needed for the hash-seeded filler segment.
// The empty string encodes to the zero vector.
func (e *Encoder) EncodeFrequencies(text string, freqs lexicon.Frequencies) []float32 {
	if text == "" {
		return make([]float32, e.dim)
	}
	v := make([]float64, e.dim)

	for i, w := range freqs.Words() {
		if i >= keywordSlots {
			break
		}
		v[i] = math.Min(float64(freqs.Count(w))/10, 1)
	}

	for i, topic := range e.taxonomy.Topics() {
		if i >= topicSlots {
			break
		}
		score := 0
		for _, kw := range topic.Keywords {
			score += freqs.Count(kw)
		}
		if score > 0 {
			v[topicOffset+i] = math.Min(float64(score)/5, 1)
		}
	}

	v[lengthIdx] = math.Min(float64(freqs.Total())/100, 1)
	v[diversityIdx] = float64(freqs.Len()) / 100
	v[polarityIdx] = (float64(Polarity(freqs))/10 + 1) / 2

	h := float64(Hash(text))
	for i := fillerStart; i < e.dim; i++ {
		v[i] = math.Abs(math.Sin(h+float64(i))) * 0.5
	}

	return vector.Normalize(v)
}

// Polarity counts positive words minus negative words.
func Polarity(freqs lexicon.Frequencies) int {
	score := 0
	for _, w := range positiveWords {
		score += freqs.Count(w)
	}
	for _, w := range negativeWords {
		score -= freqs.Count(w)
	}
	return score
}

// Hash is a 32-bit rolling hash (h = h*31 + c) over the UTF-16 code units of s.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(c)
	}
	return h
}
