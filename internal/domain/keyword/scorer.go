// Package keyword scores lexical and topical overlap between a query and a journal entry.
package keyword

import (
	"github.com/kailas-cloud/mindsync/internal/domain/lexicon"
	"github.com/kailas-cloud/mindsync/internal/domain/taxonomy"
)

const (
	directWeight = 2
	topicWeight  = 3
	// strongTopic is the per-topic contribution that turns on the topic bonus.
	strongTopic = 3
	topicBonus  = 1.5
)

// TopicMatch is one topic shared by query and candidate.
type TopicMatch struct {
	Topic     string
	QueryHits int
	EntryHits int
	Score     float64
}

// Breakdown explains how a keyword score was computed.
type Breakdown struct {
	Direct float64
	Topics []TopicMatch
	Strong bool
	Total  float64
}

// Scorer computes keyword match scores. Safe for concurrent use.
type Scorer struct {
	analyzer *lexicon.Analyzer
	taxonomy *taxonomy.Taxonomy
}

// NewScorer creates a Scorer.
func NewScorer(analyzer *lexicon.Analyzer, tx *taxonomy.Taxonomy) *Scorer {
	return &Scorer{analyzer: analyzer, taxonomy: tx}
}

// Score returns the keyword match score of candidate against query.
func (s *Scorer) Score(query, candidate string) float64 {
	return s.ScoreFrequencies(s.analyzer.Extract(query), s.analyzer.Extract(candidate))
}

// ScoreFrequencies scores pre-extracted frequencies. Use it to avoid
// re-tokenizing the query for every candidate.
func (s *Scorer) ScoreFrequencies(q, c lexicon.Frequencies) float64 {
	return s.explain(q, c, false).Total
}

// Explain returns the per-topic breakdown of the score.
func (s *Scorer) Explain(query, candidate string) Breakdown {
	return s.ExplainFrequencies(s.analyzer.Extract(query), s.analyzer.Extract(candidate))
}

// ExplainFrequencies is Explain over pre-extracted frequencies.
func (s *Scorer) ExplainFrequencies(q, c lexicon.Frequencies) Breakdown {
	return s.explain(q, c, true)
}

func (s *Scorer) explain(q, c lexicon.Frequencies, detail bool) Breakdown {
	var b Breakdown

	q.Each(func(word string, qn int) {
		if cn := c.Count(word); cn > 0 {
			b.Direct += float64(min(qn, cn) * directWeight)
		}
	})

	qTopics, cTopics := s.topicHits(q), s.topicHits(c)

	var group float64
	for _, topic := range s.taxonomy.Topics() {
		qHits, cHits := qTopics[topic.Name], cTopics[topic.Name]
		if qHits == 0 || cHits == 0 {
			continue
		}
		contribution := min(qHits, cHits) * topicWeight
		group += float64(contribution)
		if contribution >= strongTopic {
			b.Strong = true
		}
		if detail {
			b.Topics = append(b.Topics, TopicMatch{
				Topic:     topic.Name,
				QueryHits: qHits,
				EntryHits: cHits,
				Score:     float64(contribution),
			})
		}
	}

	if b.Strong {
		group *= topicBonus
	}
	b.Total = b.Direct + group
	return b
}

// topicHits counts, per topic, the distinct topic keywords present in f.
func (s *Scorer) topicHits(f lexicon.Frequencies) map[string]int {
	counts := make(map[string]int)
	for _, w := range f.Words() {
		for _, name := range s.taxonomy.TopicsOf(w) {
			counts[name]++
		}
	}
	return counts
}
