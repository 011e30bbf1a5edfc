package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/domain/embedding"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/domain/keyword"
	"github.com/kailas-cloud/mindsync/internal/domain/lexicon"
	"github.com/kailas-cloud/mindsync/internal/domain/vector"
	"github.com/kailas-cloud/mindsync/internal/logger"
	"github.com/kailas-cloud/mindsync/internal/metrics"
)

// Defaults for the candidate pool.
const (
	DefaultTopK            = 5
	DefaultMaxTopK         = 50
	DefaultPoolFactor      = 2
	DefaultSimilarityFloor = 0.15
)

// Service ranks a user's journal entries against a free-text query.
// It reads records fresh on every call and holds no per-request state.
type Service struct {
	repo     Repository
	analyzer *lexicon.Analyzer
	encoder  *embedding.Encoder
	scorer   *keyword.Scorer

	policy      Policy
	defaultTopK int
	maxTopK     int
	poolFactor  int
	floor       float64
}

// New creates a retrieval service with the default policy and pool settings.
func New(repo Repository, analyzer *lexicon.Analyzer, encoder *embedding.Encoder, scorer *keyword.Scorer) *Service {
	return &Service{
		repo:        repo,
		analyzer:    analyzer,
		encoder:     encoder,
		scorer:      scorer,
		policy:      DefaultPolicy(),
		defaultTopK: DefaultTopK,
		maxTopK:     DefaultMaxTopK,
		poolFactor:  DefaultPoolFactor,
		floor:       DefaultSimilarityFloor,
	}
}

// WithPolicy replaces the weighting policy.
func (s *Service) WithPolicy(p Policy) *Service {
	s.policy = p
	return s
}

// WithTopK configures the default and maximum result counts.
func (s *Service) WithTopK(defaultTopK, maxTopK int) *Service {
	if defaultTopK > 0 {
		s.defaultTopK = defaultTopK
	}
	if maxTopK > 0 {
		s.maxTopK = maxTopK
	}
	return s
}

// WithPool configures the candidate pool: topK*factor entries above floor.
// A floor of 0 disables the similarity cut-off.
func (s *Service) WithPool(factor int, floor float64) *Service {
	if factor > 0 {
		s.poolFactor = factor
	}
	if floor >= 0 {
		s.floor = floor
	}
	return s
}

// Retrieve returns up to topK entries of userID ranked for query.
// topK <= 0 selects the default. An empty index yields an empty result.
func (s *Service) Retrieve(ctx context.Context, userID, query string, topK int) ([]Result, error) {
	if err := domjournal.ValidateID("user ID", userID); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	topK = min(topK, s.maxTopK)

	start := time.Now()
	log := logger.FromContext(ctx)

	queryFreqs := s.analyzer.Extract(query)
	queryVec := s.encoder.EncodeFrequencies(query, queryFreqs)

	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	metrics.RetrievalRecordsScanned.Observe(float64(len(records)))
	if len(records) == 0 {
		log.Debug("no indexed entries", zap.String("user_id", userID))
		return []Result{}, nil
	}

	scored := make([]Result, len(records))
	mismatched := 0
	for i := range records {
		rec := &records[i]
		if len(rec.Embedding()) != len(queryVec) {
			mismatched++
		}
		scored[i] = Result{
			EntryID:    rec.EntryID(),
			Text:       rec.Text(),
			Metadata:   rec.Metadata(),
			Similarity: vector.Cosine(queryVec, rec.Embedding()),
		}
	}
	if mismatched > 0 {
		metrics.EmbeddingDimMismatchTotal.Add(float64(mismatched))
		log.Warn("stored embeddings with unexpected dimension",
			zap.String("user_id", userID),
			zap.Int("count", mismatched),
			zap.Int("want_dim", len(queryVec)),
		)
	}

	pool := selectPool(scored, topK*s.poolFactor, s.floor)
	for i := range pool {
		b := s.scorer.ExplainFrequencies(queryFreqs, s.analyzer.Extract(pool[i].Text))
		pool[i].KeywordMatch = b.Total
		pool[i].Topics = b.Topics
	}

	results, mode := blend(pool, s.policy, topK)
	metrics.RetrievalWeightingTotal.WithLabelValues(mode).Inc()
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())

	log.Debug("retrieved entries",
		zap.String("user_id", userID),
		zap.Int("records", len(records)),
		zap.Int("pool", len(pool)),
		zap.Int("results", len(results)),
		zap.String("weighting", mode),
	)
	for _, r := range results {
		log.Debug("ranked entry",
			zap.String("entry_id", r.EntryID),
			zap.Float64("similarity", r.Similarity),
			zap.Float64("keyword_match", r.KeywordMatch),
			zap.Float64("score", r.Score),
			zap.Strings("topics", r.TopicNames()),
		)
	}

	return results, nil
}
