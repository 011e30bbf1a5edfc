package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/domain"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/logger"
	"github.com/kailas-cloud/mindsync/internal/metrics"
)

// Service keeps the retrieval index in step with the entry store.
type Service struct {
	repo    Repository
	encoder Encoder
	now     func() time.Time
}

// New creates an indexing service.
func New(repo Repository, encoder Encoder) *Service {
	return &Service{repo: repo, encoder: encoder, now: time.Now}
}

// WithClock overrides the time source used for IndexedAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// IndexEntry encodes the entry and stores its record, replacing any previous one.
// Returns the stored record and whether it was created.
func (s *Service) IndexEntry(
	ctx context.Context, userID, entryID, text string, meta domjournal.Metadata,
) (domjournal.Record, bool, error) {
	rec, err := domjournal.New(userID, entryID, text, meta)
	if err != nil {
		return domjournal.Record{}, false, err
	}

	indexed := rec.WithEmbedding(s.encoder.Encode(text), s.now().UTC())
	created, err := s.repo.Upsert(ctx, &indexed)
	if err != nil {
		observe("index", err)
		return domjournal.Record{}, false, fmt.Errorf("upsert record: %w", err)
	}
	observe("index", nil)

	logger.FromContext(ctx).Debug("indexed entry",
		zap.String("user_id", userID),
		zap.String("entry_id", entryID),
		zap.Bool("created", created),
	)
	return indexed, created, nil
}

// Get returns the record of one entry.
func (s *Service) Get(ctx context.Context, userID, entryID string) (domjournal.Record, error) {
	if err := validateIDs(userID, entryID); err != nil {
		return domjournal.Record{}, err
	}
	rec, err := s.repo.Get(ctx, userID, entryID)
	if err != nil {
		return domjournal.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// DeleteEntry removes the record of one entry.
// A missing record yields domain.ErrEntryNotFound.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := validateIDs(userID, entryID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, entryID); err != nil {
		observe("delete", err)
		return fmt.Errorf("delete record: %w", err)
	}
	observe("delete", nil)
	return nil
}

// ClearUser removes every record of userID and returns how many were removed.
func (s *Service) ClearUser(ctx context.Context, userID string) (int, error) {
	if err := domjournal.ValidateID("user ID", userID); err != nil {
		return 0, err
	}
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		observe("clear", err)
		return 0, fmt.Errorf("clear records: %w", err)
	}
	observe("clear", nil)

	logger.FromContext(ctx).Info("cleared user index",
		zap.String("user_id", userID),
		zap.Int("removed", n),
	)
	return n, nil
}

// Reindex re-encodes every stored record of userID from its text, keeping metadata and rank order.
// Used after the encoder changes (dimension or taxonomy). Returns the number of records rewritten.
func (s *Service) Reindex(ctx context.Context, userID string) (int, error) {
	if err := domjournal.ValidateID("user ID", userID); err != nil {
		return 0, err
	}
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		observe("reindex", err)
		return 0, fmt.Errorf("list records: %w", err)
	}

	now := s.now().UTC()
	for i := range records {
		rec := records[i].WithEmbedding(s.encoder.Encode(records[i].Text()), now)
		if _, err := s.repo.Upsert(ctx, &rec); err != nil {
			observe("reindex", err)
			return i, fmt.Errorf("upsert record %s: %w", rec.EntryID(), err)
		}
	}
	observe("reindex", nil)

	logger.FromContext(ctx).Info("reindexed user entries",
		zap.String("user_id", userID),
		zap.Int("records", len(records)),
	)
	return len(records), nil
}

// Count returns the number of indexed entries of userID.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	if err := domjournal.ValidateID("user ID", userID); err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func validateIDs(userID, entryID string) error {
	if err := domjournal.ValidateID("user ID", userID); err != nil {
		return err
	}
	return domjournal.ValidateID("entry ID", entryID)
}

func observe(op string, err error) {
	status := "success"
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.IndexOperationsTotal.WithLabelValues(op, status).Inc()
}
