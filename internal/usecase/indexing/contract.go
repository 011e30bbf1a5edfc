package indexing

import (
	"context"

	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// Repository defines the storage contract for index records.
type Repository interface {
	Upsert(ctx context.Context, rec *domjournal.Record) (created bool, err error)
	Get(ctx context.Context, userID, entryID string) (domjournal.Record, error)
	ListByUser(ctx context.Context, userID string) ([]domjournal.Record, error)
	Delete(ctx context.Context, userID, entryID string) error
	Clear(ctx context.Context, userID string) (int, error)
	Count(ctx context.Context, userID string) (int, error)
}

// Encoder turns entry text into an embedding.
type Encoder interface {
	Encode(text string) []float32
}
