package retrieval

import (
	"context"

	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// Repository loads a user's index records, in a stable order.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domjournal.Record, error)
}
