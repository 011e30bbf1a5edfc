package ask

import (
	"context"

	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/usecase/retrieval"
)

// Retriever ranks a user's entries for a query.
type Retriever interface {
	Retrieve(ctx context.Context, userID, query string, topK int) ([]retrieval.Result, error)
}

// Responder writes the reply to a query grounded on the retrieved excerpts.
type Responder interface {
	Name() string
	Respond(ctx context.Context, query string, excerpts []domjournal.Excerpt) (string, error)
}
