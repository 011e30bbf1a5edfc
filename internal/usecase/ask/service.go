// Package ask answers free-text questions about a user's journal.
package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/domain"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/logger"
	"github.com/kailas-cloud/mindsync/internal/usecase/retrieval"
)

// Answer is the reply to one query.
type Answer struct {
	Response string
	// Context is the rendered context block; empty when nothing was retrieved.
	Context string
	Results []retrieval.Result
}

// EntriesUsed returns the number of entries the answer is grounded on.
func (a Answer) EntriesUsed() int { return len(a.Results) }

// Service retrieves context and delegates the reply to a Responder.
type Service struct {
	retriever Retriever
	responder Responder
	fallback  Responder
	topK      int
}

// New creates an ask service. The template responder answers when responder is nil.
func New(retriever Retriever, responder Responder) *Service {
	tmpl := NewTemplateResponder()
	if responder == nil {
		responder = tmpl
	}
	return &Service{retriever: retriever, responder: responder, fallback: tmpl}
}

// WithTopK sets how many entries ground the answer. 0 uses the retrieval default.
func (s *Service) WithTopK(topK int) *Service {
	if topK > 0 {
		s.topK = topK
	}
	return s
}

// Ask answers query from userID's journal.
func (s *Service) Ask(ctx context.Context, userID, query string, topK int) (Answer, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(query) == "" {
		return Answer{}, fmt.Errorf("userId and query are required: %w", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.topK
	}

	results, err := s.retriever.Retrieve(ctx, userID, query, topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	excerpts := retrieval.Excerpts(results)
	answer := Answer{Results: results}
	if len(results) > 0 {
		answer.Context = domjournal.BuildContext(excerpts)
	}

	log := logger.FromContext(ctx)
	reply, err := s.responder.Respond(ctx, query, excerpts)
	if err != nil {
		if s.responder == s.fallback {
			return Answer{}, fmt.Errorf("respond: %w", err)
		}
		log.Warn("responder failed, using template",
			zap.String("responder", s.responder.Name()),
			zap.Error(err),
		)
		reply, err = s.fallback.Respond(ctx, query, excerpts)
		if err != nil {
			return Answer{}, fmt.Errorf("respond: %w", err)
		}
	}
	answer.Response = reply

	log.Debug("answered query",
		zap.String("user_id", userID),
		zap.Int("entries_used", answer.EntriesUsed()),
	)
	return answer, nil
}
