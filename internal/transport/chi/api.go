package chi

import "time"

// ErrorCode is the machine-readable error code in error responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeEntryNotFound    ErrorCode = "entry_not_found"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeResponderError   ErrorCode = "responder_error"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// IndexEntryRequest is the body of PUT /users/{userId}/entries/{entryId}.
// Date accepts RFC 3339 or YYYY-MM-DD.
type IndexEntryRequest struct {
	Text  string            `json:"text"`
	Date  *string           `json:"date,omitempty"`
	Mood  *string           `json:"mood,omitempty"`
	Tags  []string          `json:"tags,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// EntryResponse describes an indexed entry. The vector itself is never returned.
type EntryResponse struct {
	UserID       string            `json:"user_id"`
	EntryID      string            `json:"entry_id"`
	Text         string            `json:"text"`
	Date         *time.Time        `json:"date,omitempty"`
	Mood         string            `json:"mood"`
	Tags         []string          `json:"tags,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
	EmbeddingDim int               `json:"embedding_dim"`
	IndexedAt    time.Time         `json:"indexed_at"`
}

// ClearResponse is the body of DELETE /users/{userId}/entries.
type ClearResponse struct {
	Removed int `json:"removed"`
}

// ReindexResponse is the body of POST /users/{userId}/entries/reindex.
type ReindexResponse struct {
	Reindexed int `json:"reindexed"`
}

// StatsResponse is the body of GET /users/{userId}/stats.
type StatsResponse struct {
	Entries int `json:"entries"`
}

// RetrieveParams are the query parameters of GET /users/{userId}/retrieve.
type RetrieveParams struct {
	Q       string
	TopK    *int
	Explain *bool
}

// RetrievedEntry is one ranked entry with both signals.
type RetrievedEntry struct {
	EntryID      string     `json:"entry_id"`
	Text         string     `json:"text"`
	Date         *time.Time `json:"date,omitempty"`
	Mood         string     `json:"mood"`
	Tags         []string   `json:"tags,omitempty"`
	Similarity   float64    `json:"similarity"`
	KeywordMatch float64    `json:"keyword_match"`
	Score        float64    `json:"score"`

	// Topics is set only when explain=true.
	Topics []TopicMatch `json:"topics,omitempty"`
}

// TopicMatch is one taxonomy topic shared by the query and the entry.
type TopicMatch struct {
	Topic     string  `json:"topic"`
	QueryHits int     `json:"query_hits"`
	EntryHits int     `json:"entry_hits"`
	Score     float64 `json:"score"`
}

// RetrieveResponse is the body of GET /users/{userId}/retrieve.
type RetrieveResponse struct {
	Results []RetrievedEntry `json:"results"`
	Count   int              `json:"count"`
}

// RAGQueryRequest is the body of POST /api/rag/query.
type RAGQueryRequest struct {
	UserID string `json:"userId"`
	Query  string `json:"query"`
	TopK   *int   `json:"topK,omitempty"`
}

// RAGQueryResponse is the body of a successful POST /api/rag/query.
// Context is null when nothing was retrieved.
type RAGQueryResponse struct {
	Success     bool    `json:"success"`
	Response    string  `json:"response"`
	Context     *string `json:"context"`
	EntriesUsed int     `json:"entriesUsed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}
