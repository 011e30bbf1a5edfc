// Package journal holds the index record aggregate and the context block built from retrieved entries.
package journal

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/mindsync/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

const (
	// MaxIDLen bounds user and entry identifiers.
	MaxIDLen = 256
	// MaxTextSize is the maximum entry text size in bytes.
	MaxTextSize = 163840 // 160KB
)

// Metadata is the descriptive data copied from the journal entry.
type Metadata struct {
	Date  time.Time
	Mood  Mood
	Tags  []string
	Extra map[string]string
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	out := Metadata{Date: m.Date, Mood: m.Mood}
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.Extra != nil {
		out.Extra = make(map[string]string, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Record is the derived, searchable representation of one journal entry (immutable value object).
// There is exactly one Record per (user, entry).
type Record struct {
	userID    string
	entryID   string
	text      string
	embedding []float32
	metadata  Metadata
	indexedAt time.Time
}

// New validates and creates a Record without an embedding.
// Text may be empty; an empty mood defaults to neutral.
func New(userID, entryID, text string, meta Metadata) (Record, error) {
	if err := ValidateID("user ID", userID); err != nil {
		return Record{}, err
	}
	if err := ValidateID("entry ID", entryID); err != nil {
		return Record{}, err
	}
	if len(text) > MaxTextSize {
		return Record{}, fmt.Errorf("text too large (max %d bytes): %w", MaxTextSize, domain.ErrInvalidInput)
	}

	meta = meta.Clone()
	if meta.Mood == "" {
		meta.Mood = MoodNeutral
	}
	if !meta.Mood.Valid() {
		return Record{}, fmt.Errorf("unknown mood %q: %w", meta.Mood, domain.ErrInvalidInput)
	}

	return Record{userID: userID, entryID: entryID, text: text, metadata: meta}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	userID, entryID, text string, embedding []float32, meta Metadata, indexedAt time.Time,
) Record {
	return Record{
		userID: userID, entryID: entryID, text: text,
		embedding: embedding, metadata: meta, indexedAt: indexedAt,
	}
}

// ValidateID checks a user or entry identifier.
func ValidateID(what, id string) error {
	if id == "" {
		return fmt.Errorf("%s is required: %w", what, domain.ErrInvalidInput)
	}
	if len(id) > MaxIDLen {
		return fmt.Errorf("%s too long (max %d): %w", what, MaxIDLen, domain.ErrInvalidInput)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("%s must match %s: %w", what, idRegex.String(), domain.ErrInvalidInput)
	}
	return nil
}

// UserID returns the owning user.
func (r *Record) UserID() string { return r.userID }

// EntryID returns the source entry identifier.
func (r *Record) EntryID() string { return r.entryID }

// Text returns the entry text.
func (r *Record) Text() string { return r.text }

// Embedding returns the stored vector.
func (r *Record) Embedding() []float32 { return r.embedding }

// Metadata returns the entry metadata.
func (r *Record) Metadata() Metadata { return r.metadata }

// IndexedAt returns when the record was last written.
func (r *Record) IndexedAt() time.Time { return r.indexedAt }

// WithEmbedding returns a copy carrying the given vector and index time.
func (r *Record) WithEmbedding(v []float32, indexedAt time.Time) Record {
	return Record{
		userID: r.userID, entryID: r.entryID, text: r.text, metadata: r.metadata,
		embedding: v, indexedAt: indexedAt,
	}
}
