// Package journal persists index records in a key-value store, one hash per entry
// and one sorted set per user. All keys of a user share a hash tag, so a user's
// records live in one cluster slot.
package journal

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/mindsync/internal/db"
	"github.com/kailas-cloud/mindsync/internal/domain"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// DefaultKeyPrefix namespaces all keys written by the repository.
const DefaultKeyPrefix = "mindsync:"

// store is the consumer interface for index records (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetIndexed(ctx context.Context, item db.IndexedHash) (bool, error)
	DelIndexed(ctx context.Context, setKey, member, key string) (bool, error)
	Members(ctx context.Context, setKey string) ([]string, error)
	Card(ctx context.Context, setKey string) (int, error)
	Purge(ctx context.Context, setKey, keyPrefix string) (int, error)
}

// Repo implements the record repositories of the indexing and retrieval use cases.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. An empty prefix selects DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Upsert writes a record, replacing any previous one for the same entry. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, rec *domjournal.Record) (bool, error) {
	item := db.IndexedHash{
		SetKey: r.setKey(rec.UserID()),
		Member: rec.EntryID(),
		Score:  float64(rec.IndexedAt().UnixMilli()),
		Key:    r.entryKey(rec.UserID(), rec.EntryID()),
		Fields: buildHashFields(rec),
	}
	created, err := r.store.HSetIndexed(ctx, item)
	if err != nil {
		return false, fmt.Errorf("hset %s: %w", item.Key, err)
	}
	return created, nil
}

// Get returns one record.
func (r *Repo) Get(ctx context.Context, userID, entryID string) (domjournal.Record, error) {
	key := r.entryKey(userID, entryID)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domjournal.Record{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domjournal.Record{}, domain.ErrEntryNotFound
	}
	return parseHashFields(userID, entryID, m), nil
}

// ListByUser returns every record of a user in first-index order.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domjournal.Record, error) {
	setKey := r.setKey(userID)
	ids, err := r.store.Members(ctx, setKey)
	if err != nil {
		return nil, fmt.Errorf("list members %s: %w", setKey, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.entryKey(userID, id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load records of %s: %w", userID, err)
	}

	records := make([]domjournal.Record, 0, len(ids))
	for i, m := range hashes {
		// deleted between the two reads
		if len(m) == 0 {
			continue
		}
		records = append(records, parseHashFields(userID, ids[i], m))
	}
	return records, nil
}

// Delete removes one record.
func (r *Repo) Delete(ctx context.Context, userID, entryID string) error {
	key := r.entryKey(userID, entryID)
	existed, err := r.store.DelIndexed(ctx, r.setKey(userID), entryID, key)
	if err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if !existed {
		return domain.ErrEntryNotFound
	}
	return nil
}

// Clear removes every record of a user and returns how many were removed.
func (r *Repo) Clear(ctx context.Context, userID string) (int, error) {
	// Purge deletes entry hashes it derives server-side and does not declare as script keys.
	// That is only cluster-safe because setKey and entryKeyPrefix share the {userID} hash tag.
	n, err := r.store.Purge(ctx, r.setKey(userID), r.entryKeyPrefix(userID))
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", userID, err)
	}
	return n, nil
}

// Count returns the number of records of a user.
func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	n, err := r.store.Card(ctx, r.setKey(userID))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", userID, err)
	}
	return n, nil
}

func (r *Repo) setKey(userID string) string {
	return fmt.Sprintf("%s{%s}:entries", r.prefix, userID)
}

func (r *Repo) entryKeyPrefix(userID string) string {
	return fmt.Sprintf("%s{%s}:entry:", r.prefix, userID)
}

func (r *Repo) entryKey(userID, entryID string) string {
	return r.entryKeyPrefix(userID) + entryID
}
