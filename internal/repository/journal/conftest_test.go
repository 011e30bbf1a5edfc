package journal

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/mindsync/internal/db"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hsetIndexedFn  func(ctx context.Context, item db.IndexedHash) (bool, error)
	delIndexedFn   func(ctx context.Context, setKey, member, key string) (bool, error)
	membersFn      func(ctx context.Context, setKey string) ([]string, error)
	cardFn         func(ctx context.Context, setKey string) (int, error)
	purgeFn        func(ctx context.Context, setKey, keyPrefix string) (int, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) HSetIndexed(ctx context.Context, item db.IndexedHash) (bool, error) {
	if m.hsetIndexedFn != nil {
		return m.hsetIndexedFn(ctx, item)
	}
	return true, nil
}

func (m *mockStore) DelIndexed(ctx context.Context, setKey, member, key string) (bool, error) {
	if m.delIndexedFn != nil {
		return m.delIndexedFn(ctx, setKey, member, key)
	}
	return true, nil
}

func (m *mockStore) Members(ctx context.Context, setKey string) ([]string, error) {
	if m.membersFn != nil {
		return m.membersFn(ctx, setKey)
	}
	return nil, nil
}

func (m *mockStore) Card(ctx context.Context, setKey string) (int, error) {
	if m.cardFn != nil {
		return m.cardFn(ctx, setKey)
	}
	return 0, nil
}

func (m *mockStore) Purge(ctx context.Context, setKey, keyPrefix string) (int, error) {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, setKey, keyPrefix)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "ms:"), ms
}

var testIndexedAt = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func testRecord(t *testing.T) domjournal.Record {
	t.Helper()
	meta := domjournal.Metadata{
		Date:  time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		Mood:  domjournal.MoodHappy,
		Tags:  []string{"gym", "morning"},
		Extra: map[string]string{"location": "downtown"},
	}
	return domjournal.Reconstruct("u1", "e1", "went to the gym", testVector(8), meta, testIndexedAt)
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.125
	}
	return vec
}
