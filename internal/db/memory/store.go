// Package memory is an in-process db.Store for local runs and tests.
// Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/mindsync/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type member struct {
	name  string
	score float64
}

// Store keeps hashes and sorted sets in maps guarded by one RWMutex,
// which makes every operation atomic.
type Store struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	sets   map[string][]member
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string][]member),
	}
}

// Ping always succeeds unless ctx is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// HGetAll returns a copy of the hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHash(s.hashes[key]), nil
}

// HGetAllMulti returns copies of the hashes in key order.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = copyHash(s.hashes[k])
	}
	return out, nil
}

// HSetIndexed replaces the hash and adds the member if absent.
func (s *Store) HSetIndexed(ctx context.Context, item db.IndexedHash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &db.Error{Op: db.OpMulti, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hashes[item.Key] = copyHash(item.Fields)

	set := s.sets[item.SetKey]
	if indexOf(set, item.Member) >= 0 {
		return false, nil
	}
	s.sets[item.SetKey] = insertSorted(set, member{name: item.Member, score: item.Score})
	return true, nil
}

// DelIndexed removes the hash and the member.
func (s *Store) DelIndexed(ctx context.Context, setKey, name, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &db.Error{Op: db.OpMulti, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.hashes[key]
	delete(s.hashes, key)

	set := s.sets[setKey]
	if i := indexOf(set, name); i >= 0 {
		set = append(set[:i], set[i+1:]...)
		if len(set) == 0 {
			delete(s.sets, setKey)
		} else {
			s.sets[setKey] = set
		}
	}
	return existed, nil
}

// Members lists members in ascending score order, ties broken by name.
func (s *Store) Members(ctx context.Context, setKey string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.sets[setKey]
	out := make([]string, len(set))
	for i, m := range set {
		out[i] = m.name
	}
	return out, nil
}

// Card returns the number of members.
func (s *Store) Card(ctx context.Context, setKey string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &db.Error{Op: db.OpZCard, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[setKey]), nil
}

// Purge deletes every member hash and the set.
func (s *Store) Purge(ctx context.Context, setKey, keyPrefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &db.Error{Op: db.OpEval, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.sets[setKey]
	for _, m := range set {
		delete(s.hashes, keyPrefix+m.name)
	}
	delete(s.sets, setKey)
	return len(set), nil
}

func indexOf(set []member, name string) int {
	for i, m := range set {
		if m.name == name {
			return i
		}
	}
	return -1
}

// insertSorted keeps sorted-set order: score, then name.
func insertSorted(set []member, m member) []member {
	i := sort.Search(len(set), func(i int) bool {
		if set[i].score != m.score {
			return set[i].score > m.score
		}
		return strings.Compare(set[i].name, m.name) > 0
	})
	set = append(set, member{})
	copy(set[i+1:], set[i:])
	set[i] = m
	return set
}

func copyHash(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
