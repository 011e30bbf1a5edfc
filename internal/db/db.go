package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	IndexedHashStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides read access to hashes.
// A missing key reads as an empty map, not an error.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// IndexedHash is a hash plus its membership in an ordered set.
// Member is stored under Key; the set keeps the write order of first insertion.
type IndexedHash struct {
	SetKey string
	Member string
	Score  float64
	Key    string
	Fields map[string]string
}

// IndexedHashStore keeps a set of hashes addressable through a sorted-set index.
// Every write touches the hash and the set atomically.
type IndexedHashStore interface {
	// HSetIndexed replaces the hash fields and adds Member to the set if absent.
	// Reports whether the member is new. An existing member keeps its original score.
	HSetIndexed(ctx context.Context, item IndexedHash) (created bool, err error)
	// DelIndexed removes the hash and its set member. Reports whether the hash existed.
	DelIndexed(ctx context.Context, setKey, member, key string) (bool, error)
	// Members lists set members in ascending score order.
	Members(ctx context.Context, setKey string) ([]string, error)
	// Card returns the number of set members.
	Card(ctx context.Context, setKey string) (int, error)
	// Purge deletes keyPrefix+member for every member, then the set, in one atomic step.
	// Returns the number of members removed.
	Purge(ctx context.Context, setKey, keyPrefix string) (int, error)
}
