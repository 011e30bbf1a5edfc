package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/mindsync/internal/db"
)

// purgeScript deletes every KEYS[1] member hash (ARGV[1]..member) and the set itself.
// Member hashes must share the set's hash slot.
var purgeScript = rueidis.NewLuaScript(`
local members = redis.call('ZRANGE', KEYS[1], 0, -1)
for _, m in ipairs(members) do
  redis.call('DEL', ARGV[1] .. m)
end
redis.call('DEL', KEYS[1])
return #members
`)

// HSetIndexed replaces the hash and adds its set member in one MULTI/EXEC.
func (s *Store) HSetIndexed(ctx context.Context, item db.IndexedHash) (bool, error) {
	if len(item.Fields) == 0 {
		return false, &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: no fields", item.Key)}
	}

	names := make([]string, 0, len(item.Fields))
	for k := range item.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	hset := s.b().Hset().Key(item.Key).FieldValue()
	for _, k := range names {
		hset = hset.FieldValue(k, item.Fields[k])
	}

	replies, err := s.tx(ctx,
		s.b().Del().Key(item.Key).Build(),
		hset.Build(),
		s.b().Zadd().Key(item.SetKey).Nx().ScoreMember().ScoreMember(item.Score, item.Member).Build(),
	)
	if err != nil {
		return false, err
	}

	added, err := replies[2].AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpZAdd, Err: err}
	}
	return added > 0, nil
}

// DelIndexed removes the hash and its set member in one MULTI/EXEC.
func (s *Store) DelIndexed(ctx context.Context, setKey, member, key string) (bool, error) {
	replies, err := s.tx(ctx,
		s.b().Del().Key(key).Build(),
		s.b().Zrem().Key(setKey).Member(member).Build(),
	)
	if err != nil {
		return false, err
	}

	deleted, err := replies[0].AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpDel, Err: err}
	}
	return deleted > 0, nil
}

// Members lists set members in ascending score order.
func (s *Store) Members(ctx context.Context, setKey string) ([]string, error) {
	cmd := s.b().Zrange().Key(setKey).Min("0").Max("-1").Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}

// Card returns the number of set members.
func (s *Store) Card(ctx context.Context, setKey string) (int, error) {
	cmd := s.b().Zcard().Key(setKey).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCard, Err: err}
	}
	return int(n), nil
}

// Purge runs the purge script atomically on the server.
func (s *Store) Purge(ctx context.Context, setKey, keyPrefix string) (int, error) {
	n, err := purgeScript.Exec(ctx, s.client, []string{setKey}, []string{keyPrefix}).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpEval, Err: err}
	}
	return int(n), nil
}

// tx wraps cmds in MULTI/EXEC and returns the per-command EXEC replies.
func (s *Store) tx(ctx context.Context, cmds ...rueidis.Completed) ([]rueidis.RedisMessage, error) {
	batch := make([]rueidis.Completed, 0, len(cmds)+2)
	batch = append(batch, s.b().Multi().Build())
	batch = append(batch, cmds...)
	batch = append(batch, s.b().Exec().Build())

	results := s.client.DoMulti(ctx, batch...)
	for _, res := range results[:len(results)-1] {
		if err := res.Error(); err != nil {
			return nil, &db.Error{Op: db.OpMulti, Err: err}
		}
	}

	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, &db.Error{Op: db.OpMulti, Err: db.ErrTxAborted}
		}
		return nil, &db.Error{Op: db.OpMulti, Err: err}
	}
	if len(replies) != len(cmds) {
		return nil, &db.Error{Op: db.OpMulti, Err: fmt.Errorf("expected %d replies, got %d", len(cmds), len(replies))}
	}
	return replies, nil
}
