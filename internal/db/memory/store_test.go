package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/mindsync/internal/db"
)

func put(t *testing.T, s *Store, member string, score float64, text string) bool {
	t.Helper()
	created, err := s.HSetIndexed(context.Background(), db.IndexedHash{
		SetKey: "set",
		Member: member,
		Score:  score,
		Key:    "h:" + member,
		Fields: map[string]string{"text": text},
	})
	if err != nil {
		t.Fatalf("HSetIndexed: %v", err)
	}
	return created
}

func TestHSetIndexed_CreateThenReplace(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if !put(t, s, "e1", 10, "first") {
		t.Error("expected created on first write")
	}
	if put(t, s, "e1", 99, "second") {
		t.Error("expected update on second write")
	}

	h, _ := s.HGetAll(ctx, "h:e1")
	if h["text"] != "second" {
		t.Errorf("text = %q, want second", h["text"])
	}
	if n, _ := s.Card(ctx, "set"); n != 1 {
		t.Errorf("Card = %d, want 1", n)
	}
}

func TestMembers_Order(t *testing.T) {
	s := NewStore()
	put(t, s, "c", 3, "")
	put(t, s, "a", 1, "")
	put(t, s, "b2", 2, "")
	put(t, s, "b1", 2, "")
	put(t, s, "a", 50, "") // existing member keeps its score

	got, err := s.Members(context.Background(), "set")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b1", "b2", "c"}
	if len(got) != len(want) {
		t.Fatalf("Members = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Members = %v, want %v", got, want)
		}
	}
}

func TestHGetAll_Missing(t *testing.T) {
	s := NewStore()
	h, err := s.HGetAll(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h) != 0 {
		t.Errorf("expected empty map, got %v", h)
	}
}

func TestHGetAll_ReturnsCopy(t *testing.T) {
	s := NewStore()
	put(t, s, "e1", 1, "orig")
	h, _ := s.HGetAll(context.Background(), "h:e1")
	h["text"] = "mutated"

	again, _ := s.HGetAll(context.Background(), "h:e1")
	if again["text"] != "orig" {
		t.Error("caller mutation leaked into store")
	}
}

func TestHGetAllMulti(t *testing.T) {
	s := NewStore()
	put(t, s, "e1", 1, "one")
	got, err := s.HGetAllMulti(context.Background(), []string{"h:e1", "h:missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0]["text"] != "one" || len(got[1]) != 0 {
		t.Errorf("HGetAllMulti = %v", got)
	}
}

func TestDelIndexed(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	put(t, s, "e1", 1, "one")
	put(t, s, "e2", 2, "two")

	ok, err := s.DelIndexed(ctx, "set", "e1", "h:e1")
	if err != nil || !ok {
		t.Fatalf("DelIndexed = %v, %v", ok, err)
	}
	if m, _ := s.HGetAll(ctx, "h:e1"); len(m) != 0 {
		t.Error("hash still exists")
	}
	if members, _ := s.Members(ctx, "set"); len(members) != 1 || members[0] != "e2" {
		t.Errorf("Members = %v", members)
	}

	ok, err = s.DelIndexed(ctx, "set", "e1", "h:e1")
	if err != nil || ok {
		t.Errorf("second DelIndexed = %v, %v, want false", ok, err)
	}
}

func TestPurge(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	put(t, s, "e1", 1, "one")
	put(t, s, "e2", 2, "two")
	_, _ = s.HSetIndexed(ctx, db.IndexedHash{
		SetKey: "other", Member: "x", Key: "h:x", Fields: map[string]string{"text": "keep"},
	})

	n, err := s.Purge(ctx, "set", "h:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Purge = %d, want 2", n)
	}
	if c, _ := s.Card(ctx, "set"); c != 0 {
		t.Errorf("Card after purge = %d", c)
	}
	if m, _ := s.HGetAll(ctx, "h:x"); m["text"] != "keep" {
		t.Error("purge removed a hash from another set")
	}

	if n, _ := s.Purge(ctx, "set", "h:"); n != 0 {
		t.Errorf("second Purge = %d, want 0", n)
	}
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Members(ctx, "set"); !errors.Is(err, context.Canceled) {
		t.Errorf("Members err = %v, want context.Canceled", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Ping err = %v, want context.Canceled", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i%26))
			_, _ = s.HSetIndexed(context.Background(), db.IndexedHash{
				SetKey: "set", Member: name, Score: float64(i), Key: "h:" + name,
				Fields: map[string]string{"text": name},
			})
		}(i)
	}
	wg.Wait()

	if n, _ := s.Card(context.Background(), "set"); n != 26 {
		t.Errorf("Card = %d, want 26", n)
	}
}
