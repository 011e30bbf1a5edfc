package retrieval

import (
	"math"
	"testing"

	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// --- Policy ---

func TestPolicy_Weights(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		maxKeyword float64
		wk, ws     float64
		mode       string
	}{
		{0, 0.3, 0.7, ModeSemantic},
		{3, 0.3, 0.7, ModeSemantic},
		{3.5, 0.75, 0.25, ModeKeyword},
		{20, 0.75, 0.25, ModeKeyword},
	}
	for _, tc := range tests {
		wk, ws, mode := p.Weights(tc.maxKeyword)
		if wk != tc.wk || ws != tc.ws || mode != tc.mode {
			t.Errorf("Weights(%v) = %v/%v/%s, want %v/%v/%s",
				tc.maxKeyword, wk, ws, mode, tc.wk, tc.ws, tc.mode)
		}
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := DefaultPolicy()
	p.WeakSimilarityWeight = -1
	if err := p.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}

// --- Pool ---

func TestSelectPool(t *testing.T) {
	in := []Result{
		{EntryID: "a", Similarity: 0.1},
		{EntryID: "b", Similarity: 0.9},
		{EntryID: "c", Similarity: 0.5},
		{EntryID: "d", Similarity: 0.5},
		{EntryID: "e", Similarity: 0.7},
	}
	got := selectPool(in, 4, 0.15)
	want := []string{"b", "e", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].EntryID != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i].EntryID, want[i])
		}
	}
}

func TestSelectPool_FloorAfterSlice(t *testing.T) {
	in := []Result{
		{EntryID: "a", Similarity: 0.9},
		{EntryID: "b", Similarity: 0.15},
		{EntryID: "c", Similarity: 0.1},
	}
	got := selectPool(in, 2, 0.15)
	if len(got) != 1 || got[0].EntryID != "a" {
		t.Errorf("got %v, want [a]", ids(got))
	}
}

func TestSelectPool_NoFloor(t *testing.T) {
	in := []Result{{EntryID: "a", Similarity: 0}, {EntryID: "b", Similarity: -0.2}}
	if got := selectPool(in, 10, 0); len(got) != 2 {
		t.Errorf("got %v, want both", ids(got))
	}
}

func TestBlend(t *testing.T) {
	pool := []Result{
		{EntryID: "a", Similarity: 0.9, KeywordMatch: 0},
		{EntryID: "b", Similarity: 0.4, KeywordMatch: 6.5},
		{EntryID: "c", Similarity: 0.6, KeywordMatch: 6.5},
	}
	got, mode := blend(pool, DefaultPolicy(), 2)
	if mode != ModeKeyword {
		t.Errorf("mode = %s, want keyword", mode)
	}
	if len(got) != 2 || got[0].EntryID != "c" || got[1].EntryID != "b" {
		t.Errorf("got %v, want [c b]", ids(got))
	}
}

// margin blends p and q and returns score(q) - score(p).
func margin(p, q Result) float64 {
	got, _ := blend([]Result{p, q}, DefaultPolicy(), 2)
	scores := map[string]float64{}
	for _, r := range got {
		scores[r.EntryID] = r.Score
	}
	return scores["q"] - scores["p"]
}

func TestBlend_KeywordModeSwap(t *testing.T) {
	p := Result{EntryID: "p", Similarity: 0.9, KeywordMatch: 4}
	q := Result{EntryID: "q", Similarity: 0.5, KeywordMatch: 6}
	base := margin(p, q)
	if base <= 0 {
		t.Fatalf("q should lead before any swap, margin %v", base)
	}

	ps, qs := p, q
	ps.Similarity, qs.Similarity = q.Similarity, p.Similarity
	simSwap := margin(ps, qs)

	pk, qk := p, q
	pk.KeywordMatch, qk.KeywordMatch = q.KeywordMatch, p.KeywordMatch
	kwSwap := margin(pk, qk)

	if simSwap <= 0 {
		t.Errorf("swapping similarities changed the leader: margin %v", simSwap)
	}
	if kwSwap >= 0 {
		t.Errorf("swapping keyword scores should flip the order: margin %v", kwSwap)
	}
	if math.Abs(simSwap-base) >= math.Abs(kwSwap-base) {
		t.Errorf("similarity swap moved margin by %v, keyword swap by %v",
			math.Abs(simSwap-base), math.Abs(kwSwap-base))
	}
}

func TestBlend_StableTies(t *testing.T) {
	pool := []Result{
		{EntryID: "x", Similarity: 0.5},
		{EntryID: "y", Similarity: 0.5},
		{EntryID: "z", Similarity: 0.5},
	}
	got, mode := blend(pool, DefaultPolicy(), 3)
	if mode != ModeSemantic {
		t.Errorf("mode = %s, want semantic", mode)
	}
	if ids(got)[0] != "x" || ids(got)[1] != "y" || ids(got)[2] != "z" {
		t.Errorf("ties reordered: %v", ids(got))
	}
}

func TestExcerpts(t *testing.T) {
	results := []Result{
		{EntryID: "1", Text: "one", Metadata: domjournal.Metadata{Mood: domjournal.MoodCalm}},
		{EntryID: "2", Text: "two"},
	}
	got := Excerpts(results)
	if len(got) != 2 || got[0].Text != "one" || got[0].Metadata.Mood != domjournal.MoodCalm || got[1].Text != "two" {
		t.Errorf("Excerpts = %+v", got)
	}
}
