package journal

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"time"

	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// Hash field names.
const (
	fieldText      = "text"
	fieldVector    = "vector"
	fieldDate      = "date"
	fieldMood      = "mood"
	fieldTags      = "tags"
	fieldExtra     = "extra"
	fieldIndexedAt = "indexed_at"
)

// buildHashFields converts a Record into a flat map[string]string for HSET.
func buildHashFields(rec *domjournal.Record) map[string]string {
	meta := rec.Metadata()
	m := map[string]string{
		fieldText:      rec.Text(),
		fieldVector:    vectorToBytes(rec.Embedding()),
		fieldMood:      string(meta.Mood),
		fieldIndexedAt: rec.IndexedAt().UTC().Format(time.RFC3339Nano),
	}
	if !meta.Date.IsZero() {
		m[fieldDate] = meta.Date.UTC().Format(time.RFC3339Nano)
	}
	if len(meta.Tags) > 0 {
		if b, err := json.Marshal(meta.Tags); err == nil {
			m[fieldTags] = string(b)
		}
	}
	if len(meta.Extra) > 0 {
		if b, err := json.Marshal(meta.Extra); err == nil {
			m[fieldExtra] = string(b)
		}
	}
	return m
}

// parseHashFields converts a flat hash back into a Record.
// Malformed optional fields are dropped rather than failing the read.
func parseHashFields(userID, entryID string, m map[string]string) domjournal.Record {
	var meta domjournal.Metadata
	meta.Mood = domjournal.Mood(m[fieldMood])
	if v := m[fieldDate]; v != "" {
		if d, err := time.Parse(time.RFC3339Nano, v); err == nil {
			meta.Date = d
		}
	}
	if v := m[fieldTags]; v != "" {
		_ = json.Unmarshal([]byte(v), &meta.Tags)
	}
	if v := m[fieldExtra]; v != "" {
		_ = json.Unmarshal([]byte(v), &meta.Extra)
	}

	var indexedAt time.Time
	if v := m[fieldIndexedAt]; v != "" {
		indexedAt, _ = time.Parse(time.RFC3339Nano, v)
	}

	return domjournal.Reconstruct(userID, entryID, m[fieldText], bytesToVector(m[fieldVector]), meta, indexedAt)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
