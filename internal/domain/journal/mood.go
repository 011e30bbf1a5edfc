package journal

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/mindsync/internal/domain"
)

// Mood is the writer's self-reported mood for an entry.
type Mood string

// Mood constants.
const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodCalm    Mood = "calm"
	MoodExcited Mood = "excited"
	MoodNeutral Mood = "neutral"
)

var moods = map[Mood]bool{
	MoodHappy: true, MoodSad: true, MoodAnxious: true,
	MoodCalm: true, MoodExcited: true, MoodNeutral: true,
}

// ParseMood parses a mood case-insensitively. An empty string yields MoodNeutral.
func ParseMood(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MoodNeutral, nil
	}
	m := Mood(s)
	if !moods[m] {
		return "", fmt.Errorf("unknown mood %q: %w", s, domain.ErrInvalidInput)
	}
	return m, nil
}

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool { return moods[m] }

func (m Mood) String() string { return string(m) }
