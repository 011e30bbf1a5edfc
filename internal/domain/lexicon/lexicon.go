// Package lexicon turns raw journal text into normalized keyword frequencies.
package lexicon

import "strings"

// MinTokenLen is the shortest token kept by the analyzer.
const MinTokenLen = 3

// Analyzer tokenizes text and drops stopwords. Safe for concurrent use (read-only after New).
type Analyzer struct {
	stopwords map[string]struct{}
}

// New creates an Analyzer with the given stopword set. Words are lower-cased.
func New(stopwords []string) *Analyzer {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Analyzer{stopwords: set}
}

// Default returns an Analyzer using DefaultStopwords.
func Default() *Analyzer {
	return New(DefaultStopwords())
}

// IsStopword reports whether w is filtered by the analyzer.
func (a *Analyzer) IsStopword(w string) bool {
	_, ok := a.stopwords[w]
	return ok
}

// Extract lower-cases text, splits it on runs of non-word characters
// and counts every token longer than two characters that is not a stopword.
func (a *Analyzer) Extract(text string) Frequencies {
	f := Frequencies{counts: make(map[string]int)}
	if text == "" {
		return f
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordChar(r)
	})
	for _, tok := range tokens {
		if len(tok) < MinTokenLen || a.IsStopword(tok) {
			continue
		}
		f.add(tok, 1)
	}
	return f
}

// isWordChar matches the ASCII word class [A-Za-z0-9_].
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_'
}

// Frequencies maps a normalized token to its occurrence count.
// Tokens are also kept in first-seen order so iteration is deterministic.
// The zero value is an empty map.
type Frequencies struct {
	counts map[string]int
	order  []string
	total  int
}

func (f *Frequencies) add(word string, n int) {
	if _, ok := f.counts[word]; !ok {
		f.order = append(f.order, word)
	}
	f.counts[word] += n
	f.total += n
}

// Count returns the frequency of word (0 if absent).
func (f Frequencies) Count(word string) int { return f.counts[word] }

// Has reports whether word occurs at least once.
func (f Frequencies) Has(word string) bool { return f.counts[word] > 0 }

// Len returns the number of distinct tokens.
func (f Frequencies) Len() int { return len(f.order) }

// Total returns the number of tokens counted, repeats included.
func (f Frequencies) Total() int { return f.total }

// Words returns the distinct tokens in first-seen order. The slice must not be modified.
func (f Frequencies) Words() []string { return f.order }

// Each calls fn for every distinct token in first-seen order.
func (f Frequencies) Each(fn func(word string, count int)) {
	for _, w := range f.order {
		fn(w, f.counts[w])
	}
}
