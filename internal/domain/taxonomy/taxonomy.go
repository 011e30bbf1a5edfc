// Package taxonomy holds the semantic keyword groups shared by the encoder and the keyword scorer.
package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic is a named cluster of related keywords.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is an immutable, ordered set of topics.
type Taxonomy struct {
	topics []Topic
	byName map[string]int
	byWord map[string][]int
}

// New validates topics and builds a Taxonomy.
// Keywords are lower-cased and de-duplicated within a topic; a keyword may belong to several topics.
func New(topics []Topic) (*Taxonomy, error) {
	if len(topics) == 0 {
		return nil, errors.New("taxonomy: at least one topic is required")
	}

	t := &Taxonomy{
		topics: make([]Topic, 0, len(topics)),
		byName: make(map[string]int, len(topics)),
		byWord: make(map[string][]int),
	}

	for i, in := range topics {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy: topic %d has no name", i)
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate topic %q", name)
		}

		seen := make(map[string]struct{}, len(in.Keywords))
		keywords := make([]string, 0, len(in.Keywords))
		for _, kw := range in.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("taxonomy: topic %q has no keywords", name)
		}

		idx := len(t.topics)
		t.topics = append(t.topics, Topic{Name: name, Keywords: keywords})
		t.byName[name] = idx
		for _, kw := range keywords {
			t.byWord[kw] = append(t.byWord[kw], idx)
		}
	}

	return t, nil
}

// MustNew calls New and panics on error.
func MustNew(topics []Topic) *Taxonomy {
	t, err := New(topics)
	if err != nil {
		panic(err)
	}
	return t
}

// file is the on-disk YAML layout.
type file struct {
	Topics []Topic `yaml:"topics"`
}

// Load reads a taxonomy from a YAML file of the form `topics: [{name, keywords}]`.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}

	t, err := New(f.Topics)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of topics.
func (t *Taxonomy) Len() int { return len(t.topics) }

// Topics returns the topics in declaration order. The slice must not be modified.
func (t *Taxonomy) Topics() []Topic { return t.topics }

// Topic returns the topic with the given name.
func (t *Taxonomy) Topic(name string) (Topic, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Topic{}, false
	}
	return t.topics[idx], true
}

// TopicsOf returns the names of all topics containing word.
func (t *Taxonomy) TopicsOf(word string) []string {
	idxs := t.byWord[word]
	if len(idxs) == 0 {
		return nil
	}
	names := make([]string, len(idxs))
	for i, idx := range idxs {
		names[i] = t.topics[idx].Name
	}
	return names
}
