package router

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sandevgo/tuskswarm/internal/core"
	"gopkg.in/yaml.v3"
)

//go:embed routing.yaml
var defaultRouting []byte

type Keywords struct {
	SQL       []string `yaml:"sql"`
	Documents []string `yaml:"documents"`
}

// LoadKeywords reads keyword lists from path, or the built-in lists when path is empty.
func LoadKeywords(path string) (Keywords, error) {
	data := defaultRouting
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Keywords{}, fmt.Errorf("failed to read routing file: %w", err)
		}
	}

	var k Keywords
	if err := yaml.Unmarshal(data, &k); err != nil {
		return Keywords{}, fmt.Errorf("failed to parse routing file: %w", err)
	}
	if len(k.SQL) == 0 {
		return Keywords{}, fmt.Errorf("routing file %q defines no sql keywords", path)
	}
	k.SQL = normalize(k.SQL)
	k.Documents = normalize(k.Documents)
	return k, nil
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// KeywordClassifier is a case-insensitive substring test against fixed lists.
type KeywordClassifier struct {
	keywords Keywords
}

func NewKeywordClassifier(k Keywords) *KeywordClassifier {
	return &KeywordClassifier{keywords: k}
}

func (c *KeywordClassifier) Classify(_ context.Context, question string) (core.Domain, error) {
	q := strings.ToLower(question)
	if containsAny(q, c.keywords.SQL) {
		return core.DomainSQL, nil
	}
	if containsAny(q, c.keywords.Documents) {
		return core.DomainDocuments, nil
	}
	return core.DomainUnknown, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// memo remembers the verdict for the most recent question so one dispatch
// does not classify the same text once per agent.
type memo struct {
	inner core.Classifier

	mu       sync.Mutex
	question string
	domain   core.Domain
	valid    bool
}

func Memo(c core.Classifier) core.Classifier {
	return &memo{inner: c}
}

func (m *memo) Classify(ctx context.Context, question string) (core.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.question == question {
		return m.domain, nil
	}

	d, err := m.inner.Classify(ctx, question)
	if err != nil {
		return d, err
	}
	m.question, m.domain, m.valid = question, d, true
	return d, nil
}
