package news

import (
	"regexp"
	"strings"
	"sync"
)

// Matcher decides whether a keyword occurs in normalized text.
type Matcher struct {
	wordBoundary bool

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewMatcher returns a Matcher. With wordBoundary false every keyword is a
// plain substring, so "ai" matches "said".
func NewMatcher(wordBoundary bool) *Matcher {
	return &Matcher{wordBoundary: wordBoundary, cache: map[string]*regexp.Regexp{}}
}

// Contains reports whether keyword occurs in text. text must already be normalized.
func (m *Matcher) Contains(text, keyword string) bool {
	k := strings.ToLower(keyword)
	if strings.TrimSpace(k) == "" {
		return false
	}
	if m == nil || !m.wordBoundary {
		return strings.Contains(text, k)
	}

	// Phrases and long tokens stay substring matches; short tokens need word boundaries.
	if strings.Contains(k, " ") || len(k) > 3 {
		return strings.Contains(text, k)
	}
	return m.boundaryRe(k).MatchString(text)
}

// Any reports whether any keyword occurs in text.
func (m *Matcher) Any(text string, keywords []string) bool {
	for _, k := range keywords {
		if m.Contains(text, k) {
			return true
		}
	}
	return false
}

func (m *Matcher) boundaryRe(k string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()
	re, ok := m.cache[k]
	if !ok {
		re = regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(k) + `(\W|$)`)
		m.cache[k] = re
	}
	return re
}
