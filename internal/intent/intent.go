package intent

import (
	"strings"

	"github.com/angeloszaimis/health-assistant/internal/knowledgebase"
)

const DefaultThreshold = 60

type Matcher struct {
	threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Match returns the intent for input, or false if nothing scores high enough.
func (m *Matcher) Match(input string, kb *knowledgebase.KnowledgeBase) (string, bool) {
	ui := strings.ToLower(input)

	for _, entry := range kb.Entries() {
		for _, kw := range entry.Keywords {
			if strings.Contains(ui, strings.ToLower(kw)) {
				return entry.Name, true
			}
		}
	}

	var (
		bestIntent string
		bestScore  = -1.0
	)
	for _, entry := range kb.Entries() {
		for _, kw := range entry.Keywords {
			if score := WRatio(ui, strings.ToLower(kw)); score > bestScore {
				bestScore = score
				bestIntent = entry.Name
			}
		}
	}

	if bestScore >= m.threshold {
		return bestIntent, true
	}
	return "", false
}
