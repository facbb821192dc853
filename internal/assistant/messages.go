package assistant

import (
	"slices"
	"strings"
)

type fallbackMessages struct {
	Unknown string
	Done    string
}

var fallbacks = map[string]fallbackMessages{
	"en": {
		Unknown: "I don’t have specific instructions in my offline knowledge base. Trying AI assistant...",
		Done:    "Those are the steps. If the problem continues or is severe, please seek emergency care.",
	},
	"ti": {
		Unknown: "ኣብ ካብ መስመር ወጻኢ ፍልጠት የብለይን። ኣሎ AI ሓጋዚ ንምርካብ...",
		Done:    "እቶም ስጉምትታት እዮም። ጸገም እንተቐጺሉ ወይ ከቢድ እንተኾይኑ ህጹጽ ክንክን ድለዩ።",
	},
}

func messagesFor(lang string) fallbackMessages {
	if m, ok := fallbacks[lang]; ok {
		return m
	}
	return fallbacks["en"]
}

var (
	positives = map[string][]string{
		"en": {"yes", "y", "ya", "yep", "sure"},
		"ti": {"እወ", "yes"},
		"am": {"አዎ", "yes"},
	}
	negatives = map[string][]string{
		"en": {"no", "n", "not", "nope"},
		"ti": {"ኣይ", "ኖኖ"},
		"am": {"አይ", "ኖኖ"},
	}
	// Describing the symptom as severe counts as a yes to "is it serious?".
	severeHints = []string{"heavy", "spurting", "ከባድ", "ዘይሳሕ"}
)

// IsPositive classifies a follow-up answer. Anything that is neither a
// recognised yes, a recognised no, nor a severity hint counts as no.
func IsPositive(answer, lang string) bool {
	a := strings.TrimSpace(answer)
	a = strings.ReplaceAll(a, "።", "")
	a = strings.ReplaceAll(a, ".", "")
	a = strings.ToLower(a)

	if matchesAny(a, positives[lang]) {
		return true
	}
	if matchesAny(a, negatives[lang]) {
		return false
	}
	for _, hint := range severeHints {
		if strings.Contains(a, hint) {
			return true
		}
	}
	return false
}

func matchesAny(a string, words []string) bool {
	if slices.Contains(words, a) {
		return true
	}
	for _, w := range words {
		if strings.HasPrefix(a, w) {
			return true
		}
	}
	return false
}
