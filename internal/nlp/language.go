package nlp

import (
	"strings"

	"github.com/sgd-labs/docintel/internal/domain"
)

// Language detection is a heuristic substring-overlap check against two
// small closed word lists. It is approximate by design: ties and
// English-majority both resolve to English, and accuracy beyond toy inputs
// is not a goal. Do not expect statistical behavior from it.
var (
	spanishIndicators = []string{"el", "la", "de", "en", "a", "con", "por", "para", "es", "está"}
	englishIndicators = []string{"the", "and", "of", "to", "a", "in", "for", "is", "on", "that"}
)

// DetectLanguage guesses whether text is Spanish or English.
func DetectLanguage(text string) domain.Language {
	lower := strings.ToLower(text)

	spanishCount := 0
	for _, word := range spanishIndicators {
		if strings.Contains(lower, word) {
			spanishCount++
		}
	}

	englishCount := 0
	for _, word := range englishIndicators {
		if strings.Contains(lower, word) {
			englishCount++
		}
	}

	if spanishCount > englishCount {
		return domain.LanguageSpanish
	}
	return domain.LanguageEnglish
}
