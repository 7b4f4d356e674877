package nlp

import "github.com/sgd-labs/docintel/internal/domain"

// Stop-word sets used by keyword extraction. Kept deliberately small: the
// filter only needs to drop the function words that survive the POS filter.
var englishStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "may": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "way": {}, "who": {}, "did": {},
	"get": {}, "use": {}, "this": {}, "that": {}, "with": {}, "have": {},
	"from": {}, "they": {}, "will": {}, "been": {}, "were": {}, "said": {},
	"each": {}, "which": {}, "their": {}, "other": {}, "about": {},
	"there": {}, "these": {}, "would": {}, "could": {}, "should": {},
	"more": {}, "some": {}, "such": {}, "than": {}, "them": {}, "then": {},
	"also": {}, "into": {}, "only": {}, "over": {}, "same": {}, "very": {},
}

var spanishStopwords = map[string]struct{}{
	"los": {}, "las": {}, "del": {}, "una": {}, "uno": {}, "unos": {},
	"unas": {}, "con": {}, "por": {}, "para": {}, "que": {}, "como": {},
	"más": {}, "pero": {}, "sus": {}, "les": {}, "nos": {}, "este": {},
	"esta": {}, "estos": {}, "estas": {}, "ese": {}, "esa": {}, "esos": {},
	"esas": {}, "muy": {}, "sin": {}, "sobre": {}, "también": {},
	"hasta": {}, "hay": {}, "donde": {}, "quien": {}, "desde": {},
	"todo": {}, "todos": {}, "toda": {}, "todas": {}, "otro": {},
	"otra": {}, "otros": {}, "otras": {}, "entre": {}, "cuando": {},
	"está": {}, "están": {}, "ser": {}, "son": {}, "fue": {}, "era": {},
}

// isStopword checks a lower-cased token against the language's stop list.
func isStopword(word string, lang domain.Language) bool {
	if lang == domain.LanguageSpanish {
		_, ok := spanishStopwords[word]
		return ok
	}
	_, ok := englishStopwords[word]
	return ok
}
