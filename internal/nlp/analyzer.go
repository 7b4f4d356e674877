// Package nlp implements the text analysis engine: language detection,
// named-entity extraction, keyword extraction, sentiment scoring, and
// abstractive summarization over extracted document text.
package nlp

import (
	"context"
	"sort"
	"unicode"

	"github.com/sgd-labs/docintel/internal/domain"
)

// maxAnalyzedChars bounds how much text is handed to the token model.
const maxAnalyzedChars = 1_000_000

// Token is one model token with its part-of-speech tag and lemma.
type Token struct {
	Text  string
	Tag   string
	Lemma string
}

// Entity is one recognized named span.
type Entity struct {
	Text  string
	Label string
}

// TokenModel is the language/entity model collaborator. Implementations are
// loaded once at startup and shared read-only across concurrent pipeline
// runs; Process must be safe for concurrent use.
type TokenModel interface {
	Process(text string) ([]Token, []Entity, error)
}

// Analyzer runs the full text analysis over extracted text. Models are
// registered per language; English is the fallback when a language has no
// model of its own.
type Analyzer struct {
	models map[domain.Language]TokenModel
}

// NewAnalyzer creates an Analyzer with per-language token models.
func NewAnalyzer(models map[domain.Language]TokenModel) *Analyzer {
	return &Analyzer{models: models}
}

// Analyze produces the NLP analysis for a text. A token model failure is
// fatal and surfaces as an analysis error; the caller aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*domain.NLPAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewAnalysisError(err)
	}

	language := DetectLanguage(text)

	model := a.models[language]
	if model == nil {
		model = a.models[domain.LanguageEnglish]
	}
	if model == nil {
		return nil, domain.NewAnalysisError(domain.ErrMissingRequiredField)
	}

	if len(text) > maxAnalyzedChars {
		text = text[:maxAnalyzedChars]
	}

	tokens, entities, err := model.Process(text)
	if err != nil {
		return nil, domain.NewAnalysisError(err)
	}

	return &domain.NLPAnalysis{
		Entities:  groupEntities(entities),
		Language:  language,
		Sentiment: analyzeSentiment(),
		Keywords:  extractKeywords(tokens, language),
	}, nil
}

// groupEntities buckets surface strings by entity type, de-duplicating
// exact matches within a type while preserving first-seen order.
func groupEntities(entities []Entity) map[string][]string {
	grouped := make(map[string][]string)
	seen := make(map[string]map[string]struct{})

	for _, ent := range entities {
		if ent.Text == "" {
			continue
		}
		if seen[ent.Label] == nil {
			seen[ent.Label] = make(map[string]struct{})
		}
		if _, dup := seen[ent.Label][ent.Text]; dup {
			continue
		}
		seen[ent.Label][ent.Text] = struct{}{}
		grouped[ent.Label] = append(grouped[ent.Label], ent.Text)
	}

	return grouped
}

// keywordTags are the parts of speech eligible for keyword extraction:
// nouns, proper nouns, and adjectives (Penn Treebank tags).
var keywordTags = map[string]struct{}{
	"NN": {}, "NNS": {}, "NNP": {}, "NNPS": {},
	"JJ": {}, "JJR": {}, "JJS": {},
}

// extractKeywords ranks eligible lemmas by frequency, breaking ties by
// first occurrence, and returns at most MaxKeywords of them.
func extractKeywords(tokens []Token, lang domain.Language) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, tok := range tokens {
		if _, eligible := keywordTags[tok.Tag]; !eligible {
			continue
		}
		if len(tok.Text) <= 2 || isPunctuation(tok.Text) {
			continue
		}
		lemma := tok.Lemma
		if isStopword(lemma, lang) {
			continue
		}
		if _, ok := counts[lemma]; !ok {
			firstSeen[lemma] = order
			order++
		}
		counts[lemma]++
	}

	lemmas := make([]string, 0, len(counts))
	for lemma := range counts {
		lemmas = append(lemmas, lemma)
	}
	sort.Slice(lemmas, func(i, j int) bool {
		if counts[lemmas[i]] != counts[lemmas[j]] {
			return counts[lemmas[i]] > counts[lemmas[j]]
		}
		return firstSeen[lemmas[i]] < firstSeen[lemmas[j]]
	})

	if len(lemmas) > domain.MaxKeywords {
		lemmas = lemmas[:domain.MaxKeywords]
	}
	return lemmas
}

func isPunctuation(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// analyzeSentiment returns the fixed placeholder distribution. A real
// sentiment model may replace this as long as the three-way probability
// mapping is preserved.
func analyzeSentiment() map[string]float64 {
	return map[string]float64{
		"positive": 0.5,
		"negative": 0.3,
		"neutral":  0.2,
	}
}
