package nlp

import (
	"strings"

	prose "github.com/jdkato/prose/v2"
	"github.com/sgd-labs/docintel/internal/domain"
)

// ProseModel backs TokenModel with the prose NLP pipeline: tokenization,
// POS tagging, and named-entity recognition. The model data loads on first
// document; instances are stateless and safe for concurrent use.
//
// prose ships an English model only, so Spanish text currently runs through
// the same pipeline. Entity quality degrades on Spanish input; keyword
// extraction still works because the Spanish stop list is applied downstream.
type ProseModel struct{}

// NewProseModel creates a new ProseModel instance
func NewProseModel() *ProseModel {
	return &ProseModel{}
}

// Process tokenizes and tags text and recognizes named entities.
func (m *ProseModel) Process(text string) ([]Token, []Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, nil, err
	}

	docTokens := doc.Tokens()
	tokens := make([]Token, 0, len(docTokens))
	for _, tok := range docTokens {
		tokens = append(tokens, Token{
			Text: tok.Text,
			Tag:  tok.Tag,
			// prose has no lemmatizer; the lower-cased surface form is
			// the closest stable stand-in.
			Lemma: strings.ToLower(tok.Text),
		})
	}

	docEntities := doc.Entities()
	entities := make([]Entity, 0, len(docEntities))
	for _, ent := range docEntities {
		entities = append(entities, Entity{
			Text:  strings.TrimSpace(ent.Text),
			Label: ent.Label,
		})
	}

	return tokens, entities, nil
}

// DefaultModels returns the process-scoped model registry used at startup.
func DefaultModels() map[domain.Language]TokenModel {
	model := NewProseModel()
	return map[domain.Language]TokenModel{
		domain.LanguageEnglish: model,
		domain.LanguageSpanish: model,
	}
}
