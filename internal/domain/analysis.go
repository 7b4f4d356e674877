package domain

import "time"

// Language is the detected document language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// NLPAnalysis is the result of running the text analysis engine over
// extracted text. It is consumed immediately by the pipeline and never
// persisted on its own.
type NLPAnalysis struct {
	// Entities groups recognized surface strings by entity type. Strings
	// within a type are de-duplicated and kept in first-seen order.
	Entities map[string][]string
	Language Language
	// Sentiment maps positive/negative/neutral to a probability in [0,1].
	// The upstream model is not required to normalize the distribution.
	Sentiment map[string]float64
	// Keywords holds up to 10 lower-cased lemmas, most frequent first.
	Keywords []string
}

const (
	// MinClassificationConfidence is the floor for classifier confidence
	MinClassificationConfidence = 0.1
	// MaxClassificationConfidence is the ceiling for classifier confidence
	MaxClassificationConfidence = 1.0
	// MaxTags is the maximum number of tags a classification may carry
	MaxTags = 5
	// MaxKeywords is the maximum number of keywords an analysis may carry
	MaxKeywords = 10
)

// CategoryOther is the fallback category when no keyword scores
const CategoryOther = "other"

// ClassificationResult is the category and tag assignment for a document
type ClassificationResult struct {
	Category   string
	Confidence float64
	Tags       []string
}

// ClampConfidence bounds a raw confidence into the allowed range
func ClampConfidence(c float64) float64 {
	if c < MinClassificationConfidence {
		return MinClassificationConfidence
	}
	if c > MaxClassificationConfidence {
		return MaxClassificationConfidence
	}
	return c
}

// DefaultClassification is the safe fallback used when classification fails
func DefaultClassification() ClassificationResult {
	return ClassificationResult{
		Category:   CategoryOther,
		Confidence: MinClassificationConfidence,
		Tags:       []string{},
	}
}

// IndexedDocument is the vector-store representation of a processed
// document. Rows are immutable: reindexing inserts a new row rather than
// updating one in place, and retrieval reads the newest row per document.
type IndexedDocument struct {
	ID         string
	DocumentID string
	Title      string
	Content    string
	Summary    string
	Category   string
	Tags       []string
	CreatedAt  time.Time

	// Score is the similarity score attached by retrieval; zero on writes.
	Score float64
}

// ChatSource describes one retrieved document backing a chat answer
type ChatSource struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
	Relevance  float64 `json:"relevance"`
}

// ChatAnswer is the result of one retrieval-augmented chat turn. It is
// ephemeral: conversation ids are freshly generated per request and no
// cross-request memory is kept.
type ChatAnswer struct {
	Answer         string
	Sources        []ChatSource
	Confidence     float64
	ConversationID string
	Timestamp      time.Time
}
