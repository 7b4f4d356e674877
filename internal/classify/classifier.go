// Package classify implements rule-based document classification: a fixed
// category table scored by keyword hits, plus an independent tag table.
package classify

import (
	"fmt"
	"strings"

	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/soft"
)

// categoryRule binds a category name to its keyword list. Rules are held in
// a slice, not a map: iteration order is the tie-break, so it must be stable.
type categoryRule struct {
	Name     string
	Keywords []string
}

// tagRule binds a tag name to the keywords that trigger it.
type tagRule struct {
	Name     string
	Keywords []string
}

// The category table. A document scores one point per keyword found as a
// substring of the combined title+body text; "other" is the unscored
// fallback and never appears here.
var categoryRules = []categoryRule{
	{"contract", []string{"contract", "agreement", "terms", "conditions", "liability", "clause"}},
	{"invoice", []string{"invoice", "bill", "payment", "amount", "total", "due", "tax"}},
	{"report", []string{"report", "analysis", "summary", "findings", "conclusion", "data"}},
	{"correspondence", []string{"dear", "sincerely", "regards", "letter", "email", "message"}},
	{"legal", []string{"legal", "law", "court", "judge", "attorney", "lawsuit", "litigation"}},
	{"financial", []string{"financial", "budget", "revenue", "profit", "expense", "cost"}},
	{"technical", []string{"technical", "specification", "manual", "guide", "procedure"}},
	{"administrative", []string{"policy", "procedure", "memo", "notice", "announcement"}},
	{"hr", []string{"employee", "salary", "benefits", "vacation", "performance", "hiring"}},
	{"marketing", []string{"marketing", "campaign", "promotion", "advertising", "brand"}},
}

var tagRules = []tagRule{
	{"urgent", []string{"urgent", "asap", "immediate", "priority"}},
	{"confidential", []string{"confidential", "private", "restricted", "sensitive"}},
	{"draft", []string{"draft", "preliminary", "version", "v1", "v2"}},
	{"final", []string{"final", "approved", "completed", "signed"}},
	{"expired", []string{"expired", "overdue", "past due"}},
	{"pending", []string{"pending", "awaiting", "in progress"}},
}

// Classifier assigns a category and tags from document text. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a new Classifier instance
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Categories returns the closed category set, fallback included.
func (c *Classifier) Categories() []string {
	names := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		names = append(names, rule.Name)
	}
	return append(names, domain.CategoryOther)
}

// Classify assigns a category, confidence, and tags to a document. It never
// fails: any internal fault degrades to the default "other" result with the
// fault recorded on the returned value.
func (c *Classifier) Classify(text, title string) soft.Result[domain.ClassificationResult] {
	result, err := func() (result domain.ClassificationResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = domain.NewDomainErrorWithCause(domain.ErrCodeClassification,
					"classification failed", fmt.Errorf("%v", r))
			}
		}()
		return classify(text, title), nil
	}()
	if err != nil {
		return soft.Degraded(domain.DefaultClassification(), err)
	}
	return soft.Ok(result)
}

func classify(text, title string) domain.ClassificationResult {
	combined := strings.ToLower(title + " " + text)

	category, confidence := scoreCategories(combined)

	return domain.ClassificationResult{
		Category:   category,
		Confidence: confidence,
		Tags:       extractTags(combined),
	}
}

// scoreCategories picks the highest-scoring category. Ties resolve to the
// first category in table order; an all-zero score falls back to "other".
func scoreCategories(text string) (string, float64) {
	bestName := domain.CategoryOther
	bestScore := 0
	bestListLen := 0

	for _, rule := range categoryRules {
		score := 0
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestName = rule.Name
			bestScore = score
			bestListLen = len(rule.Keywords)
		}
	}

	if bestScore == 0 {
		return domain.CategoryOther, domain.MinClassificationConfidence
	}

	confidence := float64(bestScore) / float64(bestListLen)
	return bestName, domain.ClampConfidence(confidence)
}

// extractTags emits a tag when any of its keywords appears, capped at
// MaxTags in table order.
func extractTags(text string) []string {
	tags := []string{}
	for _, rule := range tagRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				tags = append(tags, rule.Name)
				break
			}
		}
		if len(tags) >= domain.MaxTags {
			break
		}
	}
	return tags
}
