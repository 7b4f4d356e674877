package nlp

import (
	"context"
	"strings"

	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/soft"
)

const (
	// SummaryFailureMessage is returned verbatim when summarization fails.
	SummaryFailureMessage = "Summary generation failed"

	// DefaultSummaryMaxTokens caps summary length when the caller passes 0.
	DefaultSummaryMaxTokens = 200

	// maxSummaryInputChars bounds how much text is sent to the model.
	maxSummaryInputChars = 3000

	summaryTemperature = 0.3

	summarySystemPrompt = "You are a helpful assistant that creates concise summaries of documents. " +
		"Summarize the key points in a clear, professional manner."
)

// CompletionClient is the generative model collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}

// Summarizer generates abstractive summaries. Summarization is best-effort:
// failures degrade to a fixed failure marker instead of propagating.
type Summarizer struct {
	client CompletionClient
}

// NewSummarizer creates a new Summarizer instance
func NewSummarizer(client CompletionClient) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize produces a summary of at most maxTokens output tokens. Empty
// input returns an empty summary without invoking the model.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxTokens int) soft.Result[string] {
	if strings.TrimSpace(text) == "" {
		return soft.Ok("")
	}

	if maxTokens <= 0 {
		maxTokens = DefaultSummaryMaxTokens
	}

	if len(text) > maxSummaryInputChars {
		text = text[:maxSummaryInputChars] + "..."
	}

	userPrompt := "Please summarize the following text:\n\n" + text

	summary, err := s.client.Complete(ctx, summarySystemPrompt, userPrompt, maxTokens, summaryTemperature)
	if err != nil {
		fault := domain.NewDomainErrorWithCause(domain.ErrCodeSummarization, "summary generation failed", err)
		return soft.Degraded(SummaryFailureMessage, fault)
	}

	return soft.Ok(strings.TrimSpace(summary))
}
