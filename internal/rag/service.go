// Package rag implements retrieval-augmented chat over the document index:
// embedding-based retrieval, context assembly, and grounded answer
// generation.
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/soft"
)

const (
	// DefaultContextLimit is the number of documents retrieved when the
	// caller does not ask for a specific amount.
	DefaultContextLimit = 5

	// MaxContextLimit caps how many documents a single chat turn may pull
	// into context.
	MaxContextLimit = 10

	// NoDocumentsContext is the context handed to the model when retrieval
	// returns nothing.
	NoDocumentsContext = "No relevant documents found."

	// GenerationFailureMessage is returned verbatim when answer generation
	// fails.
	GenerationFailureMessage = "I apologize, but I encountered an error while generating a response. Please try again."

	chatTemperature = 0.2
	chatMaxTokens   = 500

	// contextChars bounds per-document context when no summary is stored.
	contextChars = 500

	// excerptChars bounds the source excerpt shown with an answer.
	excerptChars = 200

	// maxEmbeddingChars bounds the text sent to the embedding model.
	maxEmbeddingChars = 8000
)

const chatSystemPrompt = `You are an intelligent document assistant. You help users find information in their documents and answer questions based on the provided context.

Instructions:
- Answer questions based only on the provided document context
- If the context doesn't contain enough information, say so clearly
- Provide specific references to documents when possible
- Be concise but comprehensive
- If asked about multiple documents, compare and synthesize the information
`

// Embedder turns text into a query/index vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// CompletionClient is the generative model collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}

// VectorStore persists and searches indexed documents. Search results carry
// their similarity score and are ordered most similar first.
type VectorStore interface {
	Insert(ctx context.Context, doc *domain.IndexedDocument, embedding []float32) error
	Search(ctx context.Context, embedding []float32, documentID string, limit int) ([]domain.IndexedDocument, error)
}

// ChatInput is one chat turn. DocumentID, when set, restricts retrieval to
// that document. ContextLimit is clamped to [1, MaxContextLimit]; zero means
// DefaultContextLimit.
type ChatInput struct {
	Query        string
	DocumentID   string
	ContextLimit int
}

// Service answers questions over the document index. Retrieval and
// generation failures are soft: the turn still produces an answer shape,
// with the fault logged and absorbed.
type Service struct {
	store     VectorStore
	embedder  Embedder
	generator CompletionClient
}

// NewService creates a new Service instance
func NewService(store VectorStore, embedder Embedder, generator CompletionClient) *Service {
	return &Service{store: store, embedder: embedder, generator: generator}
}

// IndexDocument embeds a processed document and inserts it into the vector
// store. Index rows are immutable; reindexing the same document inserts a
// new row and retrieval reads the newest one.
func (s *Service) IndexDocument(ctx context.Context, doc *domain.IndexedDocument) error {
	if doc.DocumentID == "" {
		return domain.ErrMissingRequiredField
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, embeddingText(doc))
	if err != nil {
		return fmt.Errorf("failed to embed document %s: %w", doc.DocumentID, err)
	}

	if err := s.store.Insert(ctx, doc, embedding); err != nil {
		return fmt.Errorf("failed to index document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// embeddingText is what the index vector represents: the title plus as much
// content as the embedding model comfortably takes.
func embeddingText(doc *domain.IndexedDocument) string {
	content := doc.Content
	if len(content) > maxEmbeddingChars {
		content = content[:maxEmbeddingChars]
	}
	if doc.Title == "" {
		return content
	}
	return doc.Title + "\n\n" + content
}

// Chat runs one retrieval-augmented turn. Every call gets a fresh
// conversation id; no cross-request memory is kept.
func (s *Service) Chat(ctx context.Context, input ChatInput) (*domain.ChatAnswer, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	limit := input.ContextLimit
	if limit <= 0 {
		limit = DefaultContextLimit
	}
	if limit > MaxContextLimit {
		limit = MaxContextLimit
	}

	retrieval := s.retrieve(ctx, input.Query, input.DocumentID, limit)
	if retrieval.IsDegraded() {
		log.Printf("chat retrieval degraded: %v", retrieval.Fault())
	}
	docs := retrieval.Value()

	generation := s.generate(ctx, input.Query, buildContext(docs))
	if generation.IsDegraded() {
		log.Printf("chat generation degraded: %v", generation.Fault())
	}

	return &domain.ChatAnswer{
		Answer:         generation.Value(),
		Sources:        buildSources(docs),
		Confidence:     min(float64(len(docs))/float64(limit), 1.0),
		ConversationID: uuid.NewString(),
		Timestamp:      time.Now().UTC(),
	}, nil
}

// retrieve embeds the query and searches the index. Failures degrade to an
// empty result set so the turn can still answer.
func (s *Service) retrieve(ctx context.Context, query, documentID string, limit int) soft.Result[[]domain.IndexedDocument] {
	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		fault := domain.NewDomainErrorWithCause(domain.ErrCodeRetrieval, "query embedding failed", err)
		return soft.Degraded([]domain.IndexedDocument(nil), fault)
	}

	docs, err := s.store.Search(ctx, embedding, documentID, limit)
	if err != nil {
		fault := domain.NewDomainErrorWithCause(domain.ErrCodeRetrieval, "index search failed", err)
		return soft.Degraded([]domain.IndexedDocument(nil), fault)
	}

	return soft.Ok(docs)
}

// generate asks the model for a grounded answer. Failures degrade to a
// fixed apology.
func (s *Service) generate(ctx context.Context, query, context string) soft.Result[string] {
	userPrompt := fmt.Sprintf("Context from documents:\n%s\n\nQuestion: %s\n\nPlease provide a helpful answer based on the document context above.", context, query)

	answer, err := s.generator.Complete(ctx, chatSystemPrompt, userPrompt, chatMaxTokens, chatTemperature)
	if err != nil {
		fault := domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "answer generation failed", err)
		return soft.Degraded(GenerationFailureMessage, fault)
	}

	return soft.Ok(strings.TrimSpace(answer))
}

// buildContext renders retrieved documents as numbered sections. The stored
// summary stands in for content when present.
func buildContext(docs []domain.IndexedDocument) string {
	if len(docs) == 0 {
		return NoDocumentsContext
	}

	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = "Unknown Document"
		}

		text := doc.Summary
		if text == "" {
			text = doc.Content
			if len(text) > contextChars {
				text = text[:contextChars]
			}
		}

		parts = append(parts, fmt.Sprintf("Document %d - %s:\n%s", i+1, title, text))
	}

	return strings.Join(parts, "\n\n")
}

func buildSources(docs []domain.IndexedDocument) []domain.ChatSource {
	sources := make([]domain.ChatSource, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = "Unknown"
		}

		excerpt := doc.Content
		if len(excerpt) > excerptChars {
			excerpt = excerpt[:excerptChars]
		}

		sources = append(sources, domain.ChatSource{
			DocumentID: doc.DocumentID,
			Title:      title,
			Excerpt:    excerpt + "...",
			Relevance:  doc.Score,
		})
	}
	return sources
}
