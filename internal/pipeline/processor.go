// Package pipeline orchestrates a full document processing run: fetch,
// extract, analyze, summarize, classify, index, persist.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/soft"
)

// DocumentStore is the document metadata collaborator.
type DocumentStore interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus) error
	ApplyProcessingResult(ctx context.Context, id string, update *domain.ProcessingUpdate) error
	MarkError(ctx context.Context, id string, cause string) error
}

// ObjectFetcher retrieves the raw stored file bytes.
type ObjectFetcher interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// TextExtractor turns file bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
}

// TextAnalyzer runs the NLP analysis over extracted text.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (*domain.NLPAnalysis, error)
}

// TextSummarizer produces a best-effort summary.
type TextSummarizer interface {
	Summarize(ctx context.Context, text string, maxTokens int) soft.Result[string]
}

// TextClassifier produces a best-effort category and tag assignment.
type TextClassifier interface {
	Classify(text, title string) soft.Result[domain.ClassificationResult]
}

// Indexer writes a processed document into the vector store.
type Indexer interface {
	IndexDocument(ctx context.Context, doc *domain.IndexedDocument) error
}

// Processor runs the processing pipeline for one document at a time per
// document id. Concurrent runs for the same id serialize on a per-id lock;
// runs for different ids proceed in parallel.
type Processor struct {
	documents  DocumentStore
	objects    ObjectFetcher
	extractor  TextExtractor
	analyzer   TextAnalyzer
	summarizer TextSummarizer
	classifier TextClassifier
	indexer    Indexer

	mu    sync.Mutex
	locks map[string]*docLock
}

type docLock struct {
	sync.Mutex
	refs int
}

// NewProcessor creates a new Processor instance
func NewProcessor(
	documents DocumentStore,
	objects ObjectFetcher,
	extractor TextExtractor,
	analyzer TextAnalyzer,
	summarizer TextSummarizer,
	classifier TextClassifier,
	indexer Indexer,
) *Processor {
	return &Processor{
		documents:  documents,
		objects:    objects,
		extractor:  extractor,
		analyzer:   analyzer,
		summarizer: summarizer,
		classifier: classifier,
		indexer:    indexer,
		locks:      make(map[string]*docLock),
	}
}

// lockDocument acquires the per-id lock and returns its release func.
func (p *Processor) lockDocument(id string) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &docLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}

// ProcessDocument runs the full pipeline for one document. A fatal failure
// at any stage marks the document errored (best effort) and leaves the
// vector index untouched; there is no partial success.
func (p *Processor) ProcessDocument(ctx context.Context, id string) error {
	release := p.lockDocument(id)
	defer release()

	doc, err := p.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := p.documents.SetStatus(ctx, id, domain.DocumentStatusProcessing); err != nil {
		return fmt.Errorf("failed to claim document %s: %w", id, err)
	}

	update, err := p.run(ctx, doc)
	if err != nil {
		p.fail(ctx, id, err)
		return err
	}

	if err := p.documents.ApplyProcessingResult(ctx, id, update); err != nil {
		err = fmt.Errorf("failed to persist results for document %s: %w", id, err)
		p.fail(ctx, id, err)
		return err
	}

	log.Printf("processed document %s: category=%s entities=%d", id, update.Classification, len(update.Entities))
	return nil
}

// run executes the stages and assembles the result to persist.
func (p *Processor) run(ctx context.Context, doc *domain.Document) (*domain.ProcessingUpdate, error) {
	data, err := p.objects.GetObject(ctx, doc.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s: %w", doc.ObjectKey, err)
	}

	text, err := p.extractor.Extract(ctx, data, doc.ContentType)
	if err != nil {
		return nil, err
	}

	analysis, err := p.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	summary := p.summarizer.Summarize(ctx, text, 0)
	if summary.IsDegraded() {
		log.Printf("summarization degraded for document %s: %v", doc.ID, summary.Fault())
	}

	classification := p.classifier.Classify(text, doc.Title)
	if classification.IsDegraded() {
		log.Printf("classification degraded for document %s: %v", doc.ID, classification.Fault())
	}
	result := classification.Value()

	indexed := &domain.IndexedDocument{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Content:    text,
		Summary:    summary.Value(),
		Category:   result.Category,
		Tags:       result.Tags,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.indexer.IndexDocument(ctx, indexed); err != nil {
		return nil, err
	}

	return &domain.ProcessingUpdate{
		ExtractedText:            text,
		Summary:                  summary.Value(),
		Entities:                 analysis.Entities,
		Classification:           result.Category,
		ClassificationConfidence: result.Confidence,
		Tags:                     result.Tags,
		Status:                   domain.DocumentStatusProcessed,
		ProcessedAt:              time.Now().UTC(),
	}, nil
}

// fail marks the document errored. The status write is best effort: a
// failure here is logged and swallowed so the original cause propagates.
func (p *Processor) fail(ctx context.Context, id string, cause error) {
	log.Printf("processing failed for document %s: %v", id, cause)
	if err := p.documents.MarkError(ctx, id, cause.Error()); err != nil {
		log.Printf("failed to mark document %s errored: %v", id, err)
	}
}
