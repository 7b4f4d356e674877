package jobs

import (
	"context"
	"log"

	"github.com/sgd-labs/docintel/internal/domain"
)

// PendingClaimer atomically claims documents awaiting processing.
type PendingClaimer interface {
	ClaimPending(ctx context.Context, limit, maxRetries int) ([]*domain.Document, error)
}

// DocumentProcessor runs the processing pipeline for one document.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, id string) error
}

// ProcessingWorker claims pending documents in batches and runs the
// pipeline over each. A failed document is not retried here: the pipeline
// marks it errored with a bumped retry count, and a later claim picks it
// up again until retries run out.
type ProcessingWorker struct {
	documents  PendingClaimer
	processor  DocumentProcessor
	batchSize  int
	maxRetries int
}

// NewProcessingWorker creates a new ProcessingWorker instance
func NewProcessingWorker(documents PendingClaimer, processor DocumentProcessor, batchSize, maxRetries int) *ProcessingWorker {
	return &ProcessingWorker{
		documents:  documents,
		processor:  processor,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// ProcessJobs claims and processes one batch of pending documents
func (w *ProcessingWorker) ProcessJobs(ctx context.Context) error {
	docs, err := w.documents.ClaimPending(ctx, w.batchSize, w.maxRetries)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		return nil
	}

	log.Printf("claimed %d document(s) for processing", len(docs))

	for _, doc := range docs {
		if err := w.processor.ProcessDocument(ctx, doc.ID); err != nil {
			log.Printf("processing failed for document %s: %v", doc.ID, err)
		}
	}

	return nil
}
