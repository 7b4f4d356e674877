package domain

import (
	"strings"
	"time"
)

// DocumentStatus represents the processing state of a document
type DocumentStatus string

const (
	// DocumentStatusUploaded means the raw file is stored and awaiting processing
	DocumentStatusUploaded DocumentStatus = "uploaded"
	// DocumentStatusProcessing means a pipeline run is in flight
	DocumentStatusProcessing DocumentStatus = "processing"
	// DocumentStatusProcessed means the pipeline completed and results are persisted
	DocumentStatusProcessed DocumentStatus = "processed"
	// DocumentStatusError means the pipeline failed; ProcessingError holds the cause
	DocumentStatusError DocumentStatus = "error"
)

// Document represents a stored document and its derived intelligence.
// The raw file bytes live in object storage under ObjectKey and are never
// mutated; everything below ExtractedText is produced by the pipeline.
type Document struct {
	ID          string
	Title       string
	Description string
	Filename    string
	ObjectKey   string
	ContentType string
	FileSize    int64

	ExtractedText            string
	Summary                  string
	Entities                 map[string][]string
	Classification           string
	ClassificationConfidence float64
	Tags                     []string

	Status          DocumentStatus
	ProcessingError string
	Retries         int

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
	IndexedAt   *time.Time
}

// IsValidDocumentStatus checks whether a status value is known
func IsValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusUploaded, DocumentStatusProcessing, DocumentStatusProcessed, DocumentStatusError:
		return true
	}
	return false
}

// AllowedContentTypes are the upload types accepted by the API.
var AllowedContentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"text/plain",
}

// IsAllowedContentType checks whether a content type may be uploaded
func IsAllowedContentType(contentType string) bool {
	for _, t := range AllowedContentTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// ValidateDocument validates a document before persistence
func ValidateDocument(d *Document) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingRequiredField
	}
	if d.Filename == "" || d.ObjectKey == "" {
		return ErrMissingRequiredField
	}
	if !IsValidDocumentStatus(d.Status) {
		return ErrInvalidDocumentStatus
	}
	return nil
}

// ProcessingUpdate carries the pipeline results written back to a document
// record after a successful run.
type ProcessingUpdate struct {
	ExtractedText            string
	Summary                  string
	Entities                 map[string][]string
	Classification           string
	ClassificationConfidence float64
	Tags                     []string
	Status                   DocumentStatus
	ProcessedAt              time.Time
}
