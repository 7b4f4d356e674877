package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"

	// Pipeline error codes. Extraction and analysis failures abort a
	// processing run; the remaining codes mark faults that are absorbed
	// with safe defaults at the call site.
	ErrCodeExtraction     = "EXTRACTION_ERROR"
	ErrCodeAnalysis       = "ANALYSIS_ERROR"
	ErrCodeSummarization  = "SUMMARIZATION_FAILURE"
	ErrCodeClassification = "CLASSIFICATION_FAILURE"
	ErrCodeRetrieval      = "RETRIEVAL_FAILURE"
	ErrCodeGeneration     = "GENERATION_FAILURE"
)

// Validation errors
var (
	ErrInvalidDocumentStatus = NewDomainError(ErrCodeValidation, "invalid document status")
	ErrUnsupportedFileType   = NewDomainError(ErrCodeValidation, "unsupported file type")
	ErrMissingRequiredField  = NewDomainError(ErrCodeValidation, "missing required field")
	ErrEmptyQuery            = NewDomainError(ErrCodeValidation, "query cannot be empty")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
	ErrObjectNotFound   = NewDomainError(ErrCodeNotFound, "stored object not found")
)

// Authorization errors
var (
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)

// Operation errors
var (
	ErrDocumentAlreadyProcessing = NewDomainError(ErrCodeInvalidOperation, "document is already being processed")
)

// NewExtractionError wraps a cause as a fatal extraction error.
func NewExtractionError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeExtraction, "no text could be extracted", err)
}

// NewAnalysisError wraps a cause as a fatal analysis error.
func NewAnalysisError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeAnalysis, "text analysis failed", err)
}
