package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sgd-labs/docintel/internal/api"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/pagination"
	"github.com/sgd-labs/docintel/internal/repository"
)

// DocumentStore is the persistence collaborator for document handlers.
type DocumentStore interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*repository.DocumentPage, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage is the blob storage collaborator for document handlers.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// Processor runs the processing pipeline synchronously.
type Processor interface {
	ProcessDocument(ctx context.Context, id string) error
}

type DocumentHandler struct {
	documents DocumentStore
	storage   ObjectStorage
	processor Processor
	audit     *AuditRecorder
}

func NewDocumentHandler(documents DocumentStore, storage ObjectStorage, processor Processor, audit *AuditRecorder) *DocumentHandler {
	return &DocumentHandler{documents: documents, storage: storage, processor: processor, audit: audit}
}

type DocumentResponse struct {
	ID                       string              `json:"id"`
	Title                    string              `json:"title"`
	Description              string              `json:"description,omitempty"`
	Filename                 string              `json:"filename"`
	ContentType              string              `json:"content_type"`
	FileSize                 int64               `json:"file_size"`
	Summary                  string              `json:"summary,omitempty"`
	Entities                 map[string][]string `json:"entities,omitempty"`
	Classification           string              `json:"classification,omitempty"`
	ClassificationConfidence float64             `json:"classification_confidence,omitempty"`
	Tags                     []string            `json:"tags,omitempty"`
	Status                   string              `json:"status"`
	ProcessingError          string              `json:"processing_error,omitempty"`
	CreatedAt                string              `json:"created_at"`
	UpdatedAt                string              `json:"updated_at"`
	ProcessedAt              string              `json:"processed_at,omitempty"`
}

func documentToResponse(d *domain.Document) *DocumentResponse {
	resp := &DocumentResponse{
		ID:                       d.ID,
		Title:                    d.Title,
		Description:              d.Description,
		Filename:                 d.Filename,
		ContentType:              d.ContentType,
		FileSize:                 d.FileSize,
		Summary:                  d.Summary,
		Entities:                 d.Entities,
		Classification:           d.Classification,
		ClassificationConfidence: d.ClassificationConfidence,
		Tags:                     d.Tags,
		Status:                   string(d.Status),
		ProcessingError:          d.ProcessingError,
		CreatedAt:                d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                d.UpdatedAt.Format(time.RFC3339),
	}
	if d.ProcessedAt != nil {
		resp.ProcessedAt = d.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}

// Upload stores the raw file and creates the document record with status
// uploaded; the background worker picks it up from there.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	contentType := header.Header.Get("Content-Type")
	if !domain.IsAllowedContentType(contentType) {
		api.HandleError(w, domain.ErrUnsupportedFileType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          id,
		Title:       title,
		Description: r.FormValue("description"),
		Filename:    header.Filename,
		ObjectKey:   fmt.Sprintf("documents/%s/%s", id, header.Filename),
		ContentType: contentType,
		FileSize:    int64(len(data)),
		Status:      domain.DocumentStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := domain.ValidateDocument(doc); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.storage.PutObject(r.Context(), doc.ObjectKey, contentType, data); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	if err := h.documents.Create(r.Context(), doc); err != nil {
		api.HandleError(w, err)
		return
	}

	h.audit.Record(r, domain.AuditActionUpload, doc.ID, map[string]any{
		"filename":     doc.Filename,
		"content_type": doc.ContentType,
		"file_size":    doc.FileSize,
	})

	api.Success(w, http.StatusCreated, documentToResponse(doc))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	h.audit.Record(r, domain.AuditActionAccess, doc.ID, nil)

	api.Success(w, http.StatusOK, documentToResponse(doc))
}

type DocumentListResponse struct {
	Items      []*DocumentResponse `json:"items"`
	NextCursor string              `json:"next_cursor,omitempty"`
	HasMore    bool                `json:"has_more"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			api.Error(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	page, err := h.documents.ListWithCursor(r.Context(), cursor, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*DocumentResponse, 0, len(page.Items))
	for _, doc := range page.Items {
		items = append(items, documentToResponse(doc))
	}

	api.Success(w, http.StatusOK, DocumentListResponse{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	url, err := h.storage.GenerateDownloadURL(r.Context(), doc.ObjectKey)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to generate download url")
		return
	}

	h.audit.Record(r, domain.AuditActionAccess, doc.ID, map[string]any{"download": true})

	api.Success(w, http.StatusOK, map[string]string{"download_url": url})
}

// Delete removes the blob and the metadata row. Index rows go with the
// metadata via the foreign key.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.storage.DeleteObject(r.Context(), doc.ObjectKey); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to delete stored file")
		return
	}

	if err := h.documents.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	h.audit.Record(r, domain.AuditActionDelete, id, nil)

	api.JSON(w, http.StatusNoContent, nil)
}

// Process runs the pipeline synchronously and returns the refreshed record.
func (h *DocumentHandler) Process(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.processor.ProcessDocument(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	doc, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	h.audit.Record(r, domain.AuditActionProcess, id, nil)

	api.Success(w, http.StatusOK, documentToResponse(doc))
}
