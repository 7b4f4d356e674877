package domain

import "time"

// Audit actions recorded by the service
const (
	AuditActionUpload  = "DOCUMENT_UPLOAD"
	AuditActionAccess  = "DOCUMENT_ACCESS"
	AuditActionProcess = "DOCUMENT_PROCESS"
	AuditActionChat    = "DOCUMENT_CHAT"
	AuditActionDelete  = "DOCUMENT_DELETE"
)

// AuditLog records one user-visible action against a resource. Audit
// writes are best-effort: a failed write is logged and swallowed so it
// never fails the action it describes.
type AuditLog struct {
	ID           string
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}
