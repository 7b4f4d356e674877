package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgd-labs/docintel/internal/domain"
)

// AuditLogRepository handles persistence of audit records.
type AuditLogRepository struct {
	db dbtx
}

func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{db: pool}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return err
		}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_logs (id, action, resource_type, resource_id, details, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, entry.Action, entry.ResourceType, nullableString(entry.ResourceID),
		details, nullableString(entry.IPAddress), nullableString(entry.UserAgent), createdAt,
	)
	return err
}

// List returns the newest audit records first.
func (r *AuditLogRepository) List(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, action, resource_type, resource_id, details, ip_address, user_agent, created_at
		 FROM audit_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		var resourceID, ipAddress, userAgent pgtype.Text
		var details []byte
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.ResourceType, &resourceID,
			&details, &ipAddress, &userAgent, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if resourceID.Valid {
			entry.ResourceID = resourceID.String
		}
		if ipAddress.Valid {
			entry.IPAddress = ipAddress.String
		}
		if userAgent.Valid {
			entry.UserAgent = userAgent.String
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, err
			}
		}
		results = append(results, &entry)
	}

	return results, rows.Err()
}
