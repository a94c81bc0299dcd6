package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditOperation is the kind of mutation (or bulk read) being recorded.
type AuditOperation string

const (
	AuditRead   AuditOperation = "READ"
	AuditCreate AuditOperation = "CREATE"
	AuditUpdate AuditOperation = "UPDATE"
	AuditDelete AuditOperation = "DELETE"
)

// AuditLog is one append-only audit trail entry. The application only ever
// inserts and lists these rows; it never updates or deletes them.
type AuditLog struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	TableName string         `json:"tableName"`
	Operation AuditOperation `json:"operation"`
	RecordID  string         `json:"recordId,omitempty"`
	OldValues JSONMap        `json:"oldValues,omitempty"`
	NewValues JSONMap        `json:"newValues,omitempty"`
	SessionID string         `json:"sessionId"`
	UserAgent string         `json:"userAgent"`
	CreatedAt time.Time      `json:"createdAt"`
}
