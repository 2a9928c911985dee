package domain

import (
	"errors"
	"time"
)

// ErrConcurrentModification is returned when a save cites a stale version.
var ErrConcurrentModification = errors.New("record was modified concurrently, reload and retry")

// Model is the base embedded by every persisted entity. Records are never
// hard-deleted: Active flips to false and all default read paths filter on it.
// Version increments on every mutating save (optimistic concurrency).
type Model struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	Active    bool      `gorm:"column:active;not null;default:true;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	Version   int       `gorm:"column:version;not null;default:0"`
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID         int       `gorm:"primaryKey;autoIncrement"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Detail    string `gorm:"column:detail;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}
