package models

import "time"

// AuditRecord is a single audit log entry appended by the auth flow.
type AuditRecord struct {
	ID        int64
	Component string
	Category  string
	Message   string
	CreatedAt time.Time
}
