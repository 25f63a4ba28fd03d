// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditRecordedEvent is published when a billing or compliance audit entry is
// written to the workspace. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without reading the
// workspace document.
type AuditRecordedEvent struct {
	AuditID    string         `json:"audit_id"`
	UserID     string         `json:"user_id"`
	TenantSlug string         `json:"tenant_slug"`
	Action     string         `json:"action"`
	RecordedAt string         `json:"recorded_at"`
	Meta       map[string]any `json:"meta,omitempty"`
}
