package model

// AuditLog is an append-only record of a notable user action. The only
// action currently written is "subscription_created"; Meta carries free-form
// context such as the purchased price id.
type AuditLog struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	TenantSlug string         `json:"tenantSlug"`
	Action     string         `json:"action"`
	Timestamp  string         `json:"timestamp"`
	Meta       map[string]any `json:"meta"`
}
