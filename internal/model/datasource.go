package model

// SourceType categorizes where an ingestion feed's data comes from.
type SourceType string

const (
	SourcePublic   SourceType = "Public Web"
	SourceLicensed SourceType = "Licensed Feed"
	SourceUpload   SourceType = "User Upload"
	SourceManual   SourceType = "Manual Entry"
)

// Data source sync states.
const (
	SourceStatusActive  = "Active"
	SourceStatusError   = "Error"
	SourceStatusSyncing = "Syncing"
)

// DataSource is a descriptive record of an ingestion feed. It is not wired
// to a real fetcher; sync requests update status and LastSync only.
type DataSource struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      SourceType `json:"type"`
	Status    string     `json:"status"`
	LastSync  string     `json:"lastSync"`
	ItemCount int        `json:"itemCount"`
	Icon      string     `json:"icon,omitempty"`
}
