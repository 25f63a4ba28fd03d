package model

// Role names are stored and transmitted as their display strings so that
// documents written by earlier versions of the product round-trip without a
// migration step.
type UserRole string

const (
	RolePlatformAdmin UserRole = "Platform Admin"
	RoleTenantAdmin   UserRole = "Tenant Admin"
	RoleTenantUser    UserRole = "Tenant User"
)

// Valid reports whether r is one of the known role names.
func (r UserRole) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleTenantAdmin, RoleTenantUser:
		return true
	}
	return false
}

// SavedOpportunity is a per-(user, opportunity) annotation: a free-text note
// and a personal 0-100 confidence score. It references the opportunity by id
// only; nothing removes it when the opportunity is deleted.
//
// Fields:
//  OppID              – id of the annotated opportunity.
//  Note               – user-authored note, may be empty.
//  PersonalConfidence – 0-100 score assigned by the user.
//  SavedAt            – RFC 3339 timestamp of the first save.
type SavedOpportunity struct {
	OppID              string `json:"oppId"`
	Note               string `json:"note"`
	PersonalConfidence int    `json:"personalConfidence"`
	SavedAt            string `json:"savedAt"`
}

// User is an account inside a tenant. Bookmarks holds opportunity ids the
// user has marked; every id added through ToggleBookmark also gets a
// SavedOpportunity entry in SavedItems (the reverse is not maintained).
//
// Fields:
//  ID         – user identifier ("u_" prefix).
//  Email      – login email, unique across the document.
//  Name       – display name, derived from the email local part on creation.
//  Role       – one of the UserRole constants.
//  TenantSlug – slug of the owning tenant.
//  Bookmarks  – opportunity ids marked by the user.
//  SavedItems – annotations keyed by opportunity id.
type User struct {
	ID         string             `json:"id"`
	Email      string             `json:"email"`
	Name       string             `json:"name"`
	Role       UserRole           `json:"role"`
	TenantSlug string             `json:"tenantSlug"`
	Bookmarks  []string           `json:"bookmarks"`
	SavedItems []SavedOpportunity `json:"savedItems"`
}

// HasBookmark reports whether oppID is in the user's bookmark set.
func (u *User) HasBookmark(oppID string) bool {
	for _, id := range u.Bookmarks {
		if id == oppID {
			return true
		}
	}
	return false
}

// SavedItem returns the index of the saved item for oppID, or -1.
func (u *User) SavedItem(oppID string) int {
	for i, item := range u.SavedItems {
		if item.OppID == oppID {
			return i
		}
	}
	return -1
}
