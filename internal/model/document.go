package model

// Document is the entire persisted state of a workspace: every collection
// serialized together and written back wholesale on each mutation. The store
// layer pairs it with a version number for optimistic concurrency; the
// version is not part of the serialized body.
type Document struct {
	Users         []User        `json:"users"`
	Tenants       []Tenant      `json:"tenants"`
	Opportunities []Opportunity `json:"opportunities"`
	AuditLogs     []AuditLog    `json:"auditLogs"`
	DataSources   []DataSource  `json:"dataSources"`
}

// FindUserByEmail returns the index of the user with the given email, or -1.
func (d *Document) FindUserByEmail(email string) int {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return i
		}
	}
	return -1
}

// FindUser returns the index of the user with the given id, or -1.
func (d *Document) FindUser(id string) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTenantBySlug returns the index of the tenant with the given slug, or -1.
func (d *Document) FindTenantBySlug(slug string) int {
	for i := range d.Tenants {
		if d.Tenants[i].Slug == slug {
			return i
		}
	}
	return -1
}

// FindOpportunity returns the index of the opportunity with the given id, or -1.
func (d *Document) FindOpportunity(id string) int {
	for i := range d.Opportunities {
		if d.Opportunities[i].ID == id {
			return i
		}
	}
	return -1
}
