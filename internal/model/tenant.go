package model

// Subscription plans, lowest to highest.
const (
	PlanFree       = "Free"
	PlanStarter    = "Starter"
	PlanGrowth     = "Growth"
	PlanEnterprise = "Enterprise"
)

// Tenant is an organization account. UserCount is maintained by CreateUser
// rather than recomputed from the users collection, so it tracks creations
// only; there is no user deletion path that would decrement it.
//
// Fields:
//  ID        – tenant identifier ("t_" prefix).
//  Name      – display name as entered at signup.
//  Slug      – unique URL-safe key derived from Name.
//  Plan      – one of the Plan* constants.
//  MRR       – monthly recurring revenue in whole currency units.
//  UserCount – number of users created under this tenant.
type Tenant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Plan      string `json:"plan"`
	MRR       int    `json:"mrr"`
	UserCount int    `json:"userCount"`
}
