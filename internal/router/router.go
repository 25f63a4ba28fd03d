package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/nsoftlabs/whitespace-server/internal/handler"    // handlers implementing the business logic
	"github.com/nsoftlabs/whitespace-server/internal/middleware" // JWT authentication and role enforcement
	"github.com/nsoftlabs/whitespace-server/internal/model"      // role name constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Unauthenticated
// operations live under /v1/auth; the session endpoints /v1/me and
// /v1/auth/logout require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Login and signup exchange credentials for a token; no session exists yet.
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/signup", a.Signup)

	// Logout and me act on the caller's session, so they sit behind JWTAuth.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout", a.Logout)
}

// RegisterWorkspace registers the endpoints every authenticated user works
// with: the opportunity feed, ingestion of new signals, personal bookmarks
// and saved items, and the copilot. The feed listing optionally runs behind
// a response-cache middleware supplied by the caller; pass nil to disable.
func RegisterWorkspace(e *echo.Echo, o *handler.OpportunityHandler, s *handler.SavedHandler, cp *handler.CopilotHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(
		string(model.RolePlatformAdmin),
		string(model.RoleTenantAdmin),
		string(model.RoleTenantUser),
	))

	// Opportunity feed. The listing is the hottest endpoint in the product,
	// so it is the one place the response cache is wired in.
	if cache != nil {
		g.GET("/opportunities", o.List, cache)
	} else {
		g.GET("/opportunities", o.List)
	}
	g.GET("/opportunities/:id", o.Get)

	// Ingestion of new signals. Both run the AI structuring pipeline and
	// land low-scoring records in the staging queue.
	g.POST("/opportunities/manual", o.CreateManual)
	g.POST("/opportunities/upload", o.Upload)

	// Personal workspace: bookmark toggles and saved-item annotations.
	g.GET("/saved", s.List)
	g.POST("/saved/:oppId/toggle", s.Toggle)
	g.PUT("/saved/:oppId", s.UpdateItem)

	// Copilot: executive briefs and the strategy chat.
	g.POST("/copilot/brief/:oppId", cp.Brief)
	g.POST("/copilot/chat", cp.StartChat)
	g.POST("/copilot/chat/:sessionId/messages", cp.Message)
}

// RegisterTenantAdmin registers the member-management and billing surface
// available to tenant admins (platform admins may use it too).
func RegisterTenantAdmin(e *echo.Echo, t *handler.TenantHandler, jwtSecret string) {
	g := e.Group("/v1/tenant")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(
		string(model.RolePlatformAdmin),
		string(model.RoleTenantAdmin),
	))

	g.GET("/members", t.Members)
	g.POST("/members", t.Invite)
	g.POST("/billing/checkout", t.Checkout)
}

// RegisterPlatformAdmin registers the operator console: tenant and account
// listings, the audit trail, curation of the staging queue, and the data
// source registry. Every route requires the Platform Admin role.
func RegisterPlatformAdmin(e *echo.Echo, t *handler.TenantHandler, o *handler.OpportunityHandler, d *handler.DataSourceHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(string(model.RolePlatformAdmin)))

	g.GET("/tenants", t.ListTenants)
	g.GET("/users", t.ListUsers)
	g.GET("/audit-logs", t.ListAuditLogs)

	// Staging queue curation. Editing and deleting opportunities is an
	// operator action; tenant users only read the feed.
	g.PATCH("/opportunities/:id", o.Update)
	g.DELETE("/opportunities/:id", o.Delete)
	g.POST("/opportunities/:id/approve", o.Approve)
	g.POST("/opportunities/:id/reject", o.Reject)

	g.GET("/datasources", d.List)
	g.POST("/datasources/:id/sync", d.Sync)
	g.GET("/ingestion/status", d.Status)
}
