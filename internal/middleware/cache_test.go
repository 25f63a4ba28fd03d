package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		KeyStrategy: "route_query",
		Prefix:      "ws:cache",
	}
}

func keyFor(t *testing.T, cfg config.CacheConfig, target, role string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/opportunities")
	if role != "" {
		c.Set("role", role)
	}
	return cacheKeyFrom(cfg, c)
}

// The staging listing returns different bodies per role, so an entry cached
// for a platform admin must never satisfy a tenant user's request.
func TestCacheKey_SeparatesRoles(t *testing.T) {
	cfg := cacheTestConfig()
	target := "/v1/opportunities?status=Staging"

	admin := keyFor(t, cfg, target, "Platform Admin")
	user := keyFor(t, cfg, target, "Tenant User")
	require.NotEqual(t, admin, user)

	// Same role and request hash to the same entry.
	require.Equal(t, admin, keyFor(t, cfg, target, "Platform Admin"))
}

func TestCacheKey_VariesByQuery(t *testing.T) {
	cfg := cacheTestConfig()

	active := keyFor(t, cfg, "/v1/opportunities?status=Active", "Tenant User")
	staging := keyFor(t, cfg, "/v1/opportunities?status=Staging", "Tenant User")
	require.NotEqual(t, active, staging)
}

func TestCacheKey_RoleAppliesToEveryStrategy(t *testing.T) {
	for _, strategy := range []string{"route", "method_route", "method_route_query", "route_query"} {
		cfg := cacheTestConfig()
		cfg.KeyStrategy = strategy

		admin := keyFor(t, cfg, "/v1/opportunities", "Platform Admin")
		user := keyFor(t, cfg, "/v1/opportunities", "Tenant User")
		require.NotEqual(t, admin, user, "strategy %s must key on role", strategy)
	}
}
