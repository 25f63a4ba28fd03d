package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/config"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/session"
	"github.com/nsoftlabs/whitespace-server/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		JWTSecret:         "test-secret",
		AccessTTLMin:      15,
		PlatformAdminPass: "pa1234",
		BcryptCost:        4,
	}
}

func newAuthFixture(t *testing.T) (*AuthHandler, *repository.WorkspaceRepo, session.Store) {
	t.Helper()
	repo := repository.NewWorkspaceRepo(store.NewMemoryStore())
	sessions := session.NewMemoryStore()
	return NewAuthHandler(testConfig(), repo, sessions, nil), repo, sessions
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogin_PlatformAdminRequiresOperatorPassword(t *testing.T) {
	h, _, _ := newAuthFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"platform@saas.local","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"platform@saas.local","password":"pa1234"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User   model.User `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "u_1", resp.User.ID)
	require.Equal(t, model.RolePlatformAdmin, resp.User.Role)
	require.NotEmpty(t, resp.Access.Token)
}

func TestLogin_TenantUserAcceptsAnyPassword(t *testing.T) {
	h, _, sessions := newAuthFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"User@FinTech.com","password":"whatever"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Login primes the session store.
	u, err := sessions.GetUser(c.Request().Context(), "u_3")
	require.NoError(t, err)
	require.Equal(t, "user@fintech.com", u.Email)
}

func TestLogin_Rejections(t *testing.T) {
	h, _, _ := newAuthFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"user@fintech.com","password":""}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"ghost@void.org","password":"x"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignup_ProvisionsTenantAndAdmin(t *testing.T) {
	h, repo, _ := newAuthFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/auth/signup", `{"email":"founder@acme.io","password":"s3cret","companyName":"Acme Corp!!"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, model.RoleTenantAdmin, resp.User.Role)
	require.Equal(t, "acme-corp", resp.User.TenantSlug)
	require.Equal(t, "founder", resp.User.Name)

	tenants, err := repo.GetTenants(c.Request().Context())
	require.NoError(t, err)
	var found *model.Tenant
	for i := range tenants {
		if tenants[i].Slug == "acme-corp" {
			found = &tenants[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, model.PlanStarter, found.Plan)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h, _, _ := newAuthFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/auth/signup", `{"email":"admin@fintech.com","password":"x","companyName":"Shadow Corp"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogoutAndMe(t *testing.T) {
	h, _, sessions := newAuthFixture(t)
	e := echo.New()

	// Login to prime the session.
	c, rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"admin@fintech.com","password":"x"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Me serves from the session.
	c, rec = doJSON(e, http.MethodGet, "/v1/me", "")
	c.Set("user_id", "u_2")
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout drops it.
	c, rec = doJSON(e, http.MethodPost, "/v1/auth/logout", "")
	c.Set("user_id", "u_2")
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := sessions.GetUser(c.Request().Context(), "u_2")
	require.ErrorIs(t, err, session.ErrNotFound)

	// Me falls back to the document store and re-primes the session.
	c, rec = doJSON(e, http.MethodGet, "/v1/me", "")
	c.Set("user_id", "u_2")
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := sessions.GetUser(c.Request().Context(), "u_2")
	require.NoError(t, err)
	require.Equal(t, "u_2", u.ID)
}
