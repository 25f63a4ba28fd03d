package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/config"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/session"
	"github.com/nsoftlabs/whitespace-server/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Repo     *repository.WorkspaceRepo
	Sessions session.Store
	Log      *logrus.Logger

	// bcrypt hash of the platform admin password, computed once at startup
	// so the plaintext never sits in a long-lived field.
	platformHash string
}

func NewAuthHandler(cfg config.Config, repo *repository.WorkspaceRepo, sessions session.Store, log *logrus.Logger) *AuthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &AuthHandler{Cfg: cfg, Repo: repo, Sessions: sessions, Log: log}
	hash, err := utils.HashPassword(cfg.PlatformAdminPass, cfg.BcryptCost)
	if err != nil {
		// bcrypt only fails on absurd cost values; treat as fatal config.
		log.WithError(err).Fatal("hash platform admin password")
	}
	h.platformHash = hash
	cfg.PlatformAdminPass = ""
	return h
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type signupReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User   model.User `json:"user"`
	Access tokenPart  `json:"access"`
}

// Login verifies credentials against the workspace document and opens a
// session. Platform Admin accounts require the operator password; tenant
// accounts accept any non-empty password, matching the product's demo
// credential model.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.Log.WithError(err).Error("login: load user")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	if u.Role == model.RolePlatformAdmin && !utils.VerifyPassword(h.platformHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.Sessions.PutUser(ctx, u); err != nil {
		h.Log.WithError(err).Error("login: persist session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:   u,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Signup provisions a new tenant and its first admin account in one step.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/companyName required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Repo.FindUserByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.Log.WithError(err).Error("signup: lookup email")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	tenant, err := h.Repo.CreateTenant(ctx, req.CompanyName)
	if err != nil {
		h.Log.WithError(err).Error("signup: create tenant")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	u, err := h.Repo.CreateUser(ctx, req.Email, tenant.Slug, model.RoleTenantAdmin)
	if err != nil {
		h.Log.WithError(err).Error("signup: create user")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	if err := h.Sessions.PutUser(ctx, u); err != nil {
		h.Log.WithError(err).Error("signup: persist session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:   u,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout drops the caller's session record. The access token itself simply
// expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.DeleteUser(ctx, uid); err != nil && !errors.Is(err, session.ErrNotFound) {
		h.Log.WithError(err).Warn("logout: drop session")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "logged out"})
}

// Me returns the session copy of the caller's account, falling back to the
// workspace document (and re-priming the session) when the cached record is
// gone, e.g. after a cache flush.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Sessions.GetUser(ctx, uid)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.Log.WithError(err).Warn("me: session read")
		}
		u, err = h.Repo.GetUser(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
		}
		if err := h.Sessions.PutUser(ctx, u); err != nil {
			h.Log.WithError(err).Warn("me: session refresh")
		}
	}
	return c.JSON(http.StatusOK, u)
}
