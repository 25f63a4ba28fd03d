package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/config"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/queue"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	queue_publisher "github.com/nsoftlabs/whitespace-server/internal/service"
)

// TenantHandler serves the platform admin console, the tenant member
// directory and the billing checkout flow.
type TenantHandler struct {
	Cfg  config.Config
	Repo *repository.WorkspaceRepo
	Log  *logrus.Logger

	// Publish sends the audit event to the broker. Injectable so tests can
	// capture events without a broker.
	Publish func(ctx context.Context, ev queue.AuditRecordedEvent) error
}

func NewTenantHandler(cfg config.Config, repo *repository.WorkspaceRepo, log *logrus.Logger) *TenantHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TenantHandler{
		Cfg:     cfg,
		Repo:    repo,
		Log:     log,
		Publish: queue_publisher.PublishAuditRecorded,
	}
}

// ----- DTOs -----

type inviteReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
type checkoutReq struct {
	PriceID string `json:"priceId"`
}

// ListTenants returns every tenant. Platform admin only.
func (h *TenantHandler) ListTenants(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tenants, err := h.Repo.GetTenants(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tenants failed"})
	}
	return c.JSON(http.StatusOK, tenants)
}

// ListUsers returns every account across all tenants. Platform admin only.
func (h *TenantHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Repo.GetUsers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// ListAuditLogs returns the audit trail. Platform admin only.
func (h *TenantHandler) ListAuditLogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	logs, err := h.Repo.GetAuditLogs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load audit logs failed"})
	}
	return c.JSON(http.StatusOK, logs)
}

// Members lists the accounts in the caller's own tenant.
func (h *TenantHandler) Members(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	me, err := h.Repo.GetUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
	}
	users, err := h.Repo.GetUsers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	members := make([]model.User, 0)
	for _, u := range users {
		if u.TenantSlug == me.TenantSlug {
			members = append(members, u)
		}
	}
	return c.JSON(http.StatusOK, members)
}

// Invite creates a new account in the caller's tenant. Tenant admins may
// only mint Tenant User and Tenant Admin roles.
func (h *TenantHandler) Invite(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var req inviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	role := model.UserRole(req.Role)
	if role == "" {
		role = model.RoleTenantUser
	}
	if role != model.RoleTenantUser && role != model.RoleTenantAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	me, err := h.Repo.GetUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
	}
	if _, err := h.Repo.FindUserByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	u, err := h.Repo.CreateUser(ctx, req.Email, me.TenantSlug, role)
	if err != nil {
		h.Log.WithError(err).Error("invite: create user")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// Checkout simulates a subscription purchase: after the configured
// processing delay it records a subscription_created audit entry and
// publishes it to the broker. No payment provider is contacted. Broker
// failures are logged and ignored; the audit entry in the workspace
// document is the source of truth.
func (h *TenantHandler) Checkout(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PriceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priceId required"})
	}

	if h.Cfg.SimCheckoutDelay > 0 {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(h.Cfg.SimCheckoutDelay):
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	me, err := h.Repo.GetUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
	}

	entry, err := h.Repo.CreateAuditLog(ctx, me.ID, me.TenantSlug, "subscription_created", map[string]any{
		"priceId": req.PriceID,
	})
	if err != nil {
		h.Log.WithError(err).Error("checkout: write audit log")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	if h.Publish != nil {
		ev := queue.AuditRecordedEvent{
			AuditID:    entry.ID,
			UserID:     entry.UserID,
			TenantSlug: entry.TenantSlug,
			Action:     entry.Action,
			RecordedAt: entry.Timestamp,
			Meta:       entry.Meta,
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pcancel()
			if err := h.Publish(pctx, ev); err != nil {
				h.Log.WithError(err).Warn("checkout: publish audit event")
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":    "success",
		"sessionId": "cs_mock_" + uuid.NewString(),
		"audit":     entry,
	})
}
