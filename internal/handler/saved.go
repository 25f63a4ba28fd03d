package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/session"
)

// SavedHandler manages the caller's bookmarks and saved-item annotations.
// Every mutation writes the workspace document first and then refreshes the
// session copy of the user; the document write is authoritative.
type SavedHandler struct {
	Repo     *repository.WorkspaceRepo
	Sessions session.Store
	Log      *logrus.Logger
}

func NewSavedHandler(repo *repository.WorkspaceRepo, sessions session.Store, log *logrus.Logger) *SavedHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SavedHandler{Repo: repo, Sessions: sessions, Log: log}
}

type savedItemReq struct {
	Note               *string `json:"note"`
	PersonalConfidence *int    `json:"personalConfidence"`
}

// savedEntry joins a saved annotation with its opportunity for the
// workspace page.
type savedEntry struct {
	Opportunity model.Opportunity      `json:"opportunity"`
	Saved       model.SavedOpportunity `json:"saved"`
}

// Toggle flips the bookmark state of an opportunity for the caller. The
// first toggle also creates a placeholder saved-item annotation; untoggling
// removes only the bookmark and keeps the annotation, so a later re-toggle
// restores the user's note.
func (h *SavedHandler) Toggle(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	oppID := c.Param("oppId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Repo.ToggleBookmark(ctx, uid, oppID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, retry"})
		}
		h.Log.WithError(err).Error("toggle bookmark")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}

	if err := h.Sessions.PutUser(ctx, u); err != nil {
		h.Log.WithError(err).Warn("toggle: session refresh")
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateItem upserts the caller's note and confidence for an opportunity.
// Saving an annotation for an unbookmarked opportunity bookmarks it too.
func (h *SavedHandler) UpdateItem(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	oppID := c.Param("oppId")

	var req savedItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PersonalConfidence != nil && (*req.PersonalConfidence < 0 || *req.PersonalConfidence > 100) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "personalConfidence must be 0-100"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Repo.UpdateSavedItem(ctx, uid, oppID, repository.SavedItemPatch{
		Note:               req.Note,
		PersonalConfidence: req.PersonalConfidence,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, retry"})
		}
		h.Log.WithError(err).Error("update saved item")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if err := h.Sessions.PutUser(ctx, u); err != nil {
		h.Log.WithError(err).Warn("saved item: session refresh")
	}
	return c.JSON(http.StatusOK, u)
}

// List returns the caller's saved annotations joined with their
// opportunities. Annotations whose opportunity has since been deleted are
// skipped, not an error; the stored record keeps the dangling id.
func (h *SavedHandler) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Repo.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	opps, err := h.Repo.GetOpportunities(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load opportunities failed"})
	}
	byID := make(map[string]model.Opportunity, len(opps))
	for _, o := range opps {
		byID[o.ID] = o
	}

	out := make([]savedEntry, 0, len(u.SavedItems))
	for _, item := range u.SavedItems {
		opp, ok := byID[item.OppID]
		if !ok {
			continue
		}
		out = append(out, savedEntry{Opportunity: opp, Saved: item})
	}
	return c.JSON(http.StatusOK, out)
}
