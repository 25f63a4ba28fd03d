package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/ingest"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
)

// OpportunityHandler serves the opportunity feed and its curation surface.
type OpportunityHandler struct {
	Repo   *repository.WorkspaceRepo
	Ingest *ingest.Service
	Log    *logrus.Logger
}

func NewOpportunityHandler(repo *repository.WorkspaceRepo, ing *ingest.Service, log *logrus.Logger) *OpportunityHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OpportunityHandler{Repo: repo, Ingest: ing, Log: log}
}

// ----- DTOs -----

type manualEntryReq struct {
	Description     string                `json:"description"`
	Vertical        model.Vertical        `json:"vertical"`
	OpportunityType model.OpportunityType `json:"opportunityType"`
}
type uploadReq struct {
	Filename string `json:"filename"`
}

// List returns opportunities matching the query filters. Non-admin callers
// only ever see the Active feed; the staging queue is a review surface.
//
// Query params: status (Active|Staging), vertical, search (matched against
// title, description and tags, case-insensitive).
func (h *OpportunityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opps, err := h.Repo.GetOpportunities(ctx)
	if err != nil {
		h.Log.WithError(err).Error("list opportunities")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load opportunities failed"})
	}

	status := c.QueryParam("status")
	if status == "" {
		status = model.StatusActive
	}
	role, _ := c.Get("role").(string)
	if status == model.StatusStaging && role != string(model.RolePlatformAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "staging queue is admin-only"})
	}

	vertical := c.QueryParam("vertical")
	search := strings.ToLower(strings.TrimSpace(c.QueryParam("search")))

	out := make([]model.Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.Status != status {
			continue
		}
		if vertical != "" && string(o.Vertical) != vertical {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		out = append(out, o)
	}
	return c.JSON(http.StatusOK, out)
}

func matchesSearch(o model.Opportunity, needle string) bool {
	if strings.Contains(strings.ToLower(o.Title), needle) ||
		strings.Contains(strings.ToLower(o.Description), needle) {
		return true
	}
	for _, t := range o.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// Get returns a single opportunity by id.
func (h *OpportunityHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.GetOpportunity(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOpportunityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load opportunity failed"})
	}
	return c.JSON(http.StatusOK, o)
}

// CreateManual runs a free-text observation through AI structuring and
// stores the result. Records scoring below the staging threshold land in
// the review queue rather than the live feed.
func (h *OpportunityHandler) CreateManual(c echo.Context) error {
	var req manualEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description required"})
	}
	if req.Vertical == "" {
		req.Vertical = model.VerticalGeneral
	}
	if req.OpportunityType == "" {
		req.OpportunityType = model.TypeCustomerPain
	}

	opp, err := h.Ingest.AnalyzeManual(c.Request().Context(), req.Description, req.Vertical, req.OpportunityType)
	if err != nil {
		h.Log.WithError(err).Error("manual entry ingestion")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analysis failed"})
	}
	return c.JSON(http.StatusCreated, opp)
}

// Upload analyzes an uploaded document by name. The body only carries the
// filename; document content never reaches the server in this product.
func (h *OpportunityHandler) Upload(c echo.Context) error {
	var req uploadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Filename = strings.TrimSpace(req.Filename)
	if req.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename required"})
	}

	opp, err := h.Ingest.AnalyzeUpload(c.Request().Context(), req.Filename)
	if err != nil {
		h.Log.WithError(err).Error("upload ingestion")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analysis failed"})
	}
	return c.JSON(http.StatusCreated, opp)
}

// Update applies a partial edit to an opportunity.
func (h *OpportunityHandler) Update(c echo.Context) error {
	var patch model.OpportunityPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.UpdateOpportunity(ctx, c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOpportunityNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, o)
}

// Delete removes an opportunity from the workspace. Bookmarks and saved
// items pointing at it are left in place; readers drop the dangling ids.
func (h *OpportunityHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteOpportunity(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Approve promotes a staged opportunity onto the live feed.
func (h *OpportunityHandler) Approve(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := model.StatusActive
	o, err := h.Repo.UpdateOpportunity(ctx, c.Param("id"), model.OpportunityPatch{Status: &status})
	if err != nil {
		if errors.Is(err, repository.ErrOpportunityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	return c.JSON(http.StatusOK, o)
}

// Reject discards a staged opportunity.
func (h *OpportunityHandler) Reject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteOpportunity(ctx, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
