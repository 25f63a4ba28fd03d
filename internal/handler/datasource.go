package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/ingest"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
)

// DataSourceHandler exposes the ingestion feed registry.
type DataSourceHandler struct {
	Repo   *repository.WorkspaceRepo
	Ingest *ingest.Service
	Log    *logrus.Logger
}

func NewDataSourceHandler(repo *repository.WorkspaceRepo, ing *ingest.Service, log *logrus.Logger) *DataSourceHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DataSourceHandler{Repo: repo, Ingest: ing, Log: log}
}

// List returns all registered data sources.
func (h *DataSourceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sources, err := h.Repo.GetDataSources(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load data sources failed"})
	}
	return c.JSON(http.StatusOK, sources)
}

// Sync kicks off a sync for one source. The response carries the source in
// its transitional Syncing state; completion happens in the background.
func (h *DataSourceHandler) Sync(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ds, err := h.Ingest.SyncSource(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDataSourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "data source not found"})
		}
		h.Log.WithError(err).Error("sync data source")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sync failed"})
	}
	return c.JSON(http.StatusAccepted, ds)
}

// Status summarizes ingestion health for the admin dashboard.
func (h *DataSourceHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Ingest.SystemStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load status failed"})
	}
	return c.JSON(http.StatusOK, st)
}
