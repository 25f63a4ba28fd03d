// Package ingest turns uploads and manual entries into scored opportunities
// and drives data-source sync state. It replaces the original product's
// process-wide singleton managers with one explicitly constructed service;
// callers inject the repository and AI client it depends on.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/ai"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
)

// StagingThreshold is the impact score at which an ingested opportunity
// goes straight to the Active feed; anything below waits in Staging for
// human review.
const StagingThreshold = 80

// Default scores applied when the model omits one. Uploads are assumed more
// substantive than manual notes.
const (
	defaultUploadScore = 75
	defaultManualScore = 60
)

// Analyzer is the slice of the AI client the service needs; narrowed to an
// interface so tests can stub the backend without HTTP.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, filename string) (ai.Draft, error)
	AnalyzeManualEntry(ctx context.Context, description string, vertical model.Vertical, oppType model.OpportunityType) (ai.Draft, error)
}

// Service ingests new opportunities and syncs data sources.
type Service struct {
	Repo *repository.WorkspaceRepo
	AI   Analyzer

	// UploadDelay and SyncDelay reproduce the original product's simulated
	// processing latencies. Zero disables them.
	UploadDelay time.Duration
	SyncDelay   time.Duration

	log   *logrus.Logger
	now   func() time.Time
	newID func() string
}

// NewService wires an ingestion service.
func NewService(repo *repository.WorkspaceRepo, analyzer Analyzer, uploadDelay, syncDelay time.Duration, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Repo:        repo,
		AI:          analyzer,
		UploadDelay: uploadDelay,
		SyncDelay:   syncDelay,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return "opp_" + uuid.NewString() },
	}
}

// AnalyzeUpload analyzes an uploaded document by filename, applies the
// staging gate and stores the resulting opportunity. An AI failure is
// absorbed: the fallback draft is used and its low score routes the record
// to the staging queue.
func (s *Service) AnalyzeUpload(ctx context.Context, filename string) (model.Opportunity, error) {
	s.pause(ctx, s.UploadDelay)

	draft, err := s.AI.AnalyzeFile(ctx, filename)
	if err != nil {
		if !errors.Is(err, ai.ErrUpstream) {
			return model.Opportunity{}, err
		}
		s.log.WithField("filename", filename).Warn("file analysis fell back to defaults")
		draft = ai.FallbackFileDraft(filename)
	}

	score := draft.ImpactScore
	if score == 0 {
		score = defaultUploadScore
	}

	opp := model.Opportunity{
		ID:                s.newID(),
		Title:             orDefault(draft.Title, "Detected Opportunity"),
		Description:       orDefault(draft.Description, "No description available."),
		EvidenceSnippet:   orDefault(draft.EvidenceSnippet, "Extracted from uploaded document."),
		ImpactScore:       score,
		Vertical:          draft.Vertical,
		Trend:             draft.Trend,
		Tags:              draft.Tags,
		TimeHorizon:       orDefault(draft.TimeHorizon, "6-18 months"),
		Source:            "Upload: " + filename,
		DateDetected:      s.now().Format("2006-01-02"),
		SourceReliability: model.ReliabilityMedium,
		OpportunityType:   model.TypeTechGap,
		Geography:         "Global",
		Status:            gate(score),
	}
	if opp.Vertical == "" {
		opp.Vertical = model.VerticalGeneral
	}
	if opp.Trend == "" {
		opp.Trend = model.TrendStable
	}
	if len(opp.Tags) == 0 {
		opp.Tags = []string{"Upload"}
	}

	return s.Repo.AddOpportunity(ctx, opp)
}

// AnalyzeManual structures a raw observation into an opportunity, applies
// the staging gate and stores it.
func (s *Service) AnalyzeManual(ctx context.Context, description string, vertical model.Vertical, oppType model.OpportunityType) (model.Opportunity, error) {
	draft, err := s.AI.AnalyzeManualEntry(ctx, description, vertical, oppType)
	if err != nil {
		if !errors.Is(err, ai.ErrUpstream) {
			return model.Opportunity{}, err
		}
		s.log.Warn("manual entry analysis fell back to defaults")
		draft = ai.FallbackManualDraft(description)
	}

	score := draft.ImpactScore
	if score == 0 {
		score = defaultManualScore
	}

	snippet := draft.EvidenceSnippet
	if snippet == "" {
		snippet = ai.Snippet(description)
	}

	opp := model.Opportunity{
		ID:                s.newID(),
		Title:             orDefault(draft.Title, "Draft Opportunity"),
		Description:       orDefault(draft.Description, description),
		EvidenceSnippet:   snippet,
		ImpactScore:       score,
		Vertical:          vertical,
		Trend:             draft.Trend,
		Tags:              draft.Tags,
		TimeHorizon:       orDefault(draft.TimeHorizon, "6-18 months"),
		Source:            "Manual Entry",
		DateDetected:      s.now().Format("2006-01-02"),
		SourceReliability: model.ReliabilityMedium,
		OpportunityType:   oppType,
		Geography:         orDefault(draft.Geography, "Global"),
		Status:            gate(score),
	}
	if opp.Trend == "" {
		opp.Trend = model.TrendStable
	}
	if len(opp.Tags) == 0 {
		opp.Tags = []string{"Manual", "Draft"}
	}

	return s.Repo.AddOpportunity(ctx, opp)
}

// SyncSource marks the feed as Syncing and completes the sync in the
// background after the configured delay. The sync is cosmetic: status and
// lastSync change, nothing is fetched.
func (s *Service) SyncSource(ctx context.Context, id string) (model.DataSource, error) {
	ds, err := s.Repo.UpdateDataSource(ctx, id, model.SourceStatusSyncing, "syncing")
	if err != nil {
		return model.DataSource{}, err
	}
	go func() {
		if s.SyncDelay > 0 {
			time.Sleep(s.SyncDelay)
		}
		// Detached from the request; the originating context is gone by now.
		if _, err := s.Repo.UpdateDataSource(context.Background(), id, model.SourceStatusActive, "Just now"); err != nil {
			s.log.WithError(err).WithField("source", id).Warn("sync completion failed")
		}
	}()
	return ds, nil
}

// Status summarizes the ingestion system for the admin dashboard.
type Status struct {
	ActiveSources          int    `json:"activeSources"`
	TotalSources           int    `json:"totalSources"`
	LastUpdate             string `json:"lastUpdate"`
	OpportunitiesProcessed int    `json:"opportunitiesProcessed"`
}

// SystemStatus reports feed counts and the size of the opportunity set.
func (s *Service) SystemStatus(ctx context.Context) (Status, error) {
	sources, err := s.Repo.GetDataSources(ctx)
	if err != nil {
		return Status{}, err
	}
	opps, err := s.Repo.GetOpportunities(ctx)
	if err != nil {
		return Status{}, err
	}
	active := 0
	for _, ds := range sources {
		if ds.Status == model.SourceStatusActive {
			active++
		}
	}
	return Status{
		ActiveSources:          active,
		TotalSources:           len(sources),
		LastUpdate:             s.now().Format(time.RFC3339),
		OpportunitiesProcessed: len(opps),
	}, nil
}

func gate(score int) string {
	if score >= StagingThreshold {
		return model.StatusActive
	}
	return model.StatusStaging
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// pause sleeps for the configured simulated delay, returning early if the
// request is cancelled.
func (s *Service) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
