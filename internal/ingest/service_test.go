package ingest

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/ai"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/store"
)

// stubAnalyzer returns canned drafts or a configured error.
type stubAnalyzer struct {
	draft ai.Draft
	err   error
}

func (s stubAnalyzer) AnalyzeFile(ctx context.Context, filename string) (ai.Draft, error) {
	return s.draft, s.err
}

func (s stubAnalyzer) AnalyzeManualEntry(ctx context.Context, description string, vertical model.Vertical, oppType model.OpportunityType) (ai.Draft, error) {
	return s.draft, s.err
}

func newTestService(t *testing.T, a Analyzer) *Service {
	t.Helper()
	repo := repository.NewWorkspaceRepo(store.NewMemoryStore())
	svc := NewService(repo, a, 0, 0, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAnalyzeUpload_HighScoreGoesActive(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{draft: ai.Draft{
		Title:       "EU Payments Mandate",
		ImpactScore: 88,
		Vertical:    model.VerticalFinTech,
		Trend:       model.TrendAccelerating,
		Tags:        []string{"Regulation"},
	}})

	opp, err := svc.AnalyzeUpload(context.Background(), "mandate.pdf")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, opp.Status)
	require.Equal(t, 88, opp.ImpactScore)
	require.Equal(t, "Upload: mandate.pdf", opp.Source)
	require.Equal(t, "2026-03-01", opp.DateDetected)
	require.Equal(t, model.ReliabilityMedium, opp.SourceReliability)
	require.Equal(t, model.TypeTechGap, opp.OpportunityType)
}

func TestAnalyzeUpload_LowScoreGoesStaging(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{draft: ai.Draft{Title: "Weak Signal", ImpactScore: 79}})

	opp, err := svc.AnalyzeUpload(context.Background(), "weak.pdf")
	require.NoError(t, err)
	require.Equal(t, model.StatusStaging, opp.Status)
}

func TestAnalyzeUpload_MissingScoreDefaultsBelowGate(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{draft: ai.Draft{Title: "Unscored"}})

	opp, err := svc.AnalyzeUpload(context.Background(), "unscored.pdf")
	require.NoError(t, err)
	require.Equal(t, 75, opp.ImpactScore)
	require.Equal(t, model.StatusStaging, opp.Status)
	require.Equal(t, model.VerticalGeneral, opp.Vertical)
	require.Equal(t, model.TrendStable, opp.Trend)
	require.Equal(t, []string{"Upload"}, opp.Tags)
}

func TestAnalyzeUpload_UpstreamFailureUsesFallbackDraft(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{err: ai.ErrUpstream})

	opp, err := svc.AnalyzeUpload(context.Background(), "report_q3.pdf")
	require.NoError(t, err)
	require.Equal(t, "New Opportunity Detected", opp.Title)
	require.Equal(t, 70, opp.ImpactScore)
	require.Equal(t, model.StatusStaging, opp.Status)
	require.Equal(t, "Upload: report_q3.pdf", opp.Source)
}

func TestAnalyzeUpload_StoresIntoFeed(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{draft: ai.Draft{Title: "Stored", ImpactScore: 91}})
	ctx := context.Background()

	opp, err := svc.AnalyzeUpload(ctx, "stored.pdf")
	require.NoError(t, err)

	opps, err := svc.Repo.GetOpportunities(ctx)
	require.NoError(t, err)
	require.Equal(t, opp.ID, opps[0].ID, "new records lead the feed")
}

func TestAnalyzeManual_UsesCallerVerticalAndType(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{draft: ai.Draft{
		Title:       "Cold Chain Gap",
		ImpactScore: 85,
		Geography:   "EU",
	}})

	opp, err := svc.AnalyzeManual(context.Background(), "cold chain sensors are unreliable", model.VerticalLogistics, model.TypeCustomerPain)
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, opp.Status)
	require.Equal(t, model.VerticalLogistics, opp.Vertical)
	require.Equal(t, model.TypeCustomerPain, opp.OpportunityType)
	require.Equal(t, "EU", opp.Geography)
	require.Equal(t, "Manual Entry", opp.Source)
}

func TestAnalyzeManual_MissingScoreDefaultsSixty(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{draft: ai.Draft{Title: "Hunch"}})

	opp, err := svc.AnalyzeManual(context.Background(), "a vague hunch", model.VerticalGeneral, model.TypeCustomerPain)
	require.NoError(t, err)
	require.Equal(t, 60, opp.ImpactScore)
	require.Equal(t, model.StatusStaging, opp.Status)
	require.Equal(t, "Global", opp.Geography)
}

func TestAnalyzeManual_UpstreamFailureTruncatesSnippet(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{err: ai.ErrUpstream})

	long := ""
	for len(long) < 150 {
		long += "observation "
	}
	opp, err := svc.AnalyzeManual(context.Background(), long, model.VerticalRetail, model.TypeTechGap)
	require.NoError(t, err)
	require.LessOrEqual(t, len([]rune(opp.EvidenceSnippet)), 100)
	require.Equal(t, model.StatusStaging, opp.Status)
}

func TestAnalyzeManual_SnippetKeepsMultiByteRunesIntact(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{err: ai.ErrUpstream})

	long := strings.Repeat("рыночный сигнал ", 20)
	opp, err := svc.AnalyzeManual(context.Background(), long, model.VerticalGeneral, model.TypeCustomerPain)
	require.NoError(t, err)
	require.True(t, utf8.ValidString(opp.EvidenceSnippet))
	require.Equal(t, 100, len([]rune(opp.EvidenceSnippet)))
	require.Equal(t, string([]rune(long)[:100]), opp.EvidenceSnippet)
}

func TestSyncSource_TransitionsToActive(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{})
	ctx := context.Background()

	ds, err := svc.SyncSource(ctx, "ds_1")
	require.NoError(t, err)
	require.Equal(t, model.SourceStatusSyncing, ds.Status)

	require.Eventually(t, func() bool {
		got, err := svc.Repo.GetDataSources(ctx)
		if err != nil {
			return false
		}
		for _, d := range got {
			if d.ID == "ds_1" {
				return d.Status == model.SourceStatusActive && d.LastSync == "Just now"
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncSource_UnknownID(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{})

	_, err := svc.SyncSource(context.Background(), "ds_nope")
	require.ErrorIs(t, err, repository.ErrDataSourceNotFound)
}

func TestSystemStatus_Counts(t *testing.T) {
	svc := newTestService(t, stubAnalyzer{})

	st, err := svc.SystemStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, st.TotalSources)
	require.Equal(t, 3, st.ActiveSources)
	require.Equal(t, 5, st.OpportunitiesProcessed)
}
