package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/store"
)

func newTestRepo(t *testing.T) *WorkspaceRepo {
	t.Helper()
	r := NewWorkspaceRepo(store.NewMemoryStore())
	seq := 0
	r.newID = func(prefix string) string {
		seq++
		return fmt.Sprintf("%stest%d", prefix, seq)
	}
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestToggleBookmark_AddCreatesPlaceholderSavedItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u, err := r.ToggleBookmark(ctx, "u_3", "opp_2")
	require.NoError(t, err)
	require.True(t, u.HasBookmark("opp_2"))

	j := u.SavedItem("opp_2")
	require.GreaterOrEqual(t, j, 0)
	require.Equal(t, "", u.SavedItems[j].Note)
	require.Equal(t, 50, u.SavedItems[j].PersonalConfidence)
	require.NotEmpty(t, u.SavedItems[j].SavedAt)
}

func TestToggleBookmark_RemoveKeepsSavedItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.ToggleBookmark(ctx, "u_3", "opp_2")
	require.NoError(t, err)

	u, err := r.ToggleBookmark(ctx, "u_3", "opp_2")
	require.NoError(t, err)
	require.False(t, u.HasBookmark("opp_2"))
	require.GreaterOrEqual(t, u.SavedItem("opp_2"), 0, "untoggling keeps the annotation")
}

func TestToggleBookmark_RetoggleDoesNotDuplicateSavedItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	note := "worth a second look"
	_, err := r.ToggleBookmark(ctx, "u_3", "opp_2")
	require.NoError(t, err)
	_, err = r.UpdateSavedItem(ctx, "u_3", "opp_2", SavedItemPatch{Note: &note})
	require.NoError(t, err)
	_, err = r.ToggleBookmark(ctx, "u_3", "opp_2") // off
	require.NoError(t, err)

	u, err := r.ToggleBookmark(ctx, "u_3", "opp_2") // on again
	require.NoError(t, err)

	count := 0
	for _, item := range u.SavedItems {
		if item.OppID == "opp_2" {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Equal(t, note, u.SavedItems[u.SavedItem("opp_2")].Note, "the note survives the off/on cycle")
}

func TestToggleBookmark_UnknownUser(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.ToggleBookmark(context.Background(), "u_missing", "opp_2")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateSavedItem_UpsertBackfillsBookmark(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	conf := 90
	u, err := r.UpdateSavedItem(ctx, "u_3", "opp_3", SavedItemPatch{PersonalConfidence: &conf})
	require.NoError(t, err)
	require.True(t, u.HasBookmark("opp_3"), "saving an unbookmarked opportunity bookmarks it")

	j := u.SavedItem("opp_3")
	require.GreaterOrEqual(t, j, 0)
	require.Equal(t, 90, u.SavedItems[j].PersonalConfidence)
	require.Equal(t, "", u.SavedItems[j].Note)
}

func TestUpdateSavedItem_PartialPatchAndIdempotence(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	note := "regulatory angle"
	u1, err := r.UpdateSavedItem(ctx, "u_2", "opp_1", SavedItemPatch{Note: &note})
	require.NoError(t, err)

	j := u1.SavedItem("opp_1")
	require.Equal(t, note, u1.SavedItems[j].Note)
	// The seed gives u_2 a confidence of 95 on opp_1; a note-only patch
	// must not disturb it.
	require.Equal(t, 95, u1.SavedItems[j].PersonalConfidence)

	u2, err := r.UpdateSavedItem(ctx, "u_2", "opp_1", SavedItemPatch{Note: &note})
	require.NoError(t, err)
	require.Equal(t, u1.SavedItems[u1.SavedItem("opp_1")], u2.SavedItems[u2.SavedItem("opp_1")])
	require.Equal(t, len(u1.SavedItems), len(u2.SavedItems))
}

func TestCreateUser_DerivesNameAndBumpsUserCount(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, "Scout@FinTech.com", "fintech-innovators", model.RoleTenantUser)
	require.NoError(t, err)
	require.Equal(t, "scout@fintech.com", u.Email)
	require.Equal(t, "scout", u.Name)
	require.Equal(t, model.RoleTenantUser, u.Role)
	require.NotNil(t, u.Bookmarks)
	require.NotNil(t, u.SavedItems)

	tenants, err := r.GetTenants(ctx)
	require.NoError(t, err)
	for _, tn := range tenants {
		if tn.Slug == "fintech-innovators" {
			require.Equal(t, 3, tn.UserCount)
			return
		}
	}
	t.Fatal("tenant not found")
}

func TestCreateUser_UnknownTenantSlugStillCreates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	before, err := r.GetTenants(ctx)
	require.NoError(t, err)

	u, err := r.CreateUser(ctx, "lost@nowhere.com", "no-such-tenant", model.RoleTenantUser)
	require.NoError(t, err)
	require.Equal(t, "no-such-tenant", u.TenantSlug)

	after, err := r.GetTenants(ctx)
	require.NoError(t, err)
	for i := range before {
		require.Equal(t, before[i].UserCount, after[i].UserCount, "no userCount changes for an unknown slug")
	}

	got, err := r.FindUserByEmail(ctx, "lost@nowhere.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestCreateTenant_SlugPlanAndCount(t *testing.T) {
	r := newTestRepo(t)

	tn, err := r.CreateTenant(context.Background(), "Acme Corp!!")
	require.NoError(t, err)
	require.Equal(t, "acme-corp", tn.Slug)
	require.Equal(t, model.PlanStarter, tn.Plan)
	require.Equal(t, 1, tn.UserCount)
	require.Equal(t, 0, tn.MRR)
}

func TestFindUserByEmail_Normalizes(t *testing.T) {
	r := newTestRepo(t)

	u, err := r.FindUserByEmail(context.Background(), "  Admin@FinTech.COM ")
	require.NoError(t, err)
	require.Equal(t, "u_2", u.ID)

	_, err = r.FindUserByEmail(context.Background(), "ghost@void.org")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddOpportunity_PrependsToFeed(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.AddOpportunity(ctx, model.Opportunity{ID: "opp_new", Title: "Fresh Signal", Status: model.StatusStaging})
	require.NoError(t, err)

	opps, err := r.GetOpportunities(ctx)
	require.NoError(t, err)
	require.Equal(t, "opp_new", opps[0].ID)
}

func TestUpdateOpportunity_PatchMergesFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	title := "Renamed"
	score := 99
	o, err := r.UpdateOpportunity(ctx, "opp_2", model.OpportunityPatch{Title: &title, ImpactScore: &score})
	require.NoError(t, err)
	require.Equal(t, "Renamed", o.Title)
	require.Equal(t, 99, o.ImpactScore)
	require.Equal(t, model.StatusActive, o.Status, "unpatched fields keep their values")

	_, err = r.UpdateOpportunity(ctx, "opp_missing", model.OpportunityPatch{Title: &title})
	require.ErrorIs(t, err, ErrOpportunityNotFound)
}

func TestDeleteOpportunity_LeavesDanglingReferences(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.DeleteOpportunity(ctx, "opp_1"))

	_, err := r.GetOpportunity(ctx, "opp_1")
	require.ErrorIs(t, err, ErrOpportunityNotFound)

	// u_2 bookmarked opp_1 in the seed; the references stay behind.
	u, err := r.GetUser(ctx, "u_2")
	require.NoError(t, err)
	require.True(t, u.HasBookmark("opp_1"))
	require.GreaterOrEqual(t, u.SavedItem("opp_1"), 0)

	// Deleting an id that is already gone is not an error.
	require.NoError(t, r.DeleteOpportunity(ctx, "opp_1"))
}

func TestCreateAuditLog_Appends(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	entry, err := r.CreateAuditLog(ctx, "u_2", "fintech-innovators", "subscription_created", map[string]any{"priceId": "price_growth"})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.NotEmpty(t, entry.Timestamp)

	logs, err := r.GetAuditLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "subscription_created", logs[0].Action)
}

func TestUpdateDataSource(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	ds, err := r.UpdateDataSource(ctx, "ds_1", model.SourceStatusSyncing, "syncing")
	require.NoError(t, err)
	require.Equal(t, model.SourceStatusSyncing, ds.Status)
	require.Equal(t, "syncing", ds.LastSync)

	_, err = r.UpdateDataSource(ctx, "ds_nope", model.SourceStatusActive, "now")
	require.ErrorIs(t, err, ErrDataSourceNotFound)
}

// conflictStore loses every save so the retry loop always runs dry.
type conflictStore struct {
	inner store.DocumentStore
	saves int
}

func (c *conflictStore) Load(ctx context.Context) (*model.Document, uint64, error) {
	return c.inner.Load(ctx)
}

func (c *conflictStore) Save(ctx context.Context, doc *model.Document, version uint64) error {
	c.saves++
	return store.ErrVersionConflict
}

func TestMutate_ExhaustedRetriesReturnConflict(t *testing.T) {
	cs := &conflictStore{inner: store.NewMemoryStore()}
	r := NewWorkspaceRepo(cs)

	_, err := r.CreateTenant(context.Background(), "Doomed Inc")
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 3, cs.saves)
}

func TestMutate_CorruptStoreSurfaces(t *testing.T) {
	ms := store.NewMemoryStore()
	_, _, err := ms.Load(context.Background())
	require.NoError(t, err)
	ms.Corrupt()

	r := NewWorkspaceRepo(ms)
	_, err = r.GetUsers(context.Background())
	require.ErrorIs(t, err, store.ErrCorrupt)

	_, err = r.CreateTenant(context.Background(), "Broken")
	require.ErrorIs(t, err, store.ErrCorrupt)
}
