package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/session"
	"github.com/nsoftlabs/whitespace-server/internal/store"
)

func newSavedFixture(t *testing.T) (*SavedHandler, *repository.WorkspaceRepo, session.Store) {
	t.Helper()
	repo := repository.NewWorkspaceRepo(store.NewMemoryStore())
	sessions := session.NewMemoryStore()
	return NewSavedHandler(repo, sessions, nil), repo, sessions
}

func TestToggleHandler_UpdatesStoreAndSession(t *testing.T) {
	h, _, sessions := newSavedFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/saved/opp_2/toggle", "")
	c.SetParamNames("oppId")
	c.SetParamValues("opp_2")
	c.Set("user_id", "u_3")

	require.NoError(t, h.Toggle(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var u model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.True(t, u.HasBookmark("opp_2"))

	// The session copy tracks the document store.
	su, err := sessions.GetUser(c.Request().Context(), "u_3")
	require.NoError(t, err)
	require.True(t, su.HasBookmark("opp_2"))
}

func TestUpdateItemHandler_ValidatesConfidence(t *testing.T) {
	h, _, _ := newSavedFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPut, "/v1/saved/opp_2", `{"personalConfidence":120}`)
	c.SetParamNames("oppId")
	c.SetParamValues("opp_2")
	c.Set("user_id", "u_3")

	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItemHandler_Upserts(t *testing.T) {
	h, _, _ := newSavedFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPut, "/v1/saved/opp_3", `{"note":"strong angle","personalConfidence":80}`)
	c.SetParamNames("oppId")
	c.SetParamValues("opp_3")
	c.Set("user_id", "u_3")

	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var u model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	j := u.SavedItem("opp_3")
	require.GreaterOrEqual(t, j, 0)
	require.Equal(t, "strong angle", u.SavedItems[j].Note)
	require.Equal(t, 80, u.SavedItems[j].PersonalConfidence)
	require.True(t, u.HasBookmark("opp_3"))
}

func TestListHandler_DropsOrphanedAnnotations(t *testing.T) {
	h, repo, _ := newSavedFixture(t)
	e := echo.New()

	// u_2 has a saved item on opp_1 in the seed. Delete the opportunity and
	// the annotation should silently disappear from the listing while
	// remaining in the stored user record.
	require.NoError(t, repo.DeleteOpportunity(t.Context(), "opp_1"))

	c, rec := doJSON(e, http.MethodGet, "/v1/saved", "")
	c.Set("user_id", "u_2")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []savedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Empty(t, entries)

	u, err := repo.GetUser(t.Context(), "u_2")
	require.NoError(t, err)
	require.GreaterOrEqual(t, u.SavedItem("opp_1"), 0, "the stored annotation survives")
}
