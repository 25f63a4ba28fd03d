package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/store"
)

// saveAttempts bounds the reload-and-retry loop a mutation runs when its
// compare-and-swap save loses to a concurrent writer.
const saveAttempts = 3

// defaultConfidence is the personal confidence a saved item starts with
// before the user sets their own score.
const defaultConfidence = 50

// WorkspaceRepo is the query/mutation surface over the workspace document.
// Every mutation loads the full document, applies the change in memory and
// writes the whole document back under the version it loaded.
type WorkspaceRepo struct {
	Store store.DocumentStore

	// now and newID are injectable for tests.
	now   func() time.Time
	newID func(prefix string) string
}

// NewWorkspaceRepo returns a repo over the given store.
func NewWorkspaceRepo(s store.DocumentStore) *WorkspaceRepo {
	return &WorkspaceRepo{
		Store: s,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func(prefix string) string { return prefix + uuid.NewString() },
	}
}

// mutate runs fn against a freshly loaded document and saves the result,
// retrying a bounded number of times on version conflicts. fn runs again on
// each retry against the reloaded document, so it must be safe to reapply.
func (r *WorkspaceRepo) mutate(ctx context.Context, fn func(d *model.Document) error) error {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		doc, version, err := r.Store.Load(ctx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		err = r.Store.Save(ctx, doc, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return err
		}
	}
	return ErrConflict
}

// ----- queries -----

func (r *WorkspaceRepo) GetUsers(ctx context.Context) ([]model.User, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func (r *WorkspaceRepo) GetTenants(ctx context.Context) ([]model.Tenant, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Tenants, nil
}

func (r *WorkspaceRepo) GetOpportunities(ctx context.Context) ([]model.Opportunity, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Opportunities, nil
}

func (r *WorkspaceRepo) GetAuditLogs(ctx context.Context) ([]model.AuditLog, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.AuditLogs, nil
}

func (r *WorkspaceRepo) GetDataSources(ctx context.Context) ([]model.DataSource, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.DataSources, nil
}

// FindUserByEmail fetches a user by normalized email.
func (r *WorkspaceRepo) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return model.User{}, err
	}
	if i := doc.FindUserByEmail(email); i >= 0 {
		return doc.Users[i], nil
	}
	return model.User{}, ErrUserNotFound
}

// GetUser fetches a user by id.
func (r *WorkspaceRepo) GetUser(ctx context.Context, id string) (model.User, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return model.User{}, err
	}
	if i := doc.FindUser(id); i >= 0 {
		return doc.Users[i], nil
	}
	return model.User{}, ErrUserNotFound
}

// GetOpportunity fetches an opportunity by id.
func (r *WorkspaceRepo) GetOpportunity(ctx context.Context, id string) (model.Opportunity, error) {
	doc, _, err := r.Store.Load(ctx)
	if err != nil {
		return model.Opportunity{}, err
	}
	if i := doc.FindOpportunity(id); i >= 0 {
		return doc.Opportunities[i], nil
	}
	return model.Opportunity{}, ErrOpportunityNotFound
}

// ----- mutations -----

// CreateUser appends a user and bumps the owning tenant's userCount by one.
// An unknown tenant slug leaves every userCount untouched; the user is still
// created. The display name is the local part of the email.
func (r *WorkspaceRepo) CreateUser(ctx context.Context, email, tenantSlug string, role model.UserRole) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var created model.User
	err := r.mutate(ctx, func(d *model.Document) error {
		created = model.User{
			ID:         r.newID("u_"),
			Email:      email,
			Name:       strings.SplitN(email, "@", 2)[0],
			Role:       role,
			TenantSlug: tenantSlug,
			Bookmarks:  []string{},
			SavedItems: []model.SavedOpportunity{},
		}
		d.Users = append(d.Users, created)
		if i := d.FindTenantBySlug(tenantSlug); i >= 0 {
			d.Tenants[i].UserCount++
		}
		return nil
	})
	return created, err
}

// CreateTenant appends a tenant on the Starter plan. The slug is derived
// from the name; userCount starts at 1 assuming the creator is the first
// user.
func (r *WorkspaceRepo) CreateTenant(ctx context.Context, name string) (model.Tenant, error) {
	var created model.Tenant
	err := r.mutate(ctx, func(d *model.Document) error {
		created = model.Tenant{
			ID:        r.newID("t_"),
			Name:      name,
			Slug:      Slugify(name),
			Plan:      model.PlanStarter,
			MRR:       0,
			UserCount: 1,
		}
		d.Tenants = append(d.Tenants, created)
		return nil
	})
	return created, err
}

// ToggleBookmark flips oppID in the user's bookmark set. Adding a bookmark
// also guarantees a saved-item placeholder exists; removing one leaves the
// saved item in place. Returns the updated user.
func (r *WorkspaceRepo) ToggleBookmark(ctx context.Context, userID, oppID string) (model.User, error) {
	var updated model.User
	err := r.mutate(ctx, func(d *model.Document) error {
		i := d.FindUser(userID)
		if i < 0 {
			return ErrUserNotFound
		}
		u := &d.Users[i]
		if u.HasBookmark(oppID) {
			kept := u.Bookmarks[:0]
			for _, id := range u.Bookmarks {
				if id != oppID {
					kept = append(kept, id)
				}
			}
			u.Bookmarks = kept
		} else {
			u.Bookmarks = append(u.Bookmarks, oppID)
			if u.SavedItem(oppID) < 0 {
				u.SavedItems = append(u.SavedItems, model.SavedOpportunity{
					OppID:              oppID,
					Note:               "",
					PersonalConfidence: defaultConfidence,
					SavedAt:            r.now().Format(time.RFC3339),
				})
			}
		}
		updated = *u
		return nil
	})
	return updated, err
}

// SavedItemPatch is a partial update to a saved item. Nil fields are left
// untouched.
type SavedItemPatch struct {
	Note               *string `json:"note,omitempty"`
	PersonalConfidence *int    `json:"personalConfidence,omitempty"`
}

// UpdateSavedItem upserts the saved item for (userID, oppID). When the item
// did not exist it is created with placeholder defaults and the bookmark is
// back-filled. Repeating the same patch is idempotent. Returns the updated
// user.
func (r *WorkspaceRepo) UpdateSavedItem(ctx context.Context, userID, oppID string, patch SavedItemPatch) (model.User, error) {
	var updated model.User
	err := r.mutate(ctx, func(d *model.Document) error {
		i := d.FindUser(userID)
		if i < 0 {
			return ErrUserNotFound
		}
		u := &d.Users[i]
		j := u.SavedItem(oppID)
		if j < 0 {
			u.SavedItems = append(u.SavedItems, model.SavedOpportunity{
				OppID:              oppID,
				Note:               "",
				PersonalConfidence: defaultConfidence,
				SavedAt:            r.now().Format(time.RFC3339),
			})
			j = len(u.SavedItems) - 1
			if !u.HasBookmark(oppID) {
				u.Bookmarks = append(u.Bookmarks, oppID)
			}
		}
		if patch.Note != nil {
			u.SavedItems[j].Note = *patch.Note
		}
		if patch.PersonalConfidence != nil {
			u.SavedItems[j].PersonalConfidence = *patch.PersonalConfidence
		}
		updated = *u
		return nil
	})
	return updated, err
}

// CreateAuditLog appends an audit record.
func (r *WorkspaceRepo) CreateAuditLog(ctx context.Context, userID, tenantSlug, action string, meta map[string]any) (model.AuditLog, error) {
	var created model.AuditLog
	err := r.mutate(ctx, func(d *model.Document) error {
		created = model.AuditLog{
			ID:         r.newID("log_"),
			UserID:     userID,
			TenantSlug: tenantSlug,
			Action:     action,
			Timestamp:  r.now().Format(time.RFC3339),
			Meta:       meta,
		}
		d.AuditLogs = append(d.AuditLogs, created)
		return nil
	})
	return created, err
}

// AddOpportunity prepends the opportunity so the newest entry leads the feed.
func (r *WorkspaceRepo) AddOpportunity(ctx context.Context, opp model.Opportunity) (model.Opportunity, error) {
	err := r.mutate(ctx, func(d *model.Document) error {
		d.Opportunities = append([]model.Opportunity{opp}, d.Opportunities...)
		return nil
	})
	return opp, err
}

// UpdateOpportunity merges the patch into the opportunity with the given id.
func (r *WorkspaceRepo) UpdateOpportunity(ctx context.Context, id string, patch model.OpportunityPatch) (model.Opportunity, error) {
	var updated model.Opportunity
	err := r.mutate(ctx, func(d *model.Document) error {
		i := d.FindOpportunity(id)
		if i < 0 {
			return ErrOpportunityNotFound
		}
		patch.Apply(&d.Opportunities[i])
		updated = d.Opportunities[i]
		return nil
	})
	return updated, err
}

// DeleteOpportunity filters the opportunity out of the feed. Saved items and
// bookmarks referencing the id are left behind; readers drop the orphans at
// display time.
func (r *WorkspaceRepo) DeleteOpportunity(ctx context.Context, id string) error {
	return r.mutate(ctx, func(d *model.Document) error {
		kept := d.Opportunities[:0]
		for _, o := range d.Opportunities {
			if o.ID != id {
				kept = append(kept, o)
			}
		}
		d.Opportunities = kept
		return nil
	})
}

// UpdateDataSource sets the sync status fields of a feed record.
func (r *WorkspaceRepo) UpdateDataSource(ctx context.Context, id, status, lastSync string) (model.DataSource, error) {
	var updated model.DataSource
	err := r.mutate(ctx, func(d *model.Document) error {
		for i := range d.DataSources {
			if d.DataSources[i].ID == id {
				d.DataSources[i].Status = status
				d.DataSources[i].LastSync = lastSync
				updated = d.DataSources[i]
				return nil
			}
		}
		return ErrDataSourceNotFound
	})
	return updated, err
}
