package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

func TestMemoryStore_InstallsSeedOnFirstLoad(t *testing.T) {
	s := NewMemoryStore()

	doc, version, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), version)
	require.NotEmpty(t, doc.Users)
	require.NotEmpty(t, doc.Tenants)
	require.NotEmpty(t, doc.Opportunities)
}

func TestMemoryStore_SaveBumpsVersion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc, version, err := s.Load(ctx)
	require.NoError(t, err)

	doc.AuditLogs = append(doc.AuditLogs, model.AuditLog{ID: "log_x", Action: "subscription_created"})
	require.NoError(t, s.Save(ctx, doc, version))

	doc2, version2, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, version+1, version2)
	require.Len(t, doc2.AuditLogs, 1)
}

func TestMemoryStore_StaleVersionIsRejected(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc, version, err := s.Load(ctx)
	require.NoError(t, err)

	// First writer wins.
	require.NoError(t, s.Save(ctx, doc, version))

	// Second writer holding the old version must be turned away.
	err = s.Save(ctx, doc, version)
	require.ErrorIs(t, err, ErrVersionConflict)
}

func TestMemoryStore_CorruptBodyFailsFast(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _, err := s.Load(ctx)
	require.NoError(t, err)

	s.Corrupt()

	_, _, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrCorrupt)

	// The broken body stays in place; nothing reseeds silently.
	_, _, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestMemoryStore_CustomSeed(t *testing.T) {
	s := NewMemoryStoreWithSeed(func() *model.Document {
		return &model.Document{Users: []model.User{{ID: "u_only"}}}
	})

	doc, _, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Users, 1)
	require.Equal(t, "u_only", doc.Users[0].ID)
	require.Empty(t, doc.Opportunities)
}
