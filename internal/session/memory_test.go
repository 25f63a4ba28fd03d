package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

func TestMemoryStore_UserRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetUser(ctx, "u_1")
	require.ErrorIs(t, err, ErrNotFound)

	u := model.User{ID: "u_1", Email: "a@b.c", Bookmarks: []string{"opp_1"}}
	require.NoError(t, s.PutUser(ctx, u))

	got, err := s.GetUser(ctx, "u_1")
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.Bookmarks, got.Bookmarks)

	require.NoError(t, s.DeleteUser(ctx, "u_1"))
	_, err = s.GetUser(ctx, "u_1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.DeleteUser(context.Background(), "u_ghost"))
}

func TestMemoryStore_ChatRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := model.ChatSession{ID: "chat_1", SystemInstruction: "be brief", Messages: []model.ChatMessage{{ID: "init", Role: model.ChatRoleModel, Text: "hi"}}}
	require.NoError(t, s.PutChat(ctx, sess))

	got, err := s.GetChat(ctx, "chat_1")
	require.NoError(t, err)
	require.Equal(t, sess.SystemInstruction, got.SystemInstruction)
	require.Len(t, got.Messages, 1)

	_, err = s.GetChat(ctx, "chat_ghost")
	require.ErrorIs(t, err, ErrNotFound)
}
