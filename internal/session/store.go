// Package session keeps the serialized record of each authenticated user
// under a namespaced key, separate from the workspace document. Handlers
// rewrite the record whenever a mutation changes the user (bookmark toggles,
// saved-item edits) so the cached session tracks the backing store. The two
// writes are not atomic; the document store write happens first and wins.
//
// Copilot chat conversations are held here too: they are per-session state
// with the same lifetime and backing needs as the user records.
package session

import (
	"context"
	"errors"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

const (
	userKeyPrefix = "whitespace_session_user:"
	chatKeyPrefix = "whitespace_chat_session:"
)

// ErrNotFound is returned when no record exists under the requested key.
var ErrNotFound = errors.New("session not found")

// Store persists session-scoped state. Implementations must treat each key
// read/write as atomic at key granularity.
type Store interface {
	PutUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
	DeleteUser(ctx context.Context, userID string) error

	PutChat(ctx context.Context, s model.ChatSession) error
	GetChat(ctx context.Context, sessionID string) (model.ChatSession, error)
}
