// Package store persists the whole workspace document at a single key.
// Every reader gets the full document plus a version number; every writer
// hands both back and the save succeeds only if the version still matches.
// The original product kept this document under one browser localStorage key
// with no concurrency control at all; the version check is what a
// multi-client server needs instead of relying on single-tab execution.
package store

import (
	"context"
	"errors"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

// DocumentKey is the single namespaced key the workspace document lives under.
const DocumentKey = "whitespace_db_v1"

// ErrVersionConflict is returned by Save when the stored version no longer
// matches the one the caller loaded. Callers reload and retry.
var ErrVersionConflict = errors.New("document version conflict")

// ErrCorrupt is returned by Load when the stored body does not parse. This
// is deliberately fatal to the operation: a corrupt document is never
// silently replaced with the seed, so the bug stays visible.
var ErrCorrupt = errors.New("stored document is corrupt")

// DocumentStore is the read/modify/write surface over the persisted
// document. Load installs the seed document on first use.
type DocumentStore interface {
	// Load returns the current document and its version.
	Load(ctx context.Context) (*model.Document, uint64, error)
	// Save overwrites the document if version still matches the stored one.
	Save(ctx context.Context, doc *model.Document, version uint64) error
}
