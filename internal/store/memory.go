package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

// decode unmarshals a stored document body. Parse failures are reported as
// ErrCorrupt so callers can tell "the document is broken" apart from
// infrastructure errors.
func decode(body []byte) (*model.Document, error) {
	var d model.Document
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &d, nil
}

// MemoryStore keeps the serialized document in process memory. It is used by
// tests and by local development without MySQL. The document is held as JSON
// bytes rather than a live struct so that the store behaves exactly like the
// durable backends: every Load parses, every Save serializes, and a corrupt
// body fails the same way.
type MemoryStore struct {
	mu      sync.Mutex
	body    []byte
	version uint64
	seed    func() *model.Document
}

// NewMemoryStore returns an empty MemoryStore that installs the default seed
// document on first load.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seed: SeedDocument}
}

// NewMemoryStoreWithSeed overrides the seed document, which keeps tests
// independent of the fixture data.
func NewMemoryStoreWithSeed(seed func() *model.Document) *MemoryStore {
	return &MemoryStore{seed: seed}
}

// Load returns the current document, installing the seed if none exists.
func (s *MemoryStore) Load(ctx context.Context) (*model.Document, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == nil {
		body, err := json.Marshal(s.seed())
		if err != nil {
			return nil, 0, err
		}
		s.body = body
		s.version = 1
	}
	d, err := decode(s.body)
	if err != nil {
		return nil, 0, err
	}
	return d, s.version, nil
}

// Save overwrites the document when the version matches.
func (s *MemoryStore) Save(ctx context.Context, doc *model.Document, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body != nil && version != s.version {
		return ErrVersionConflict
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.body = body
	s.version++
	return nil
}

// Corrupt replaces the stored body with garbage. Test hook for the
// fail-fast corruption path.
func (s *MemoryStore) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = []byte("{not json")
	if s.version == 0 {
		s.version = 1
	}
}
