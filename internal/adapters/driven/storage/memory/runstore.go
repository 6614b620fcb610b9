// Package memory provides in-memory implementations of the storage
// ports, used in tests and as a fallback when persistence is
// unavailable.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunManifest
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]domain.RunManifest)}
}

// Save stores or updates a manifest.
func (s *RunStore) Save(_ context.Context, manifest domain.RunManifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[manifest.ID] = manifest
	return nil
}

// Get retrieves a manifest by run ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.RunManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	manifest, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &manifest, nil
}

// List returns all manifests, newest first.
func (s *RunStore) List(_ context.Context) ([]domain.RunManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.RunManifest, 0, len(s.runs))
	for _, manifest := range s.runs {
		result = append(result, manifest)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a manifest by run ID.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}
