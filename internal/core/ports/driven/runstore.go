package driven

import (
	"context"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// RunStore persists run manifests so past runs can be listed and
// inspected.
type RunStore interface {
	// Save stores a manifest. Creates if new, updates if exists.
	Save(ctx context.Context, manifest domain.RunManifest) error

	// Get retrieves a manifest by run ID.
	Get(ctx context.Context, id string) (*domain.RunManifest, error)

	// List returns all manifests, newest first.
	List(ctx context.Context) ([]domain.RunManifest, error)

	// Delete removes a manifest by run ID.
	Delete(ctx context.Context, id string) error
}
