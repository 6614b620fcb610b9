package driven

import (
	"context"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// DatabaseProvider resolves named reference databases to local paths,
// downloading and unpacking them when absent.
type DatabaseProvider interface {
	// Ensure returns the local path for the named database, fetching
	// it first if it is not installed.
	Ensure(ctx context.Context, name string) (string, error)

	// Lookup returns the descriptor for a known database name.
	Lookup(name string) (domain.ReferenceDatabase, error)

	// List returns the descriptors of all known databases.
	List() []domain.ReferenceDatabase
}
