package backends

import (
	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// DefaultRegistry returns every supported backend keyed by algorithm,
// ready to hand to the runner service.
func DefaultRegistry(runner driven.CommandRunner) map[domain.Algorithm]driven.SearchBackend {
	return map[domain.Algorithm]driven.SearchBackend{
		domain.AlgorithmBLAST:   NewBLAST(runner),
		domain.AlgorithmVSEARCH: NewVSEARCH(),
		domain.AlgorithmHMMER:   NewHMMER(),
	}
}
