package domain

// Algorithm selects which external search tool to run.
type Algorithm string

const (
	// AlgorithmBLAST uses the NCBI BLAST+ suite (blastn, blastp,
	// blastx or tblastn, auto-selected from the sequence types).
	AlgorithmBLAST Algorithm = "blast"

	// AlgorithmVSEARCH uses vsearch's usearch_global mode.
	AlgorithmVSEARCH Algorithm = "vsearch"

	// AlgorithmHMMER uses hmmsearch against a profile HMM database.
	AlgorithmHMMER Algorithm = "hmmer"
)

// Valid reports whether the algorithm is one of the supported tools.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmBLAST, AlgorithmVSEARCH, AlgorithmHMMER:
		return true
	default:
		return false
	}
}

// SearchOptions is the algorithm-independent configuration for one
// search. Each backend translates these into its own tool's argument
// list; options a tool does not support are ignored by that backend.
type SearchOptions struct {
	// Algorithm picks the backend.
	Algorithm Algorithm

	// QueryType is the sequence type of the input FASTA.
	QueryType SequenceType

	// DBType is the sequence type of the reference database.
	DBType SequenceType

	// OutFormat is the tool's output format selector. For BLAST this
	// is the -outfmt argument (e.g. "6" or a custom column list like
	// "6 qseqid sseqid pident qcovs evalue"). Empty means the tool
	// default.
	OutFormat string

	// EValue is the expectation-value threshold. Zero means unset.
	EValue float64

	// MaxTargets caps the number of reported hits per query.
	// Zero means unset.
	MaxTargets int

	// MinIdentity filters tabular results after the search, as a
	// fraction in [0,1]. Requires a pident column in OutFormat.
	// Zero disables the filter.
	MinIdentity float64

	// MinCoverage filters tabular results after the search, as a
	// fraction in [0,1]. Requires a qcovs column in OutFormat.
	// Zero disables the filter.
	MinCoverage float64

	// Threads is the per-invocation thread count passed to the tool.
	// In chunked runs this is normally 1, parallelism coming from the
	// number of chunks instead.
	Threads int

	// Extra is appended verbatim to the tool's argument list.
	Extra []string
}

// Validate checks the option set for values no backend could accept.
func (o SearchOptions) Validate() error {
	if !o.Algorithm.Valid() {
		return ErrUnsupportedAlgorithm
	}
	if !o.QueryType.Valid() || !o.DBType.Valid() {
		return ErrInvalidInput
	}
	if o.MinIdentity < 0 || o.MinIdentity > 1 || o.MinCoverage < 0 || o.MinCoverage > 1 {
		return ErrInvalidInput
	}
	return nil
}
