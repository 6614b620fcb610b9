package domain

// SplitPolicy decides what happens when the requested chunk count
// exceeds the number of records.
type SplitPolicy string

const (
	// SplitClamp reduces the chunk count to one record per chunk.
	SplitClamp SplitPolicy = "clamp"

	// SplitStrict rejects the request with an input error.
	SplitStrict SplitPolicy = "strict"
)

// Valid reports whether the policy is a known value.
func (p SplitPolicy) Valid() bool {
	return p == SplitClamp || p == SplitStrict
}

// SplitSpec describes how to partition the input. Exactly one of
// Parts, RecordsPerPart or PartSizeBytes may be set; all zero means
// the runner falls back to its configured parallelism.
type SplitSpec struct {
	// Parts is the target number of chunks.
	Parts int

	// RecordsPerPart targets a fixed number of records per chunk.
	RecordsPerPart int

	// PartSizeBytes targets an approximate FASTA byte size per chunk.
	PartSizeBytes int64

	// Policy handles the chunk count > record count degenerate case.
	// Defaults to SplitClamp.
	Policy SplitPolicy
}

// Targets returns how many of the three split targets are set.
func (s SplitSpec) Targets() int {
	n := 0
	if s.Parts > 0 {
		n++
	}
	if s.RecordsPerPart > 0 {
		n++
	}
	if s.PartSizeBytes > 0 {
		n++
	}
	return n
}
