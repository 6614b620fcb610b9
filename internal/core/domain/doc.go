// Package domain defines the core business entities for seqsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SequenceRecord: A single FASTA query sequence
//   - Chunk: A contiguous slice of the input written to its own file
//   - SearchOptions: Algorithm-independent search configuration
//   - JobDescriptor: Terminal state of one chunk's search invocation
//   - RunManifest: Everything that happened during one run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
