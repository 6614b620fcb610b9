// Package backends implements the SearchBackend port for the
// supported external tools: NCBI BLAST+, VSEARCH and HMMER. Each
// backend translates the common SearchOptions into its tool's
// argument list and knows how to prepare that tool's database index.
package backends
