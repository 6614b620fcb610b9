// Package cli is the driving adapter exposing seqsearch over a cobra
// command tree: run (chunked search), db (reference databases), runs
// (run history) and version.
package cli
