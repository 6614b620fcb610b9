// Package sqlite implements the RunStore port on an embedded SQLite
// database, keeping a durable history of past runs and their
// per-chunk outcomes.
package sqlite
