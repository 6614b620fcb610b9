// Package services implements the core use cases: splitting query
// input into chunks, running a search backend over every chunk via an
// executor, filtering tabular results, and merging chunk outputs back
// into one result file.
package services
