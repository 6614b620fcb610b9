// Package driving defines the primary (driving) ports: the use-case
// interfaces the CLI calls into. Core services implement them.
package driving
