// Package file implements the ConfigStore port on a TOML file in the
// seqsearch config directory.
package file
