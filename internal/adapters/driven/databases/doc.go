// Package databases implements the DatabaseProvider port: a registry
// of named reference databases and a rate-limited HTTP downloader
// that installs them under the local database directory on demand.
package databases
