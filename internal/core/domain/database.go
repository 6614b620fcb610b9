package domain

// ReferenceDatabase describes a named, downloadable reference database
// that searches can run against. The registry of known databases lives
// in the databases adapter; this type is the shared descriptor.
type ReferenceDatabase struct {
	// Name is the registry key, e.g. "silva" or "pfam".
	Name string

	// Description is a one-line human summary.
	Description string

	// SeqType is the database's sequence type.
	SeqType SequenceType

	// URL is where the database file is fetched from.
	URL string

	// Compressed marks gzip-compressed downloads that must be
	// unpacked after retrieval.
	Compressed bool
}
