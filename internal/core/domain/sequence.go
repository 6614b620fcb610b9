package domain

// SequenceRecord is a single query sequence read from a FASTA file.
// Records are immutable once read.
type SequenceRecord struct {
	// ID is the first word of the FASTA header line.
	ID string

	// Description is the remainder of the header line, if any.
	Description string

	// Seq holds the residues or bases.
	Seq []byte
}

// SequenceCollection is an ordered set of records, in input-file order.
type SequenceCollection []SequenceRecord

// ApproxSize returns an estimate of the FASTA-encoded byte size of the
// collection, used when splitting by a byte-size target.
func (c SequenceCollection) ApproxSize() int64 {
	var total int64
	for _, rec := range c {
		// ">" + header + "\n" + sequence + "\n"
		total += int64(1 + len(rec.ID) + 1 + len(rec.Seq) + 1)
		if rec.Description != "" {
			total += int64(1 + len(rec.Description))
		}
	}
	return total
}

// SequenceType distinguishes nucleotide from protein sequences.
// The values match the NCBI BLAST+ -dbtype vocabulary.
type SequenceType string

const (
	// Nucleotide marks DNA/RNA sequences.
	Nucleotide SequenceType = "nucl"

	// Protein marks amino-acid sequences.
	Protein SequenceType = "prot"
)

// Valid reports whether the sequence type is one of the known values.
func (t SequenceType) Valid() bool {
	return t == Nucleotide || t == Protein
}
