package databases

import "github.com/custodia-labs/seqsearch-cli/internal/core/domain"

// builtin is the registry of downloadable reference databases. The
// selection mirrors the classics: SILVA for rRNA, Pfam for protein
// families, the NCBI 16S set for targeted loci.
var builtin = []domain.ReferenceDatabase{
	{
		Name:        "silva",
		Description: "SILVA SSURef NR99 ribosomal RNA sequences (release 138.1)",
		SeqType:     domain.Nucleotide,
		URL:         "https://www.arb-silva.de/fileadmin/silva_databases/release_138_1/Exports/SILVA_138.1_SSURef_NR99_tax_silva.fasta.gz",
		Compressed:  true,
	},
	{
		Name:        "pfam",
		Description: "Pfam-A profile HMMs for protein family search",
		SeqType:     domain.Protein,
		URL:         "https://ftp.ebi.ac.uk/pub/databases/Pfam/current_release/Pfam-A.hmm.gz",
		Compressed:  true,
	},
	{
		Name:        "ncbi-16s",
		Description: "NCBI curated bacterial and archaeal 16S rRNA sequences",
		SeqType:     domain.Nucleotide,
		URL:         "https://ftp.ncbi.nlm.nih.gov/blast/db/FASTA/16S_ribosomal_RNA.fasta.gz",
		Compressed:  true,
	},
	{
		Name:        "swissprot",
		Description: "UniProtKB/Swiss-Prot curated protein sequences",
		SeqType:     domain.Protein,
		URL:         "https://ftp.ncbi.nlm.nih.gov/blast/db/FASTA/swissprot.gz",
		Compressed:  true,
	},
}
