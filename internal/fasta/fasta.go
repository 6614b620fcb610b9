// Package fasta reads and writes FASTA files for the chunked search
// runner. Parsing is deliberately conservative: headers start with
// '>', sequence lines are concatenated, blank lines are skipped.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// seqLineWidth is the wrap width for written sequences.
const seqLineWidth = 70

// ReadAll parses every record from r, preserving input order.
func ReadAll(r io.Reader) (domain.SequenceCollection, error) {
	sc := bufio.NewScanner(r)
	// Allow very long single-line sequences.
	const maxLine = 64 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		records domain.SequenceCollection
		current *domain.SequenceRecord
	)
	flush := func() {
		if current != nil {
			records = append(records, *current)
			current = nil
		}
	}
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			id, desc := splitHeader(string(line[1:]))
			current = &domain.SequenceRecord{ID: id, Description: desc}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("%w: sequence data before first header", domain.ErrInvalidInput)
		}
		current.Seq = append(current.Seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning fasta: %w", err)
	}
	flush()
	return records, nil
}

// ReadFile parses every record from path. Gzip-compressed files are
// detected by magic number or a .gz suffix; "-" reads stdin.
func ReadFile(path string) (domain.SequenceCollection, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadAll(rc)
}

// Write renders records to w in input order, wrapping sequence lines.
func Write(w io.Writer, records domain.SequenceCollection) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if rec.Description != "" {
			fmt.Fprintf(bw, ">%s %s\n", rec.ID, rec.Description)
		} else {
			fmt.Fprintf(bw, ">%s\n", rec.ID)
		}
		for off := 0; off < len(rec.Seq); off += seqLineWidth {
			end := off + seqLineWidth
			if end > len(rec.Seq) {
				end = len(rec.Seq)
			}
			bw.Write(rec.Seq[off:end])
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// WriteFile writes records to a new file at path.
func WriteFile(path string, records domain.SequenceCollection) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, records); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path, transparently decompressing gzip
// input. "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// Detect gzip by magic number (1F 8B) or by .gz suffix.
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// splitHeader separates a FASTA header into ID (first word) and the
// remaining description.
func splitHeader(header string) (id, desc string) {
	header = strings.TrimSpace(header)
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}
