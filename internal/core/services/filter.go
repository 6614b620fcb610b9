package services

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// Thresholds in SearchOptions are fractions; tabular BLAST columns
// carry percentages.
const percent = 100

// filterColumns resolves the column positions needed for post-run
// filtering from a BLAST custom output format string such as
// "6 qseqid sseqid pident qcovs evalue". The first token is the
// format number and carries no column.
type filterColumns struct {
	identity int // position of pident, -1 when unused
	coverage int // position of qcovs, -1 when unused
}

// resolveFilterColumns validates that the output format contains the
// columns the requested filters need. Called before any search runs so
// a misconfigured filter fails the run up front instead of after hours
// of compute.
func resolveFilterColumns(opts domain.SearchOptions) (filterColumns, error) {
	cols := filterColumns{identity: -1, coverage: -1}
	if opts.MinIdentity == 0 && opts.MinCoverage == 0 {
		return cols, nil
	}
	fields := strings.Fields(strings.Trim(opts.OutFormat, `"`))
	if opts.MinIdentity > 0 {
		i := indexOf(fields, "pident")
		if i < 1 {
			return cols, fmt.Errorf("%w: cannot filter on minimum identity, pident not in output format",
				domain.ErrInvalidInput)
		}
		cols.identity = i - 1
	}
	if opts.MinCoverage > 0 {
		i := indexOf(fields, "qcovs")
		if i < 1 {
			return cols, fmt.Errorf("%w: cannot filter on minimum coverage, qcovs not in output format",
				domain.ErrInvalidInput)
		}
		cols.coverage = i - 1
	}
	return cols, nil
}

func (c filterColumns) active() bool {
	return c.identity >= 0 || c.coverage >= 0
}

// FilterTabular rewrites the tabular results file at path, keeping
// only lines that meet the minimum identity and coverage thresholds.
// The rewrite goes through a temp file and a rename so an interrupted
// filter never corrupts the results.
func FilterTabular(path string, opts domain.SearchOptions) error {
	cols, err := resolveFilterColumns(opts)
	if err != nil {
		return err
	}
	if !cols.active() {
		return nil
	}

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".filter-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		keep, err := keepLine(line, cols, opts)
		if err != nil {
			tmp.Close()
			return err
		}
		if keep {
			w.WriteString(line)
			w.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func keepLine(line string, cols filterColumns, opts domain.SearchOptions) (bool, error) {
	// Comment lines (outfmt 7) pass through untouched.
	if strings.HasPrefix(line, "#") {
		return true, nil
	}
	fields := strings.Fields(line)
	if cols.identity >= 0 {
		v, err := fieldFloat(fields, cols.identity)
		if err != nil {
			return false, err
		}
		if v < opts.MinIdentity*percent {
			return false, nil
		}
	}
	if cols.coverage >= 0 {
		v, err := fieldFloat(fields, cols.coverage)
		if err != nil {
			return false, err
		}
		if v < opts.MinCoverage*percent {
			return false, nil
		}
	}
	return true, nil
}

func fieldFloat(fields []string, i int) (float64, error) {
	if i >= len(fields) {
		return 0, fmt.Errorf("%w: results line has %d columns, filter needs column %d",
			domain.ErrInvalidInput, len(fields), i+1)
	}
	return strconv.ParseFloat(fields[i], 64)
}

func indexOf(fields []string, want string) int {
	for i, f := range fields {
		if f == want {
			return i
		}
	}
	return -1
}
