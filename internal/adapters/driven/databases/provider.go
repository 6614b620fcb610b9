package databases

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.DatabaseProvider = (*Provider)(nil)

// Provider installs named reference databases under a base directory,
// laid out as <base>/<name>/raw/<archive> with the unpacked file next
// to raw/. Requests are throttled through a token bucket so repeated
// installs stay polite towards the mirrors.
type Provider struct {
	baseDir  string
	client   *http.Client
	limiter  *rate.Limiter
	registry map[string]domain.ReferenceDatabase
}

// NewProvider creates a provider rooted at baseDir; empty defaults to
// ~/.seqsearch/databases. Extra registry entries (e.g. from config)
// extend or override the builtin set.
func NewProvider(baseDir string, extra []domain.ReferenceDatabase) (*Provider, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(home, ".seqsearch", "databases")
	}
	reg := make(map[string]domain.ReferenceDatabase, len(builtin)+len(extra))
	for _, db := range builtin {
		reg[db.Name] = db
	}
	for _, db := range extra {
		reg[db.Name] = db
	}
	return &Provider{
		baseDir:  baseDir,
		client:   http.DefaultClient,
		limiter:  rate.NewLimiter(rate.Limit(2), 1),
		registry: reg,
	}, nil
}

// SetClient replaces the HTTP client. Useful for testing.
func (p *Provider) SetClient(c *http.Client) { p.client = c }

// Lookup returns the descriptor for a known database name.
func (p *Provider) Lookup(name string) (domain.ReferenceDatabase, error) {
	db, ok := p.registry[name]
	if !ok {
		return domain.ReferenceDatabase{}, fmt.Errorf("%w: %s", domain.ErrDatabaseUnknown, name)
	}
	return db, nil
}

// List returns all known database descriptors, sorted by name.
func (p *Provider) List() []domain.ReferenceDatabase {
	dbs := make([]domain.ReferenceDatabase, 0, len(p.registry))
	for _, db := range p.registry {
		dbs = append(dbs, db)
	}
	sort.Slice(dbs, func(i, j int) bool { return dbs[i].Name < dbs[j].Name })
	return dbs
}

// Path returns where the named database lives once installed, without
// installing it.
func (p *Provider) Path(name string) (string, error) {
	db, err := p.Lookup(name)
	if err != nil {
		return "", err
	}
	return p.installedPath(db), nil
}

// Ensure resolves name to a local path, downloading and unpacking the
// database if it is not installed yet.
func (p *Provider) Ensure(ctx context.Context, name string) (string, error) {
	db, err := p.Lookup(name)
	if err != nil {
		return "", err
	}
	final := p.installedPath(db)
	if _, err := os.Stat(final); err == nil {
		return final, nil
	}

	rawDir := filepath.Join(p.baseDir, db.Name, "raw")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return "", err
	}
	rawPath := filepath.Join(rawDir, remoteFilename(db.URL))
	if err := p.download(ctx, db.URL, rawPath); err != nil {
		return "", fmt.Errorf("downloading %s: %w", db.Name, err)
	}

	if db.Compressed {
		if err := gunzip(rawPath, final); err != nil {
			return "", fmt.Errorf("unpacking %s: %w", db.Name, err)
		}
	} else if rawPath != final {
		if err := os.Rename(rawPath, final); err != nil {
			return "", err
		}
	}
	logger.Info("database %s installed at %s", db.Name, final)
	return final, nil
}

// download fetches url into dest. A previous download whose size
// matches the remote Content-Length is reused instead of re-fetched.
func (p *Provider) download(ctx context.Context, url, dest string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if info, err := os.Stat(dest); err == nil &&
		resp.ContentLength > 0 && info.Size() == resp.ContentLength {
		logger.Debug("reusing complete download %s", dest)
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func (p *Provider) installedPath(db domain.ReferenceDatabase) string {
	name := remoteFilename(db.URL)
	if db.Compressed {
		name = strings.TrimSuffix(name, ".gz")
	}
	return filepath.Join(p.baseDir, db.Name, name)
}

func remoteFilename(url string) string {
	return path.Base(url)
}

func gunzip(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	gr, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gr.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".unpack-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, gr); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
