package workflow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Result is the outcome of fetching one template.
type Result struct {
	Template Template
	Body     []byte
	Err      error
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Fetcher downloads templates with a plain GET.
type Fetcher struct {
	Client *http.Client
}

// Fetch downloads t. It never retries.
func (f *Fetcher) Fetch(ctx context.Context, t Template) Result {
	res := Result{Template: t}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		res.Err = fmt.Errorf("failed to create request: %w", err)
		return res
	}

	resp, err := client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("failed to fetch %s: %w", t.URL, err)
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Err = &StatusError{URL: t.URL, StatusCode: resp.StatusCode}
		return res
	}

	res.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", t.URL, err)
	}
	return res
}

// Importer writes fetched templates under a project base path.
type Importer struct {
	fs       afero.Fs
	basePath string
	fetcher  *Fetcher

	// OnResult, when set, is called after every fetch.
	OnResult func(Result)
}

// NewImporter creates an importer writing below basePath.
func NewImporter(fsys afero.Fs, basePath string, client *http.Client) *Importer {
	return &Importer{
		fs:       fsys,
		basePath: basePath,
		fetcher:  &Fetcher{Client: client},
	}
}

// Import fetches each template in order and overwrites its destination.
// It stops at the first failed fetch or write; templates after it are left
// untouched. The returned results cover every template that was attempted.
func (im *Importer) Import(ctx context.Context, templates []Template) ([]Result, error) {
	results := make([]Result, 0, len(templates))

	for _, t := range templates {
		res := im.fetcher.Fetch(ctx, t)
		if res.OK() {
			res.Err = im.write(t.Dest, res.Body)
		}
		results = append(results, res)

		if im.OnResult != nil {
			im.OnResult(res)
		}
		if !res.OK() {
			return results, fmt.Errorf("failed to import %s: %w", t.Dest, res.Err)
		}
	}

	return results, nil
}

func (im *Importer) write(dest string, body []byte) error {
	path := filepath.Join(im.basePath, filepath.FromSlash(dest))
	if err := im.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(im.fs, path, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
