package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/phanxgames/tagsphere"
	"github.com/phanxgames/tagsphere/internal/config"
	"github.com/phanxgames/tagsphere/source"
)

var errNoSource = errors.New("no label source: set data.url, data.file or data.html")

// dataFlags override the data section of the config.
type dataFlags struct {
	url  string
	file string
	html string
}

func (f dataFlags) apply(cfg *config.Config) {
	switch {
	case f.url != "":
		cfg.Data = config.DataConfig{URL: f.url, Selector: cfg.Data.Selector}
	case f.file != "":
		cfg.Data = config.DataConfig{File: f.file, Watch: cfg.Data.Watch, Selector: cfg.Data.Selector}
	case f.html != "":
		cfg.Data = config.DataConfig{HTML: f.html, Selector: cfg.Data.Selector}
	}
}

// loadLabels reads labels from the configured source.
func loadLabels(ctx context.Context, client *http.Client, d config.DataConfig) ([]tagsphere.Label, error) {
	switch {
	case d.URL != "":
		return source.FetchHTTP(ctx, client, d.URL)
	case d.File != "":
		return source.LoadFile(d.File)
	case d.HTML != "":
		return loadHTML(ctx, client, d.HTML, d.Selector)
	default:
		return nil, errNoSource
	}
}

// loadHTML parses .tag-data elements from a page, fetched when loc is an
// http(s) URL and read from disk otherwise.
func loadHTML(ctx context.Context, client *http.Client, loc, selector string) ([]tagsphere.Label, error) {
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		f, err := os.Open(loc)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
		defer f.Close()
		return source.ParseHTML(f, selector)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", loc, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", loc, resp.StatusCode)
	}
	return source.ParseHTML(resp.Body, selector)
}
