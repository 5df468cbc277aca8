// Package source loads tag cloud labels from HTTP endpoints, JSON or YAML
// files, and HTML documents carrying data attributes, and watches label
// files for changes.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/tagsphere"
)

// DefaultSelector matches the elements carrying label data attributes.
const DefaultSelector = ".tag-data"

const maxPayload = 4 << 20

// ErrEmpty is returned when a source holds no labels.
var ErrEmpty = errors.New("source: no labels")

// entry is the wire form of a label. Either name or text carries the label
// name.
type entry struct {
	Name  string `json:"name" yaml:"name"`
	Text  string `json:"text" yaml:"text"`
	Count int    `json:"count" yaml:"count"`
	URL   string `json:"url" yaml:"url"`
}

type payload struct {
	Tags []entry `json:"tags" yaml:"tags"`
}

// Decode parses a JSON label payload: either {"tags": [...]} or a bare
// array.
func Decode(data []byte) ([]tagsphere.Label, error) {
	trimmed := strings.TrimSpace(string(data))
	var entries []entry
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("source: decode json: %w", err)
		}
	} else {
		var p payload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("source: decode json: %w", err)
		}
		entries = p.Tags
	}
	return toLabels(entries)
}

// DecodeYAML parses a YAML label payload: either a "tags" mapping or a bare
// sequence.
func DecodeYAML(data []byte) ([]tagsphere.Label, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, ErrEmpty
	}
	var entries []entry
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&entries); err != nil {
			return nil, fmt.Errorf("source: decode yaml: %w", err)
		}
	} else {
		var p payload
		if err := node.Content[0].Decode(&p); err != nil {
			return nil, fmt.Errorf("source: decode yaml: %w", err)
		}
		entries = p.Tags
	}
	return toLabels(entries)
}

func toLabels(entries []entry) ([]tagsphere.Label, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	labels := make([]tagsphere.Label, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = strings.TrimSpace(e.Text)
		}
		if name == "" {
			return nil, fmt.Errorf("source: label %d: missing name", i)
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("source: label %q: negative count %d", name, e.Count)
		}
		labels = append(labels, tagsphere.Label{Name: name, Count: e.Count, URL: e.URL})
	}
	return labels, nil
}

// FetchHTTP loads labels from a JSON endpoint. A nil client uses
// http.DefaultClient.
func FetchHTTP(ctx context.Context, client *http.Client, url string) ([]tagsphere.Label, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source: GET %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", url, err)
	}
	return Decode(data)
}

// LoadFile reads labels from a .json, .yaml or .yml file. An .html or .htm
// file is parsed for DefaultSelector data attributes.
func LoadFile(path string) ([]tagsphere.Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return Decode(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".html", ".htm":
		return ParseHTML(bytes.NewReader(data), DefaultSelector)
	default:
		return nil, fmt.Errorf("source: %s: unsupported file type", path)
	}
}

// ParseHTML reads labels from elements matching selector, each carrying
// data-name, data-count and data-url attributes.
func ParseHTML(r io.Reader, selector string) ([]tagsphere.Label, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("source: parse html: %w", err)
	}
	if selector == "" {
		selector = DefaultSelector
	}
	var (
		entries  []entry
		parseErr error
	)
	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		e := entry{Name: s.AttrOr("data-name", ""), URL: s.AttrOr("data-url", "")}
		if raw := strings.TrimSpace(s.AttrOr("data-count", "")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				parseErr = fmt.Errorf("source: element %d: data-count %q: %w", i, raw, err)
				return false
			}
			e.Count = n
		}
		entries = append(entries, e)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return toLabels(entries)
}
