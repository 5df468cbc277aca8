// Package navigate fetches the page behind a tag URL and extracts its main
// content region, keeps a navigation history, and opens URLs in the system
// browser when fetching fails.
package navigate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// DefaultContentSelector selects the region replaced on navigation.
const DefaultContentSelector = ".content"

// maxBodySize caps how much of a response is parsed.
const maxBodySize = 8 << 20

// ErrNoContent is returned when the fetched document has no element matching
// the content selector.
var ErrNoContent = errors.New("navigate: content region not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("navigate: GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Page is the extracted result of a fetch.
type Page struct {
	URL   string
	Title string
	// HTML is the inner HTML of the content region.
	HTML string
	// Text is the whitespace-normalized text of the content region.
	Text string
}

// Bridge fetches tag pages the way an in-page partial navigation does: a GET
// marked as an XMLHttpRequest, parsed for its content region.
type Bridge struct {
	Client *http.Client
	// BaseURL resolves relative label URLs.
	BaseURL string
	// ContentSelector selects the content region. Defaults to ".content".
	ContentSelector string
}

// NewBridge creates a bridge resolving relative URLs against baseURL.
// A nil client uses http.DefaultClient.
func NewBridge(client *http.Client, baseURL string) *Bridge {
	if client == nil {
		client = http.DefaultClient
	}
	return &Bridge{Client: client, BaseURL: baseURL, ContentSelector: DefaultContentSelector}
}

// Fetch retrieves rawURL and extracts its content region.
func (b *Bridge) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target, err := ResolveURL(b.BaseURL, rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("navigate: build request: %w", err)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Tag-Cloud-Request", "true")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "text/html")

	resp, err := b.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("navigate: GET %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	page, err := Extract(io.LimitReader(resp.Body, maxBodySize), b.selector())
	if err != nil {
		return nil, fmt.Errorf("navigate: %s: %w", target, err)
	}
	page.URL = target
	return page, nil
}

// Extract parses an HTML document and returns the region matched by
// selector along with the document title.
func Extract(r io.Reader, selector string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, ErrNoContent
	}
	inner, err := sel.Html()
	if err != nil {
		return nil, fmt.Errorf("render content: %w", err)
	}
	return &Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		HTML:  strings.TrimSpace(inner),
		Text:  strings.Join(strings.Fields(sel.Text()), " "),
	}, nil
}

func (b *Bridge) client() *http.Client {
	if b.Client != nil {
		return b.Client
	}
	return http.DefaultClient
}

func (b *Bridge) selector() string {
	if b.ContentSelector != "" {
		return b.ContentSelector
	}
	return DefaultContentSelector
}

// ResolveURL resolves ref against base. An empty base returns ref unchanged,
// which must then be absolute.
func ResolveURL(base, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("navigate: parse url %q: %w", ref, err)
	}
	if base == "" || u.IsAbs() {
		if !u.IsAbs() {
			return "", fmt.Errorf("navigate: relative url %q without base", ref)
		}
		return u.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("navigate: parse base %q: %w", base, err)
	}
	return b.ResolveReference(u).String(), nil
}
