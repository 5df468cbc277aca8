// Package devserver serves fixture tag data and tag pages locally so the
// cloud can be previewed end to end: label JSON for the data source, an
// index page carrying .tag-data elements, and one page per tag with a
// .content region for the navigation bridge.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phanxgames/tagsphere"
)

// Server is the preview server.
type Server struct {
	logger *log.Logger
	router chi.Router

	mu     sync.RWMutex
	labels []tagsphere.Label
	bySlug map[string]tagsphere.Label

	httpServer *http.Server
}

// New creates a server for labels. Labels without a URL are given
// /tags/{slug}/.
func New(labels []tagsphere.Label, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{logger: logger}
	s.SetLabels(labels)
	s.router = s.buildRouter()
	return s
}

// SetLabels replaces the served label set. Safe for concurrent use.
func (s *Server) SetLabels(labels []tagsphere.Label) {
	out := make([]tagsphere.Label, len(labels))
	bySlug := make(map[string]tagsphere.Label, len(labels))
	for i, l := range labels {
		slug := Slug(l.Name)
		if l.URL == "" {
			l.URL = "/tags/" + slug + "/"
		}
		out[i] = l
		bySlug[slug] = l
	}
	s.mu.Lock()
	s.labels = out
	s.bySlug = bySlug
	s.mu.Unlock()
}

// Labels returns the served labels.
func (s *Server) Labels() []tagsphere.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]tagsphere.Label(nil), s.labels...)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/api/tagcloud/", s.handleTags)
	r.Get("/tags/{slug}/", s.handleTagPage)
	r.Get("/", s.handleIndex)

	return r
}

// requestLogger logs each request at debug level with the id assigned by
// middleware.RequestID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"id", middleware.GetReqID(r.Context()),
			"partial", r.Header.Get("X-Tag-Cloud-Request") != "",
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

type tagJSON struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	URL   string `json:"url"`
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	labels := s.Labels()
	resp := struct {
		Tags []tagJSON `json:"tags"`
	}{Tags: make([]tagJSON, len(labels))}
	for i, l := range labels {
		resp.Tags[i] = tagJSON{Name: l.Name, Count: l.Count, URL: l.URL}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode tags", "err", err)
	}
}

func (s *Server) handleTagPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s.mu.RLock()
	l, ok := s.bySlug[slug]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, tagPageTmpl, map[string]any{
		"Title": fmt.Sprintf("%s - tag articles", l.Name),
		"Label": l,
		"Posts": fakePosts(l),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, indexTmpl, map[string]any{
		"Title":  "tags",
		"Labels": s.Labels(),
	})
}

func (s *Server) render(w http.ResponseWriter, t *template.Template, data any) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// fakePosts returns placeholder article titles, one per counted use.
func fakePosts(l tagsphere.Label) []string {
	n := l.Count
	if n > 20 {
		n = 20
	}
	posts := make([]string, n)
	for i := range posts {
		posts[i] = fmt.Sprintf("Notes on %s, part %d", l.Name, i+1)
	}
	return posts
}

// Slug lowercases name and joins its words with hyphens.
func Slug(name string) string {
	f := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 0x7f)
	})
	return strings.Join(f, "-")
}

// Start listens on addr and blocks until ctx is done, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devserver: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><title>{{.Title}}</title></head>
<body>
<div id="tag-cloud-data" style="display:none">
{{- range .Labels}}
<span class="tag-data" data-name="{{.Name}}" data-count="{{.Count}}" data-url="{{.URL}}"></span>
{{- end}}
</div>
<div class="content"><ul>
{{- range .Labels}}
<li><a href="{{.URL}}">{{.Name}}</a> ({{.Count}})</li>
{{- end}}
</ul></div>
</body></html>
`))

var tagPageTmpl = template.Must(template.New("tag").Parse(`<!doctype html>
<html><head><title>{{.Title}}</title></head>
<body>
<nav><a href="/">all tags</a></nav>
<div class="content">
<h1>Tag: {{.Label.Name}}</h1>
<ul>
{{- range .Posts}}
<li>{{.}}</li>
{{- end}}
</ul>
</div>
</body></html>
`))
