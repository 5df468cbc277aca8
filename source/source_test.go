package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/tagsphere"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []tagsphere.Label
		wantErr error
	}{
		{
			name: "object",
			data: `{"tags":[{"name":"go","count":3,"url":"/tags/go/"}]}`,
			want: []tagsphere.Label{{Name: "go", Count: 3, URL: "/tags/go/"}},
		},
		{
			name: "bare array",
			data: ` [{"name":"go","count":1},{"name":"rust","count":2}]`,
			want: []tagsphere.Label{{Name: "go", Count: 1}, {Name: "rust", Count: 2}},
		},
		{
			name: "text key",
			data: `[{"text":"ebiten","count":5,"url":"/tags/ebiten/"}]`,
			want: []tagsphere.Label{{Name: "ebiten", Count: 5, URL: "/tags/ebiten/"}},
		},
		{
			name:    "empty",
			data:    `{"tags":[]}`,
			wantErr: ErrEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, data := range []string{
		`{"tags":[{"count":3}]}`,
		`[{"name":"go","count":-1}]`,
		`{"tags":`,
	} {
		if _, err := Decode([]byte(data)); err == nil {
			t.Errorf("Decode(%s) succeeded", data)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	mapping := "tags:\n  - name: go\n    count: 4\n    url: /tags/go/\n  - text: ebiten\n    count: 1\n"
	got, err := DecodeYAML([]byte(mapping))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if len(got) != 2 || got[0].Name != "go" || got[0].Count != 4 || got[1].Name != "ebiten" {
		t.Errorf("got %+v", got)
	}

	seq := "- name: go\n  count: 2\n"
	got, err = DecodeYAML([]byte(seq))
	if err != nil {
		t.Fatalf("DecodeYAML sequence: %v", err)
	}
	if len(got) != 1 || got[0].Count != 2 {
		t.Errorf("got %+v", got)
	}

	if _, err := DecodeYAML([]byte("")); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty document err = %v, want ErrEmpty", err)
	}
}

func TestParseHTML(t *testing.T) {
	doc := `<html><body><div id="tag-cloud-data" style="display:none">
<span class="tag-data" data-name="go" data-count="12" data-url="/tags/go/"></span>
<span class="tag-data" data-name="ebiten" data-count="3" data-url="/tags/ebiten/"></span>
</div></body></html>`
	got, err := ParseHTML(strings.NewReader(doc), "")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	want := []tagsphere.Label{
		{Name: "go", Count: 12, URL: "/tags/go/"},
		{Name: "ebiten", Count: 3, URL: "/tags/ebiten/"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseHTMLErrors(t *testing.T) {
	if _, err := ParseHTML(strings.NewReader(`<p>nothing</p>`), ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("no elements: err = %v, want ErrEmpty", err)
	}
	bad := `<span class="tag-data" data-name="go" data-count="many"></span>`
	if _, err := ParseHTML(strings.NewReader(bad), ""); err == nil {
		t.Error("invalid data-count accepted")
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tagcloud/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"tags":[{"name":"go","count":1,"url":"/tags/go/"}]}`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	got, err := FetchHTTP(context.Background(), srv.Client(), srv.URL+"/api/tagcloud/")
	if err != nil {
		t.Fatalf("FetchHTTP: %v", err)
	}
	if len(got) != 1 || got[0].Name != "go" {
		t.Errorf("got %+v", got)
	}

	if _, err := FetchHTTP(context.Background(), srv.Client(), srv.URL+"/broken"); err == nil {
		t.Error("expected error for status 500")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tags.json": `[{"name":"go","count":1}]`,
		"tags.yaml": "- name: go\n  count: 1\n",
		"tags.yml":  "tags:\n  - name: go\n    count: 1\n",
		"tags.html": `<span class="tag-data" data-name="go" data-count="1"></span>`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Run(name, func(t *testing.T) {
			got, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if len(got) != 1 || got[0].Name != "go" || got[0].Count != 1 {
				t.Errorf("got %+v", got)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
	txt := filepath.Join(dir, "tags.txt")
	_ = os.WriteFile(txt, []byte("go"), 0o644)
	if _, err := LoadFile(txt); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.json")
	if err := os.WriteFile(path, []byte(`[{"name":"go","count":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []tagsphere.Label
	)
	reloaded := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, log.New(os.Stderr), func(labels []tagsphere.Label) {
			mu.Lock()
			got = labels
			mu.Unlock()
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher registers asynchronously; keep rewriting until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-reloaded:
			break loop
		case <-tick.C:
			_ = os.WriteFile(path, []byte(`[{"name":"go","count":1},{"name":"ebiten","count":2}]`), 0o644)
		case <-deadline:
			t.Fatal("watcher did not reload")
		}
	}

	mu.Lock()
	if len(got) != 2 || got[1].Name != "ebiten" {
		t.Errorf("reloaded labels = %+v", got)
	}
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not return after cancel")
	}
}
