package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lerrors "github.com/vango-dev/livedom/internal/errors"
	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/render"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"page.html", true},
		{"todo/2026/page.html", true},
		{"", false},
		{"/abs.html", false},
		{"../escape.html", false},
		{"a/../b.html", false},
		{"a//b.html", false},
		{"a/./b.html", false},
		{`a\b.html`, false},
		{"dir/", false},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateKey(%q) = %v, want valid=%v", tt.key, err, tt.valid)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidKey) || lerrors.Code(err) != "L403" {
				t.Errorf("ValidateKey(%q) = %v, want L403 wrapping ErrInvalidKey", tt.key, err)
			}
		}
	}
}

func TestKey(t *testing.T) {
	ts := time.Date(2026, 10, 19, 12, 30, 5, 0, time.UTC)
	if got, want := Key("todo", ts), "todo/2026-10-19T123005Z.html"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if got, want := Key("", ts), "2026-10-19T123005Z.html"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "snaps"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := store.Put(ctx, "todo/a.html", []byte("<p>a</p>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := store.Get(ctx, "todo/a.html")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "<p>a</p>" {
		t.Errorf("Get() = %q, want %q", got, "<p>a</p>")
	}

	if err := store.Put(ctx, "todo/a.html", []byte("<p>b</p>")); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	got, _ = store.Get(ctx, "todo/a.html")
	if string(got) != "<p>b</p>" {
		t.Errorf("Get() after overwrite = %q, want %q", got, "<p>b</p>")
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "snaps", "todo"))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no leftover temp files)", len(entries))
	}

	if err := store.Delete(ctx, "todo/a.html"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "todo/a.html"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
	_, err = store.Get(ctx, "todo/a.html")
	if !errors.Is(err, ErrNotFound) || lerrors.Code(err) != "L402" {
		t.Errorf("Get() after Delete error = %v, want L402 wrapping ErrNotFound", err)
	}
}

func TestFileStoreRejectsInvalidKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Put(context.Background(), "../x.html", nil); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Put() error = %v, want ErrInvalidKey", err)
	}
}

func TestFileStoreCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "a.html", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestCapture(t *testing.T) {
	doc := dom.NewDocument()
	b := el.NewBuilder(doc)
	if err := el.Append(doc.Body(), b.MustEl("h1", nil, "Todos")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()
	if err := Capture(ctx, store, "todo/page.html", render.PageData{Doc: doc, Title: "Todo"}); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	html, err := store.Get(ctx, "todo/page.html")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	for _, want := range []string{"<title>Todo</title>", "<h1>Todos</h1>"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("snapshot missing %q:\n%s", want, html)
		}
	}
	for _, unwanted := range []string{"data-nid", "__LIVEDOM_SESSION__"} {
		if strings.Contains(string(html), unwanted) {
			t.Errorf("snapshot contains %q:\n%s", unwanted, html)
		}
	}
}

func TestCaptureInvalidKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	err = Capture(context.Background(), store, "", render.PageData{Doc: dom.NewDocument()})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Capture() error = %v, want ErrInvalidKey", err)
	}
}
