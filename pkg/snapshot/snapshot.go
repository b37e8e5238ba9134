// Package snapshot stores rendered pages.
//
// A snapshot is the static HTML of a document at one point in time, written
// without node ids or the client script. Stores are keyed by slash-separated
// relative paths such as "todo/2026-10-19T120000Z.html".
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"
	"time"

	lerrors "github.com/vango-dev/livedom/internal/errors"
	"github.com/vango-dev/livedom/pkg/render"
)

var (
	// ErrNotFound is returned when no snapshot is stored under a key.
	ErrNotFound = errors.New("snapshot: not found")

	// ErrInvalidKey is returned for keys that are empty, absolute or
	// escape the store with "..".
	ErrInvalidKey = errors.New("snapshot: invalid key")
)

// ContentType is the media type snapshots are stored with.
const ContentType = "text/html; charset=utf-8"

// Store persists snapshots.
type Store interface {
	Put(ctx context.Context, key string, html []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Capture renders page and stores it under key.
func Capture(ctx context.Context, store Store, key string, page render.PageData) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	var buf bytes.Buffer
	r := render.NewRenderer(render.RendererConfig{})
	if err := r.RenderPage(&buf, page); err != nil {
		return writeFailed(key, err)
	}
	return store.Put(ctx, key, buf.Bytes())
}

// Key returns a timestamped key below prefix.
func Key(prefix string, t time.Time) string {
	name := t.UTC().Format("2006-01-02T150405Z") + ".html"
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// ValidateKey reports whether key can be used with every Store.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return invalidKey(key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return invalidKey(key)
		}
	}
	return nil
}

func invalidKey(key string) error {
	return lerrors.New("L403").
		WithDetailf("key %q", key).
		Wrap(ErrInvalidKey)
}

func notFound(key string) error {
	return lerrors.New("L402").
		WithDetailf("key %q", key).
		Wrap(ErrNotFound)
}

func writeFailed(key string, err error) error {
	return lerrors.New("L401").
		WithDetailf("key %q", key).
		Wrap(err)
}
