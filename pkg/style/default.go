package style

import (
	"sync"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
)

var (
	defaultMu    sync.Mutex
	defaultSheet *Sheet
)

// Default returns the process-wide sheet, creating one over a detached
// document with manual frames on first use. Servers give each session its
// own sheet instead.
func Default() *Sheet {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSheet == nil {
		defaultSheet = NewSheet(el.NewBuilder(dom.NewDocument()), &ManualFrames{})
	}
	return defaultSheet
}

// SetDefault replaces the process-wide sheet.
func SetDefault(s *Sheet) {
	defaultMu.Lock()
	defaultSheet = s
	defaultMu.Unlock()
}

// Reset discards the process-wide sheet so the next Default call starts
// a fresh counter and queue.
func Reset() {
	SetDefault(nil)
}

// Class is Default().Class.
func Class(name string, rules ...Rules) string {
	return Default().Class(name, rules...)
}

// Keyframes is Default().Keyframes.
func Keyframes(frames ...Frame) string {
	return Default().Keyframes(frames...)
}
