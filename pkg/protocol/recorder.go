package protocol

import (
	"sync"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/render"
)

// Recorder turns the mutations of a live document into patches.
//
// Inserted subtrees are rendered when the mutation is observed, so later
// patches in the same batch apply on top of the markup they describe. Only
// mutations of nodes attached to the document are recorded. A removal
// immediately followed by the insertion of the same node is recorded as a
// single move.
type Recorder struct {
	mu       sync.Mutex
	renderer *render.Renderer
	patches  []Patch
	err      error
	cancel   func()
}

// NewRecorder starts recording mutations of doc.
func NewRecorder(doc *dom.Document) *Recorder {
	r := &Recorder{renderer: render.NewRenderer(render.RendererConfig{NodeIDs: true})}
	r.cancel = doc.Observe(r.observe)
	return r
}

func (r *Recorder) observe(m dom.Mutation) {
	if !m.Connected {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch m.Op {
	case dom.MutInsert:
		if n := len(r.patches); n > 0 {
			last := &r.patches[n-1]
			if last.Op == PatchRemove && last.Node == m.Node.ID() {
				*last = Patch{Op: PatchMove, Target: m.Target.ID(), Node: m.Node.ID(), Before: nodeID(m.Before)}
				return
			}
		}
		html, err := r.renderer.RenderToString(m.Node)
		if err != nil && r.err == nil {
			r.err = err
		}
		r.patches = append(r.patches, Patch{
			Op:     PatchInsert,
			Target: m.Target.ID(),
			Node:   m.Node.ID(),
			Before: nodeID(m.Before),
			HTML:   html,
		})
	case dom.MutRemove:
		r.patches = append(r.patches, Patch{Op: PatchRemove, Target: m.Target.ID(), Node: m.Node.ID()})
	case dom.MutSetAttr:
		r.patches = append(r.patches, Patch{Op: PatchSetAttr, Target: m.Target.ID(), Name: m.Name, Value: m.Value})
	case dom.MutRemoveAttr:
		r.patches = append(r.patches, Patch{Op: PatchRemoveAttr, Target: m.Target.ID(), Name: m.Name})
	case dom.MutSetText:
		r.patches = append(r.patches, Patch{Op: PatchSetText, Target: m.Target.ID(), Value: m.Value})
	}
}

// Len returns the number of pending patches.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

// Take returns the pending patches and resets the recorder. The error is the
// first render failure seen since the previous Take.
func (r *Recorder) Take() ([]Patch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patches, err := r.patches, r.err
	r.patches, r.err = nil, nil
	return patches, err
}

// Close stops recording.
func (r *Recorder) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func nodeID(n *dom.Node) uint64 {
	if n == nil {
		return 0
	}
	return n.ID()
}
