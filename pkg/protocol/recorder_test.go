package protocol

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/livedom/pkg/dom"
)

func TestRecorderAttachedOnly(t *testing.T) {
	doc := dom.NewDocument()
	r := NewRecorder(doc)
	defer r.Close()

	ul := doc.CreateElement("ul")
	li := doc.CreateElement("li")
	li.SetAttribute("class", "item")
	if err := ul.AppendChild(li); err != nil {
		t.Fatal(err)
	}
	if n := r.Len(); n != 0 {
		t.Fatalf("detached mutations recorded: %d patches", n)
	}

	if err := doc.Body().AppendChild(ul); err != nil {
		t.Fatal(err)
	}
	patches, err := r.Take()
	if err != nil {
		t.Fatal(err)
	}
	want := []Patch{{
		Op:     PatchInsert,
		Target: doc.Body().ID(),
		Node:   ul.ID(),
		HTML:   `<ul data-nid="` + id(ul) + `"><li class="item" data-nid="` + id(li) + `"></li></ul>`,
	}}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Take() mismatch (-want +got):\n%s", diff)
	}
	if n := r.Len(); n != 0 {
		t.Errorf("Len() after Take = %d, want 0", n)
	}
}

func TestRecorderContentChanges(t *testing.T) {
	doc := dom.NewDocument()
	p := doc.CreateElement("p")
	txt := doc.CreateTextNode("a")
	p.AppendChild(txt)
	doc.Body().AppendChild(p)

	r := NewRecorder(doc)
	defer r.Close()

	p.SetAttribute("title", "t")
	p.RemoveAttribute("title")
	txt.SetTextContent("b")
	p.Remove()

	patches, _ := r.Take()
	want := []Patch{
		{Op: PatchSetAttr, Target: p.ID(), Name: "title", Value: "t"},
		{Op: PatchRemoveAttr, Target: p.ID(), Name: "title"},
		{Op: PatchSetText, Target: txt.ID(), Value: "b"},
		{Op: PatchRemove, Target: doc.Body().ID(), Node: p.ID()},
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Take() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorderMergesMove(t *testing.T) {
	doc := dom.NewDocument()
	ul := doc.CreateElement("ul")
	a := doc.CreateElement("li")
	b := doc.CreateElement("li")
	ul.AppendChild(a)
	ul.AppendChild(b)
	doc.Body().AppendChild(ul)

	r := NewRecorder(doc)
	defer r.Close()

	if err := ul.InsertBefore(b, a); err != nil {
		t.Fatal(err)
	}
	patches, _ := r.Take()
	want := []Patch{{Op: PatchMove, Target: ul.ID(), Node: b.ID(), Before: a.ID()}}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Take() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorderReinsertAfterDetachedEdit(t *testing.T) {
	doc := dom.NewDocument()
	li := doc.CreateElement("li")
	doc.Body().AppendChild(li)

	r := NewRecorder(doc)
	defer r.Close()

	li.Remove()
	li.SetAttribute("class", "x")
	doc.Body().AppendChild(li)

	patches, _ := r.Take()
	if len(patches) != 2 {
		t.Fatalf("len(patches) = %d, want 2: %v", len(patches), patches)
	}
	if patches[0].Op != PatchRemove || patches[1].Op != PatchInsert {
		t.Errorf("ops = %s, %s, want Remove, Insert", patches[0].Op, patches[1].Op)
	}
	if want := `<li class="x" data-nid="` + id(li) + `"></li>`; patches[1].HTML != want {
		t.Errorf("HTML = %q, want %q", patches[1].HTML, want)
	}
}

func TestRecorderClose(t *testing.T) {
	doc := dom.NewDocument()
	r := NewRecorder(doc)
	r.Close()
	doc.Body().SetAttribute("class", "x")
	if n := r.Len(); n != 0 {
		t.Errorf("Len() after Close = %d, want 0", n)
	}
}

func id(n *dom.Node) string {
	return strconv.FormatUint(n.ID(), 10)
}
