package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	lerrors "github.com/vango-dev/livedom/internal/errors"
)

func TestBatchEncodeDecode(t *testing.T) {
	b := &Batch{
		Seq: 12,
		Patches: []Patch{
			{Op: PatchInsert, Target: 4, Node: 9, Before: 7, HTML: `<li data-nid="9">x</li>`},
			{Op: PatchMove, Target: 4, Node: 7},
			{Op: PatchRemove, Target: 4, Node: 8},
			{Op: PatchSetAttr, Target: 9, Name: "class", Value: "done"},
			{Op: PatchRemoveAttr, Target: 9, Name: "disabled"},
			{Op: PatchSetText, Target: 10, Value: "3 left"},
		},
	}

	got, err := DecodeBatch(EncodeBatch(b))
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("DecodeBatch() mismatch (-want +got):\n%s", diff)
	}

	for i := range b.Patches {
		e := NewEncoder()
		encodePatch(e, &b.Patches[i])
		if n := patchSize(&b.Patches[i]); n != e.Len() {
			t.Errorf("patchSize(%s) = %d, want %d", b.Patches[i].Op, n, e.Len())
		}
	}
}

func TestDecodeBatchErrors(t *testing.T) {
	if _, err := DecodeBatch([]byte{0x01, 0x01, 0x09, 0x01}); !errors.Is(err, ErrUnknownPatchOp) {
		t.Errorf("unknown op error = %v, want ErrUnknownPatchOp", err)
	}
	if _, err := DecodeBatch([]byte{0x01, 0x00, 0x00}); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("trailing error = %v, want ErrTrailingBytes", err)
	}
}

func TestBatchFramesSingle(t *testing.T) {
	b := &Batch{Seq: 1, Patches: []Patch{{Op: PatchSetText, Target: 2, Value: "a"}}}
	frames, err := b.Frames()
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
	if frames[0].Type != FramePatches || !frames[0].Flags.Has(FlagFinal) {
		t.Errorf("frame = %v flags %v, want final Patches", frames[0].Type, frames[0].Flags)
	}
}

func TestBatchFramesEmpty(t *testing.T) {
	frames, err := (&Batch{Seq: 3}).Frames()
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 || !frames[0].Flags.Has(FlagFinal) {
		t.Fatalf("frames = %v, want one final frame", frames)
	}
	got, err := DecodeBatch(frames[0].Payload)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seq != 3 || len(got.Patches) != 0 {
		t.Errorf("DecodeBatch() = %+v, want seq 3 and no patches", got)
	}
}

func TestBatchFramesSplit(t *testing.T) {
	big := strings.Repeat("x", 20000)
	b := &Batch{Seq: 5}
	for i := 0; i < 7; i++ {
		b.Patches = append(b.Patches, Patch{Op: PatchSetText, Target: uint64(i + 1), Value: big})
	}

	frames, err := b.Frames()
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("len(frames) = %d, want 3", len(frames))
	}

	var all []Patch
	for i, f := range frames {
		if len(f.Payload) > MaxPayloadSize {
			t.Errorf("frame %d payload = %d bytes, over limit", i, len(f.Payload))
		}
		if final := f.Flags.Has(FlagFinal); final != (i == len(frames)-1) {
			t.Errorf("frame %d final = %v", i, final)
		}
		part, err := DecodeBatch(f.Payload)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if part.Seq != 5 {
			t.Errorf("frame %d seq = %d, want 5", i, part.Seq)
		}
		all = append(all, part.Patches...)
	}
	if diff := cmp.Diff(b.Patches, all); diff != "" {
		t.Errorf("reassembled patches mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchFramesPatchTooLarge(t *testing.T) {
	b := &Batch{Patches: []Patch{
		{Op: PatchSetText, Target: 1, Value: "ok"},
		{Op: PatchInsert, Target: 1, Node: 2, HTML: strings.Repeat("y", MaxPayloadSize)},
	}}
	_, err := b.Frames()
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("Frames() error = %v, want ErrFrameTooLarge", err)
	}
	if code := lerrors.Code(err); code != "L203" {
		t.Errorf("Code() = %q, want L203", code)
	}
}

func TestPatchOpString(t *testing.T) {
	ops := map[PatchOp]string{
		PatchInsert:     "Insert",
		PatchRemove:     "Remove",
		PatchMove:       "Move",
		PatchSetAttr:    "SetAttr",
		PatchRemoveAttr: "RemoveAttr",
		PatchSetText:    "SetText",
		PatchOp(0x7f):   "Unknown",
	}
	for op, want := range ops {
		if got := op.String(); got != want {
			t.Errorf("PatchOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}
