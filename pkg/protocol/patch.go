package protocol

import (
	"errors"
	"fmt"
)

// PatchOp is the operation type for a patch.
type PatchOp uint8

const (
	PatchInsert     PatchOp = 0x01 // Insert rendered HTML into Target before Before
	PatchRemove     PatchOp = 0x02 // Remove Node from Target
	PatchMove       PatchOp = 0x03 // Move known Node into Target before Before
	PatchSetAttr    PatchOp = 0x04 // Set attribute Name to Value on Target
	PatchRemoveAttr PatchOp = 0x05 // Remove attribute Name from Target
	PatchSetText    PatchOp = 0x06 // Set character data of Target to Value
)

// String returns the string representation of the patch op.
func (op PatchOp) String() string {
	switch op {
	case PatchInsert:
		return "Insert"
	case PatchRemove:
		return "Remove"
	case PatchMove:
		return "Move"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetText:
		return "SetText"
	default:
		return "Unknown"
	}
}

// ErrUnknownPatchOp is returned when decoding an unrecognized op byte.
var ErrUnknownPatchOp = errors.New("protocol: unknown patch op")

// Patch is one change to apply to the client tree. Node ids are the ids of
// the server-side dom nodes; zero means "none" (Before zero appends).
type Patch struct {
	Op     PatchOp
	Target uint64 // parent for Insert/Remove/Move, changed node otherwise
	Node   uint64 // inserted, removed or moved node
	Before uint64 // reference sibling for Insert/Move
	Name   string // attribute name
	Value  string // attribute value or text
	HTML   string // rendered subtree for Insert
}

func (p Patch) String() string {
	switch p.Op {
	case PatchInsert, PatchMove:
		return fmt.Sprintf("%s(%d into %d before %d)", p.Op, p.Node, p.Target, p.Before)
	case PatchRemove:
		return fmt.Sprintf("%s(%d from %d)", p.Op, p.Node, p.Target)
	case PatchSetAttr:
		return fmt.Sprintf("%s(%d %s=%q)", p.Op, p.Target, p.Name, p.Value)
	case PatchRemoveAttr:
		return fmt.Sprintf("%s(%d %s)", p.Op, p.Target, p.Name)
	default:
		return fmt.Sprintf("%s(%d %q)", p.Op, p.Target, p.Value)
	}
}

// encodePatch writes a patch:
//
//	[Op: byte][Target: varint][op-specific fields]
//
//	Insert:     [Node: varint][Before: varint][HTML: string]
//	Move:       [Node: varint][Before: varint]
//	Remove:     [Node: varint]
//	SetAttr:    [Name: string][Value: string]
//	RemoveAttr: [Name: string]
//	SetText:    [Value: string]
func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteUvarint(p.Target)
	switch p.Op {
	case PatchInsert:
		e.WriteUvarint(p.Node)
		e.WriteUvarint(p.Before)
		e.WriteString(p.HTML)
	case PatchMove:
		e.WriteUvarint(p.Node)
		e.WriteUvarint(p.Before)
	case PatchRemove:
		e.WriteUvarint(p.Node)
	case PatchSetAttr:
		e.WriteString(p.Name)
		e.WriteString(p.Value)
	case PatchRemoveAttr:
		e.WriteString(p.Name)
	case PatchSetText:
		e.WriteString(p.Value)
	}
}

// patchSize returns the encoded size of p.
func patchSize(p *Patch) int {
	n := 1 + UvarintLen(p.Target)
	switch p.Op {
	case PatchInsert:
		n += UvarintLen(p.Node) + UvarintLen(p.Before) + stringLen(p.HTML)
	case PatchMove:
		n += UvarintLen(p.Node) + UvarintLen(p.Before)
	case PatchRemove:
		n += UvarintLen(p.Node)
	case PatchSetAttr:
		n += stringLen(p.Name) + stringLen(p.Value)
	case PatchRemoveAttr:
		n += stringLen(p.Name)
	case PatchSetText:
		n += stringLen(p.Value)
	}
	return n
}

func decodePatch(d *Decoder) (Patch, error) {
	var p Patch
	op, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = PatchOp(op)
	if p.Target, err = d.ReadUvarint(); err != nil {
		return p, err
	}

	switch p.Op {
	case PatchInsert, PatchMove:
		if p.Node, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		if p.Before, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		if p.Op == PatchInsert {
			p.HTML, err = d.ReadString()
		}
	case PatchRemove:
		p.Node, err = d.ReadUvarint()
	case PatchSetAttr:
		if p.Name, err = d.ReadString(); err != nil {
			return p, err
		}
		p.Value, err = d.ReadString()
	case PatchRemoveAttr:
		p.Name, err = d.ReadString()
	case PatchSetText:
		p.Value, err = d.ReadString()
	default:
		return p, fmt.Errorf("%w: 0x%02x", ErrUnknownPatchOp, op)
	}
	return p, err
}
