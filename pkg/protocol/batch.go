package protocol

// Batch is the set of patches produced by one update pass. Seq increases by
// one per batch within a session.
type Batch struct {
	Seq     uint64
	Patches []Patch
}

// EncodeBatch encodes a batch payload:
//
//	[Seq: varint][Count: varint][Patch...]
func EncodeBatch(b *Batch) []byte {
	e := NewEncoder()
	EncodeBatchTo(e, b.Seq, b.Patches)
	return e.Bytes()
}

// EncodeBatchTo encodes seq and patches using the provided encoder.
func EncodeBatchTo(e *Encoder, seq uint64, patches []Patch) {
	e.WriteUvarint(seq)
	e.WriteUvarint(uint64(len(patches)))
	for i := range patches {
		encodePatch(e, &patches[i])
	}
}

// DecodeBatch decodes a batch payload.
func DecodeBatch(data []byte) (*Batch, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	b := &Batch{Seq: seq, Patches: make([]Patch, 0, count)}
	for i := 0; i < count; i++ {
		p, err := decodePatch(d)
		if err != nil {
			return nil, err
		}
		b.Patches = append(b.Patches, p)
	}
	if !d.EOF() {
		return nil, frameError(ErrTrailingBytes).WithDetailf("%d bytes after batch", d.Remaining())
	}
	return b, nil
}

// Frames splits the batch into patch frames that each fit MaxPayloadSize.
// Every frame carries the batch Seq and a self-contained run of patches;
// the last one is flagged FlagFinal. A single patch that cannot fit in a
// frame on its own yields an L203 error wrapping ErrFrameTooLarge.
func (b *Batch) Frames() ([]*Frame, error) {
	var frames []*Frame
	e := NewEncoder()
	base := UvarintLen(b.Seq)

	start := 0
	size := base
	emit := func(end int) {
		e.Reset()
		EncodeBatchTo(e, b.Seq, b.Patches[start:end])
		payload := make([]byte, e.Len())
		copy(payload, e.Bytes())
		frames = append(frames, NewFrame(FramePatches, payload))
		start = end
		size = base
	}

	for i := range b.Patches {
		n := patchSize(&b.Patches[i])
		count := i - start + 1
		if size+n+UvarintLen(uint64(count)) > MaxPayloadSize {
			if count == 1 {
				return nil, tooLarge(base + n + 1)
			}
			emit(i)
			if base+n+1 > MaxPayloadSize {
				return nil, tooLarge(base + n + 1)
			}
		}
		size += n
	}
	if start < len(b.Patches) || len(frames) == 0 {
		emit(len(b.Patches))
	}

	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}
