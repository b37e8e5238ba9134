package protocol

import (
	"errors"
	"sort"

	lerrors "github.com/vango-dev/livedom/internal/errors"
)

// ErrInvalidEvent is wrapped by every event decoding and validation failure.
var ErrInvalidEvent = errors.New("protocol: invalid event")

// ClientEvent is a DOM event reported by the client for a node.
type ClientEvent struct {
	// Target is the id of the node the event fired on.
	Target uint64

	// Type is the event name without the "on" prefix, e.g. "click".
	Type string

	// Detail carries string payload values such as "value" or "key".
	Detail map[string]string
}

// EncodeEvent encodes a client event:
//
//	[Target: varint][Type: string][Count: varint][Key: string][Value: string]...
//
// Detail entries are written in key order so equal events encode equally.
func EncodeEvent(ev *ClientEvent) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes a client event using the provided encoder.
func EncodeEventTo(e *Encoder, ev *ClientEvent) {
	e.WriteUvarint(ev.Target)
	e.WriteString(ev.Type)

	keys := make([]string, 0, len(ev.Detail))
	for k := range ev.Detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.WriteUvarint(uint64(len(keys)))
	for _, k := range keys {
		e.WriteString(k)
		e.WriteString(ev.Detail[k])
	}
}

// DecodeEvent decodes and validates a client event with the default limits.
func DecodeEvent(data []byte) (*ClientEvent, error) {
	return DecodeEventWithLimits(data, DefaultEventLimits())
}

// DecodeEventWithLimits decodes and validates a client event. All failures
// are L202 errors wrapping ErrInvalidEvent.
func DecodeEventWithLimits(data []byte, limits *EventLimits) (*ClientEvent, error) {
	if limits == nil {
		limits = DefaultEventLimits()
	}
	d := NewDecoder(data)

	target, err := d.ReadUvarint()
	if err != nil {
		return nil, invalidEvent(err)
	}
	typ, err := d.ReadString()
	if err != nil {
		return nil, invalidEvent(err)
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, invalidEvent(err)
	}
	if count > limits.DetailEntries {
		return nil, invalidEvent(ErrCollectionTooLarge).WithDetailf("%d detail entries, limit %d", count, limits.DetailEntries)
	}

	ev := &ClientEvent{Target: target, Type: typ}
	if count > 0 {
		ev.Detail = make(map[string]string, count)
	}
	for i := 0; i < count; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, invalidEvent(err)
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, invalidEvent(err)
		}
		ev.Detail[k] = v
	}
	if !d.EOF() {
		return nil, invalidEvent(ErrTrailingBytes).WithDetailf("%d bytes after event", d.Remaining())
	}

	if err := ev.validate(limits); err != nil {
		return nil, err
	}
	return ev, nil
}

// Validate checks the event against the default limits.
func (ev *ClientEvent) Validate() error {
	return ev.validate(DefaultEventLimits())
}

func (ev *ClientEvent) validate(limits *EventLimits) error {
	switch {
	case ev.Target == 0:
		return invalidEvent(nil).WithDetail("missing target")
	case ev.Type == "":
		return invalidEvent(nil).WithDetail("missing type")
	case len(ev.Type) > limits.TypeLen:
		return invalidEvent(nil).WithDetailf("type is %d bytes, limit %d", len(ev.Type), limits.TypeLen)
	case len(ev.Detail) > limits.DetailEntries:
		return invalidEvent(nil).WithDetailf("%d detail entries, limit %d", len(ev.Detail), limits.DetailEntries)
	}
	for k, v := range ev.Detail {
		if len(k) == 0 || len(k) > limits.DetailKeyLen {
			return invalidEvent(nil).WithDetailf("detail key %q", k)
		}
		if len(v) > limits.DetailValueLen {
			return invalidEvent(nil).WithDetailf("detail %q is %d bytes, limit %d", k, len(v), limits.DetailValueLen)
		}
	}
	return nil
}

func invalidEvent(cause error) *lerrors.Error {
	err := lerrors.New("L202").Wrap(ErrInvalidEvent)
	if cause != nil {
		err = err.WithDetail(cause.Error())
	}
	return err
}
