package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	lerrors "github.com/vango-dev/livedom/internal/errors"
)

func TestEventEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		ev   ClientEvent
	}{
		{"click", ClientEvent{Target: 42, Type: "click"}},
		{"input", ClientEvent{Target: 7, Type: "input", Detail: map[string]string{"value": "milk"}}},
		{"keydown", ClientEvent{Target: 300, Type: "keydown", Detail: map[string]string{"key": "Enter", "value": ""}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeEvent(EncodeEvent(&tc.ev))
			if err != nil {
				t.Fatalf("DecodeEvent() error = %v", err)
			}
			if diff := cmp.Diff(&tc.ev, got); diff != "" {
				t.Errorf("DecodeEvent() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEventEncodingDeterministic(t *testing.T) {
	ev := &ClientEvent{Target: 1, Type: "input", Detail: map[string]string{"b": "2", "a": "1", "c": "3"}}
	first := EncodeEvent(ev)
	for i := 0; i < 10; i++ {
		if !bytes.Equal(EncodeEvent(ev), first) {
			t.Fatal("EncodeEvent() output varies between calls")
		}
	}
}

func TestDecodeEventInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"zero_target", EncodeEvent(&ClientEvent{Target: 0, Type: "click"})},
		{"empty_type", EncodeEvent(&ClientEvent{Target: 1})},
		{"long_type", EncodeEvent(&ClientEvent{Target: 1, Type: strings.Repeat("x", MaxEventTypeLen+1)})},
		{"empty_key", EncodeEvent(&ClientEvent{Target: 1, Type: "input", Detail: map[string]string{"": "v"}})},
		{"long_value", EncodeEvent(&ClientEvent{Target: 1, Type: "input", Detail: map[string]string{"value": strings.Repeat("v", MaxDetailValueLen+1)}})},
		{"trailing", append(EncodeEvent(&ClientEvent{Target: 1, Type: "click"}), 0x00)},
		{"truncated", EncodeEvent(&ClientEvent{Target: 1, Type: "click"})[:3]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEvent(tc.data)
			if !errors.Is(err, ErrInvalidEvent) {
				t.Fatalf("DecodeEvent() error = %v, want ErrInvalidEvent", err)
			}
			if code := lerrors.Code(err); code != "L202" {
				t.Errorf("Code() = %q, want L202", code)
			}
		})
	}
}

func TestDecodeEventTooManyEntries(t *testing.T) {
	detail := make(map[string]string)
	for i := 0; i < 5; i++ {
		detail[string(rune('a'+i))] = "x"
	}
	data := EncodeEvent(&ClientEvent{Target: 1, Type: "input", Detail: detail})

	limits := DefaultEventLimits()
	limits.DetailEntries = 4
	if _, err := DecodeEventWithLimits(data, limits); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("DecodeEventWithLimits() error = %v, want ErrInvalidEvent", err)
	}
	if _, err := DecodeEvent(data); err != nil {
		t.Errorf("DecodeEvent() error = %v", err)
	}
}
