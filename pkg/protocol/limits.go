package protocol

// Event limits. They bound what a client may ask the server to allocate
// and dispatch per event frame, complementing the allocation limits in
// decoder.go.
const (
	// MaxEventTypeLen limits the length of an event name.
	MaxEventTypeLen = 64

	// MaxDetailEntries limits the number of detail entries per event.
	MaxDetailEntries = 32

	// MaxDetailKeyLen limits the length of a detail key.
	MaxDetailKeyLen = 64

	// MaxDetailValueLen limits the length of a detail value. Input values
	// are the largest legitimate payload.
	MaxDetailValueLen = 16 * 1024
)

// EventLimits allows configuring custom limits for event decoding.
// Use DefaultEventLimits() for sensible defaults.
type EventLimits struct {
	TypeLen        int
	DetailEntries  int
	DetailKeyLen   int
	DetailValueLen int
}

// DefaultEventLimits returns the default event limits.
func DefaultEventLimits() *EventLimits {
	return &EventLimits{
		TypeLen:        MaxEventTypeLen,
		DetailEntries:  MaxDetailEntries,
		DetailKeyLen:   MaxDetailKeyLen,
		DetailValueLen: MaxDetailValueLen,
	}
}
