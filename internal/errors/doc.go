// Package errors provides structured, coded errors for livedom.
//
// Every error raised by the element core, the wire protocol, configuration
// loading and snapshot storage carries a stable code (e.g. "L102") that maps
// to a short message, a longer explanation and a documentation link.
//
// # Error Categories
//
//   - runtime: element construction and list reconciliation
//   - protocol: websocket frames and browser events
//   - config: livedom.json loading and validation
//   - storage: snapshot stores
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("L102").
//	    WithDetail(`key "a" appears at positions 0 and 3`).
//	    Wrap(el.ErrDuplicateKey)
//
//	errors.Is(err, el.ErrDuplicateKey) // true
//	fmt.Print(err.Format())
//
// Format renders a colored multi-line report for terminals; FormatCompact and
// FormatJSON suit logs and wire messages.
package errors
