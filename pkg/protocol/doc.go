// Package protocol implements the binary wire protocol between a live
// session and the browser.
//
// Events flow from client to server and patches flow from server to client
// over a WebSocket, one frame per message.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameEvent (0x01): Client → Server events
//   - FramePatches (0x02): Server → Client patches
//   - FrameControl (0x03): Control messages (ping, reload, close)
//   - FrameError (0x05): Error message
//
// # Patches
//
// A Recorder observes a dom.Document and turns each mutation of the
// attached tree into a Patch addressed by node id. Inserted subtrees travel
// as HTML rendered with node id markers so the client can address them
// later. The patches of one update pass form a Batch, which Batch.Frames
// splits into frames that each fit MaxPayloadSize.
//
// # Encoding
//
//   - Varint: Compact encoding for small integers (protobuf-style)
//   - Length-prefixed: Strings prefixed with varint length
//   - Big-endian: Fixed-width uint64 timestamps
package protocol
