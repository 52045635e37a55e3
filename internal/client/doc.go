// Package client owns the synchronous request/response engine for the
// sensor's line protocol.
//
// Ownership boundary:
// - command encode + single round trip + response decode
// - per-connection request serialization (no pipelining on the wire)
// - typed convenience reads (ALL dumps, thresholds, safety state)
//
// The serial link itself belongs to internal/transport; the codecs for
// structured payloads belong to internal/protocol.
package client
