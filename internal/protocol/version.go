// Package protocol defines the handshake a peer sends to announce which
// subprotocol versions it speaks, and the negotiation that checks the
// announcement against this node's required and supported versions.
package protocol

// Version constants for the handshake message format itself. They are
// independent of the subprotocol versions carried inside the handshake.
const (
	// ProtocolVersion is the current handshake format version.
	ProtocolVersion = 1

	// MinSupportedVersion is the oldest handshake format still accepted.
	MinSupportedVersion = 1
)

// IsVersionSupported checks if the given handshake format version is supported.
func IsVersionSupported(version int) bool {
	return version >= MinSupportedVersion && version <= ProtocolVersion
}
