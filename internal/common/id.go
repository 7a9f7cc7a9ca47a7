package common

import "github.com/google/uuid"

// GenerateID returns a random UUID string.
func GenerateID() string {
	return uuid.NewString()
}

// GenerateRequestID generates a unique request identifier for envelopes.
func GenerateRequestID() string {
	return "req_" + GenerateID()
}

// GenerateClientID generates an identifier for a peer that did not name
// itself.
func GenerateClientID() string {
	return "peer_" + GenerateID()
}
