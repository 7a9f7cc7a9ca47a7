package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of message being sent.
type MessageType string

const (
	// MessageTypeHandshake is sent by a peer to announce its protocols.
	MessageTypeHandshake MessageType = "handshake"

	// MessageTypeHandshakeResponse carries the negotiation outcome.
	MessageTypeHandshakeResponse MessageType = "handshake_response"

	// MessageTypeError indicates a protocol-level error.
	MessageTypeError MessageType = "error"
)

// Envelope wraps all messages with type information for routing.
type Envelope struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope creates a new envelope with the given type and payload.
func NewEnvelope(msgType MessageType, requestID string, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return &Envelope{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
		Payload:   data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into the given target.
func (e *Envelope) DecodePayload(target interface{}) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("%w: failed to decode payload: %v", ErrInvalidMessage, err)
	}
	return nil
}

// HandshakeRequest is sent by a peer to announce the subprotocols it speaks.
type HandshakeRequest struct {
	// Version is the handshake format version the peer uses.
	Version int `json:"version"`

	// ClientID identifies the peer in logs.
	ClientID string `json:"client_id"`

	// Protocols is the peer's advertised list, e.g. "Link=1-5 Relay=1-2".
	Protocols string `json:"protocols,omitempty"`

	// Platform is the peer's software version string. It is consulted only
	// when Protocols is empty, for peers too old to advertise a list.
	Platform string `json:"platform,omitempty"`
}

// Validate checks if the handshake request is valid.
func (hr *HandshakeRequest) Validate() error {
	if !IsVersionSupported(hr.Version) {
		return fmt.Errorf("%w: version %d, supported %d-%d",
			ErrVersionMismatch, hr.Version, MinSupportedVersion, ProtocolVersion)
	}
	if hr.ClientID == "" {
		return fmt.Errorf("%w: client_id is required", ErrInvalidHandshake)
	}
	if hr.Protocols == "" && hr.Platform == "" {
		return fmt.Errorf("%w: one of protocols or platform is required", ErrInvalidHandshake)
	}
	return nil
}

// HandshakeResponse reports the outcome of a negotiation.
type HandshakeResponse struct {
	// Success indicates whether the peer meets every requirement.
	Success bool `json:"success"`

	// ServerVersion is the handshake format version this node uses.
	ServerVersion int `json:"server_version"`

	// Protocols is the peer's list as understood, in canonical form.
	Protocols string `json:"protocols,omitempty"`

	// Unsupported lists peer versions this node does not implement.
	Unsupported string `json:"unsupported,omitempty"`

	// Missing lists required versions the peer did not announce.
	Missing string `json:"missing,omitempty"`

	// Error contains error details if Success is false.
	Error string `json:"error,omitempty"`

	// ErrorCode is a machine-readable error code.
	ErrorCode string `json:"error_code,omitempty"`
}

// ErrorMessage indicates a protocol-level error.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error codes for HandshakeResponse and ErrorMessage.
const (
	ErrorCodeVersionMismatch  = "VERSION_MISMATCH"
	ErrorCodeProtocolError    = "PROTOCOL_ERROR"
	ErrorCodeMissingProtocols = "MISSING_PROTOCOLS"
	ErrorCodeInternalError    = "INTERNAL_ERROR"
)
