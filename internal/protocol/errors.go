package protocol

import (
	"errors"
	"fmt"
)

// Handshake errors.
var (
	// ErrVersionMismatch indicates an unsupported handshake format version.
	ErrVersionMismatch = errors.New("protocol version mismatch")

	// ErrInvalidHandshake indicates a malformed handshake request, including
	// a protocol list that does not parse.
	ErrInvalidHandshake = errors.New("invalid handshake request")

	// ErrMissingProtocols indicates the peer lacks versions this node requires.
	ErrMissingProtocols = errors.New("required protocols missing")

	// ErrInvalidMessage indicates a malformed protocol message.
	ErrInvalidMessage = errors.New("invalid protocol message")
)

// ProtocolError wraps an error with additional protocol context.
type ProtocolError struct {
	Code       string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (pe *ProtocolError) Error() string {
	if pe.Underlying != nil {
		return fmt.Sprintf("%s: %s (%s)", pe.Code, pe.Message, pe.Underlying.Error())
	}
	return fmt.Sprintf("%s: %s", pe.Code, pe.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (pe *ProtocolError) Unwrap() error {
	return pe.Underlying
}

// NewProtocolError creates a new ProtocolError with the given details.
func NewProtocolError(code, message string, underlying error) *ProtocolError {
	return &ProtocolError{
		Code:       code,
		Message:    message,
		Underlying: underlying,
	}
}

// ErrorToCode converts a known error to its corresponding error code.
func ErrorToCode(err error) string {
	switch {
	case errors.Is(err, ErrVersionMismatch):
		return ErrorCodeVersionMismatch
	case errors.Is(err, ErrMissingProtocols):
		return ErrorCodeMissingProtocols
	case errors.Is(err, ErrInvalidHandshake), errors.Is(err, ErrInvalidMessage):
		return ErrorCodeProtocolError
	default:
		return ErrorCodeInternalError
	}
}

// CodeToError converts an error code to its corresponding error.
func CodeToError(code string) error {
	switch code {
	case ErrorCodeVersionMismatch:
		return ErrVersionMismatch
	case ErrorCodeMissingProtocols:
		return ErrMissingProtocols
	case ErrorCodeProtocolError:
		return ErrInvalidHandshake
	default:
		return fmt.Errorf("unknown error: %s", code)
	}
}
