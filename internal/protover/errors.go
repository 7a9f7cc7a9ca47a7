package protover

import "errors"

// Errors returned by the parsing and validation entry points. Callers should
// match them with errors.Is; returned errors usually wrap one of these with
// the offending input.
var (
	// ErrUnparseable indicates malformed input: a bad token shape, a
	// non-numeric literal, an empty protocol name or a clause without '='.
	ErrUnparseable = errors.New("protover: unparseable")

	// ErrOverlap indicates a range beginning before the previous range ends.
	ErrOverlap = errors.New("protover: overlapping ranges")

	// ErrLowGreaterThanHigh indicates a range whose low exceeds its high.
	ErrLowGreaterThanHigh = errors.New("protover: range low greater than high")

	// ErrExceedsMax indicates a reserved sentinel endpoint, or an entry that
	// would expand to more than MaxProtocolsToExpand versions.
	ErrExceedsMax = errors.New("protover: exceeds maximum")

	// ErrExceedsNameLimit indicates a protocol name longer than
	// MaxProtocolNameLength.
	ErrExceedsNameLimit = errors.New("protover: protocol name too long")

	// ErrUnknownProtocol indicates a name outside the closed protocol set.
	ErrUnknownProtocol = errors.New("protover: unknown protocol")
)
