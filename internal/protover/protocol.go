package protover

import "fmt"

// MaxProtocolNameLength bounds the name of an UnknownProtocol parsed from
// untrusted input.
const MaxProtocolNameLength = 100

// Protocol is one of the subprotocols this node knows about.
type Protocol int

const (
	Cons Protocol = iota
	Desc
	DirCache
	HSDir
	HSIntro
	HSRend
	Link
	LinkAuth
	Microdesc
	Relay
)

var protocolNames = [...]string{
	Cons:      "Cons",
	Desc:      "Desc",
	DirCache:  "DirCache",
	HSDir:     "HSDir",
	HSIntro:   "HSIntro",
	HSRend:    "HSRend",
	Link:      "Link",
	LinkAuth:  "LinkAuth",
	Microdesc: "Microdesc",
	Relay:     "Relay",
}

// AllProtocols returns every known protocol in declaration order.
func AllProtocols() []Protocol {
	all := make([]Protocol, len(protocolNames))
	for i := range protocolNames {
		all[i] = Protocol(i)
	}
	return all
}

func (p Protocol) String() string {
	if p < 0 || int(p) >= len(protocolNames) {
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
	return protocolNames[p]
}

// Unknown converts p to its open-set form.
func (p Protocol) Unknown() UnknownProtocol {
	return UnknownProtocol(p.String())
}

// ParseProtocol matches name against the known protocol names. Matching is
// case sensitive.
func ParseProtocol(name string) (Protocol, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty protocol name", ErrUnparseable)
	}
	for i, known := range protocolNames {
		if name == known {
			return Protocol(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, name)
}

// UnknownProtocol is a protocol name from an open set. Peers may advertise
// protocols this node does not implement yet.
type UnknownProtocol string

// ParseUnknownProtocol accepts any non-empty name of at most
// MaxProtocolNameLength bytes.
func ParseUnknownProtocol(name string) (UnknownProtocol, error) {
	if len(name) > MaxProtocolNameLength {
		return "", fmt.Errorf("%w: %d bytes", ErrExceedsNameLimit, len(name))
	}
	return parseUnknownProtocolAnyLen(name)
}

func parseUnknownProtocolAnyLen(name string) (UnknownProtocol, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty protocol name", ErrUnparseable)
	}
	return UnknownProtocol(name), nil
}

// Known returns the closed-set protocol with this name, if there is one.
func (p UnknownProtocol) Known() (Protocol, bool) {
	known, err := ParseProtocol(string(p))
	return known, err == nil
}

func (p UnknownProtocol) String() string {
	return string(p)
}
