package protocol

import (
	"fmt"

	"github.com/anyhost/protover/internal/protover"
	"github.com/anyhost/protover/internal/torversion"
)

// Negotiator checks peer handshakes against the versions this node requires.
type Negotiator struct {
	// Required lists versions a peer must announce to be accepted.
	Required protover.UnvalidatedEntry

	// Oracle orders platform versions for peers that predate protocol
	// advertisement. Nil means torversion.AsNewAs.
	Oracle protover.VersionOracle
}

// NewNegotiator parses the required protocol list. An empty list requires
// nothing.
func NewNegotiator(required string, oracle protover.VersionOracle) (*Negotiator, error) {
	n := &Negotiator{Oracle: oracle}
	if required == "" {
		return n, nil
	}
	entry, err := protover.ParseUnvalidatedEntry(required)
	if err != nil {
		return nil, fmt.Errorf("invalid required protocols: %w", err)
	}
	n.Required = entry
	return n, nil
}

// Negotiate evaluates a handshake. The response is always populated; the
// error is a *ProtocolError whenever the response reports failure.
func (n *Negotiator) Negotiate(req *HandshakeRequest) (*HandshakeResponse, error) {
	resp := &HandshakeResponse{ServerVersion: ProtocolVersion}

	if err := req.Validate(); err != nil {
		return fail(resp, ErrorToCode(err), "handshake rejected", err)
	}

	peer, err := n.advertised(req)
	if err != nil {
		return fail(resp, ErrorCodeProtocolError, "unparseable protocol list",
			fmt.Errorf("%w: %w", ErrInvalidHandshake, err))
	}
	resp.Protocols = peer.String()
	resp.Unsupported = peer.GetUnsupported().String()

	if missing := n.Missing(peer); !missing.IsEmpty() {
		resp.Missing = missing.String()
		return fail(resp, ErrorCodeMissingProtocols, "peer lacks required protocols",
			fmt.Errorf("%w: %s", ErrMissingProtocols, resp.Missing))
	}

	resp.Success = true
	return resp, nil
}

// Missing returns the required versions absent from peer.
func (n *Negotiator) Missing(peer protover.UnvalidatedEntry) protover.UnvalidatedEntry {
	var missing protover.UnvalidatedEntry
	for name, want := range n.Required.All() {
		have, _ := peer.Get(name)
		if diff := want.Difference(have); !diff.IsEmpty() {
			missing.Insert(name, diff)
		}
	}
	return missing
}

// advertised resolves the peer's protocol list, falling back to the legacy
// table keyed by platform. A peer that resolves to no list announces nothing.
func (n *Negotiator) advertised(req *HandshakeRequest) (protover.UnvalidatedEntry, error) {
	list := req.Protocols
	if list == "" {
		oracle := n.Oracle
		if oracle == nil {
			oracle = torversion.AsNewAs
		}
		list = protover.ComputeForOldTor(req.Platform, oracle)
	}
	if list == "" {
		return protover.UnvalidatedEntry{}, nil
	}
	return protover.ParseUnvalidatedEntry(list)
}

func fail(resp *HandshakeResponse, code, message string, err error) (*HandshakeResponse, error) {
	resp.Success = false
	resp.ErrorCode = code
	resp.Error = err.Error()
	return resp, NewProtocolError(code, message, err)
}
