package protover

// SupportedProtocols lists every subprotocol version this node implements.
// It is the single source of truth for all "is this supported here" checks.
const SupportedProtocols = "Cons=1-2 " +
	"Desc=1-2 " +
	"DirCache=1-2 " +
	"HSDir=1-2 " +
	"HSIntro=3-4 " +
	"HSRend=1-2 " +
	"Link=1-5 " +
	"LinkAuth=1,3 " +
	"Microdesc=1-2 " +
	"Relay=1-2"

var supported = mustParseEntry(SupportedProtocols)

func mustParseEntry(s string) Entry {
	e, err := ParseEntry(s)
	if err != nil {
		panic("protover: bad built-in protocol list: " + err.Error())
	}
	return e
}

// Supported returns the protocols this node implements.
func Supported() Entry {
	return supported.Clone()
}

// IsSupportedHere reports whether this node implements version v of p.
func IsSupportedHere(p Protocol, v Version) bool {
	versions, ok := supported.Get(p)
	return ok && versions.Contains(v)
}

// AllSupported reports whether this node supports every version listed in
// s. When it does not, the missing versions are returned as well.
//
// An unparseable list is treated as fully supported: there is nothing in it
// this node could be asked to speak.
func AllSupported(s string) (bool, UnvalidatedEntry) {
	claimed, err := ParseUnvalidatedEntryAnyLen(s)
	if err != nil {
		return true, UnvalidatedEntry{}
	}
	missing := claimed.GetUnsupported()
	return missing.IsEmpty(), missing
}

// ListSupportsProtocol reports whether the protocol list s includes version
// v of the named protocol. An unparseable list supports nothing.
func ListSupportsProtocol(s string, name UnknownProtocol, v Version) bool {
	list, err := ParseUnvalidatedEntry(s)
	if err != nil {
		return false
	}
	return list.SupportsProtocol(name, v)
}

// ListSupportsProtocolOrLater is ListSupportsProtocol with the looser
// semantics of UnvalidatedEntry.SupportsProtocolOrLater.
func ListSupportsProtocolOrLater(s string, name UnknownProtocol, v Version) bool {
	list, err := ParseUnvalidatedEntry(s)
	if err != nil {
		return false
	}
	return list.SupportsProtocolOrLater(name, v)
}
