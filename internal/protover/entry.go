package protover

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// MaxProtocolsToExpand caps how many versions a single parsed entry may
// expand to. It bounds the work an adversarial advertisement such as
// "Link=1-999999999" can cause.
const MaxProtocolsToExpand = 1 << 16

type protocolKey interface {
	comparable
	String() string
}

// entries is the storage shared by Entry and UnvalidatedEntry.
type entries[K protocolKey] struct {
	m map[K]RangeSet
}

// Get returns the versions listed for a protocol.
func (e entries[K]) Get(name K) (RangeSet, bool) {
	versions, ok := e.m[name]
	return versions, ok
}

// Insert sets the versions listed for a protocol, replacing any previous set.
func (e *entries[K]) Insert(name K, versions RangeSet) {
	if e.m == nil {
		e.m = make(map[K]RangeSet)
	}
	e.m[name] = versions
}

// Remove deletes a protocol and returns the versions it had.
func (e *entries[K]) Remove(name K) (RangeSet, bool) {
	versions, ok := e.m[name]
	delete(e.m, name)
	return versions, ok
}

// Len returns the number of protocols listed.
func (e entries[K]) Len() int {
	return len(e.m)
}

// IsEmpty reports whether no protocol is listed.
func (e entries[K]) IsEmpty() bool {
	return len(e.m) == 0
}

// VersionCount returns the total number of versions over all protocols.
func (e entries[K]) VersionCount() uint64 {
	var n uint64
	for _, versions := range e.m {
		n += versions.Len()
	}
	return n
}

// All iterates over the protocols sorted by name.
func (e entries[K]) All() iter.Seq2[K, RangeSet] {
	return func(yield func(K, RangeSet) bool) {
		for _, name := range e.sortedNames() {
			if !yield(name, e.m[name]) {
				return
			}
		}
	}
}

func (e entries[K]) sortedNames() []K {
	names := slices.Collect(maps.Keys(e.m))
	slices.SortFunc(names, func(a, b K) int {
		return strings.Compare(a.String(), b.String())
	})
	return names
}

// String serializes the entry as space separated "name=versions" clauses
// sorted by protocol name.
func (e entries[K]) String() string {
	clauses := make([]string, 0, len(e.m))
	for name, versions := range e.All() {
		clauses = append(clauses, name.String()+"="+versions.String())
	}
	return strings.Join(clauses, " ")
}

// MarshalText implements encoding.TextMarshaler.
func (e entries[K]) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e entries[K]) clone() entries[K] {
	return entries[K]{m: maps.Clone(e.m)}
}

func (e entries[K]) equal(other entries[K]) bool {
	return maps.EqualFunc(e.m, other.m, RangeSet.Equal)
}

// parseEntry splits s into "name=versions" clauses separated by exactly one
// space. Each clause is split on its first '='. The versions are parsed
// before the name is handed to parseName, and check runs last.
func parseEntry[K protocolKey](s string, parseName func(string) (K, error), check func(RangeSet) error) (entries[K], error) {
	parsed := entries[K]{m: make(map[K]RangeSet)}
	for _, clause := range strings.Split(s, " ") {
		rawName, rawVersions, ok := strings.Cut(clause, "=")
		if !ok {
			return entries[K]{}, fmt.Errorf("%w: clause %q has no '='", ErrUnparseable, clause)
		}
		versions, err := ParseRangeSet(rawVersions)
		if err != nil {
			return entries[K]{}, err
		}
		name, err := parseName(rawName)
		if err != nil {
			return entries[K]{}, err
		}
		if check != nil {
			if err := check(versions); err != nil {
				return entries[K]{}, fmt.Errorf("%s: %w", rawName, err)
			}
		}
		parsed.m[name] = versions
	}
	return parsed, nil
}

// Entry maps known protocols to the versions supported for each.
type Entry struct {
	entries[Protocol]
}

// ParseEntry parses an entry whose clauses must all name known protocols,
// e.g. "Cons=1-2 Link=1,3-5".
func ParseEntry(s string) (Entry, error) {
	parsed, err := parseEntry(s, ParseProtocol, checkExpansion)
	if err != nil {
		return Entry{}, err
	}
	return Entry{parsed}, nil
}

func checkExpansion(versions RangeSet) error {
	if n := versions.Len(); n > MaxProtocolsToExpand {
		return fmt.Errorf("%w: %d versions, limit %d", ErrExceedsMax, n, MaxProtocolsToExpand)
	}
	return nil
}

// Clone returns a copy that can be modified independently.
func (e Entry) Clone() Entry {
	return Entry{e.clone()}
}

// Equal reports whether both entries list the same versions.
func (e Entry) Equal(other Entry) bool {
	return e.equal(other.entries)
}

// Unvalidated converts e to the open-set form.
func (e Entry) Unvalidated() UnvalidatedEntry {
	var out UnvalidatedEntry
	for name, versions := range e.m {
		out.Insert(name.Unknown(), versions)
	}
	return out
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields an
// empty entry.
func (e *Entry) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = Entry{}
		return nil
	}
	parsed, err := ParseEntry(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// UnvalidatedEntry maps arbitrary protocol names to version sets. It is used
// for peer advertisements and votes, which may name protocols this node does
// not know.
type UnvalidatedEntry struct {
	entries[UnknownProtocol]
}

// ParseUnvalidatedEntry parses an entry whose protocol names are at most
// MaxProtocolNameLength bytes long.
func ParseUnvalidatedEntry(s string) (UnvalidatedEntry, error) {
	parsed, err := parseEntry(s, ParseUnknownProtocol, nil)
	if err != nil {
		return UnvalidatedEntry{}, err
	}
	return UnvalidatedEntry{parsed}, nil
}

// ParseUnvalidatedEntryAnyLen is ParseUnvalidatedEntry without the name
// length limit.
func ParseUnvalidatedEntryAnyLen(s string) (UnvalidatedEntry, error) {
	parsed, err := parseEntry(s, parseUnknownProtocolAnyLen, nil)
	if err != nil {
		return UnvalidatedEntry{}, err
	}
	return UnvalidatedEntry{parsed}, nil
}

// Clone returns a copy that can be modified independently.
func (e UnvalidatedEntry) Clone() UnvalidatedEntry {
	return UnvalidatedEntry{e.clone()}
}

// Equal reports whether both entries list the same versions.
func (e UnvalidatedEntry) Equal(other UnvalidatedEntry) bool {
	return e.equal(other.entries)
}

// Validate converts e to an Entry. It fails with ErrUnknownProtocol if any
// listed protocol is not a known one.
func (e UnvalidatedEntry) Validate() (Entry, error) {
	var out Entry
	for _, name := range e.sortedNames() {
		known, ok := name.Known()
		if !ok {
			return Entry{}, fmt.Errorf("%w: %q", ErrUnknownProtocol, string(name))
		}
		out.Insert(known, e.m[name])
	}
	return out, nil
}

// GetUnsupported returns the versions listed in e that this node does not
// support. Protocols this node does not know are unsupported entirely.
// Protocols fully supported are left out of the result.
func (e UnvalidatedEntry) GetUnsupported() UnvalidatedEntry {
	var unsupported UnvalidatedEntry
	for name, claimed := range e.m {
		var ours RangeSet
		if known, ok := name.Known(); ok {
			ours, _ = supported.Get(known)
		}
		if missing := claimed.Difference(ours); !missing.IsEmpty() {
			unsupported.Insert(name, missing)
		}
	}
	return unsupported
}

// SupportsProtocol reports whether e lists version v of the named protocol.
func (e UnvalidatedEntry) SupportsProtocol(name UnknownProtocol, v Version) bool {
	versions, ok := e.m[name]
	return ok && versions.Contains(v)
}

// SupportsProtocolOrLater reports whether e lists any range of the named
// protocol ending at v or later. v itself need not be listed.
func (e UnvalidatedEntry) SupportsProtocolOrLater(name UnknownProtocol, v Version) bool {
	high, ok := e.m[name].HighestVersion()
	return ok && high >= v
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields an
// empty entry.
func (e *UnvalidatedEntry) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = UnvalidatedEntry{}
		return nil
	}
	parsed, err := ParseUnvalidatedEntry(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
