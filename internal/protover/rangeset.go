package protover

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Version identifies one numbered revision of a subprotocol.
type Version uint32

// MaxVersion is reserved. It marks the exhausted value space and is never a
// legal member of a RangeSet.
const MaxVersion Version = math.MaxUint32

// String returns the decimal form of the version.
func (v Version) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// Range is an inclusive span of versions.
type Range struct {
	Low  Version
	High Version
}

// String returns "low-high", or the bare number for a single version.
func (r Range) String() string {
	if r.Low == r.High {
		return r.Low.String()
	}
	return r.Low.String() + "-" + r.High.String()
}

// Len returns the number of versions in the range.
func (r Range) Len() uint64 {
	return uint64(r.High) - uint64(r.Low) + 1
}

// RangeSet is a sorted list of disjoint inclusive version ranges.
//
// The zero value is an empty set. A RangeSet is only ever built through
// one of the constructors below, so a non-empty value is always valid.
type RangeSet struct {
	ranges []Range
}

// NewRangeSet builds a RangeSet from unordered, possibly duplicated pairs.
func NewRangeSet(pairs []Range) (RangeSet, error) {
	ranges := slices.Clone(pairs)
	sortRanges(ranges)
	return fromSorted(slices.Compact(ranges))
}

// ParseRangeSet parses a comma separated list of versions and version
// ranges, e.g. "1,3-5". Whitespace around each token is ignored and empty
// tokens are skipped, so "" and ",," both yield the empty set.
func ParseRangeSet(s string) (RangeSet, error) {
	var ranges []Range
	for _, piece := range strings.Split(strings.TrimSpace(s), ",") {
		token := strings.TrimSpace(piece)
		if token == "" {
			continue
		}
		r, err := parseRange(token)
		if err != nil {
			return RangeSet{}, err
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return RangeSet{}, nil
	}

	sortRanges(ranges)
	return fromSorted(slices.Compact(ranges))
}

// FromVersions builds the minimal RangeSet holding exactly the given
// versions, coalescing runs of consecutive values into one range. Input order
// and duplicates do not matter. If the versions include MaxVersion the
// result is the empty set.
func FromVersions(versions []Version) RangeSet {
	vs := slices.Clone(versions)
	slices.Sort(vs)
	vs = slices.Compact(vs)

	var ranges []Range
	for len(vs) > 0 {
		n := 1
		for n < len(vs) && vs[n] == vs[n-1]+1 {
			n++
		}
		ranges = append(ranges, Range{Low: vs[0], High: vs[n-1]})
		vs = vs[n:]
	}

	set, err := fromSorted(ranges)
	if err != nil {
		return RangeSet{}
	}
	return set
}

func parseRange(token string) (Range, error) {
	lowStr, highStr, isRange := strings.Cut(token, "-")
	if !isRange {
		v, err := parseUint32(token)
		if err != nil {
			return Range{}, err
		}
		if v == MaxVersion {
			return Range{}, fmt.Errorf("%w: version %q", ErrExceedsMax, token)
		}
		return Range{Low: v, High: v}, nil
	}

	low, err := parseUint32(lowStr)
	if err != nil {
		return Range{}, err
	}
	high, err := parseUint32(highStr)
	if err != nil {
		return Range{}, err
	}
	if low == MaxVersion || high == MaxVersion {
		return Range{}, fmt.Errorf("%w: range %q", ErrExceedsMax, token)
	}
	return Range{Low: low, High: high}, nil
}

func parseUint32(s string) (Version, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q", ErrUnparseable, s)
	}
	return Version(n), nil
}

func sortRanges(ranges []Range) {
	slices.SortFunc(ranges, func(a, b Range) int {
		if c := cmp.Compare(a.Low, b.Low); c != 0 {
			return c
		}
		return cmp.Compare(a.High, b.High)
	})
}

// fromSorted validates ranges already sorted by Low. Every range after the
// first must start strictly after the previous range's High. This is stricter
// than the legacy C parser, which accepted a Low equal to the previous High.
func fromSorted(ranges []Range) (RangeSet, error) {
	var lastHigh Version
	for i, r := range ranges {
		if r.Low == MaxVersion || r.High == MaxVersion {
			return RangeSet{}, fmt.Errorf("%w: range %d-%d", ErrExceedsMax, r.Low, r.High)
		}
		if i > 0 && r.Low <= lastHigh {
			return RangeSet{}, fmt.Errorf("%w: %d-%d starts at or before %d", ErrOverlap, r.Low, r.High, lastHigh)
		}
		if r.Low > r.High {
			return RangeSet{}, fmt.Errorf("%w: %d-%d", ErrLowGreaterThanHigh, r.Low, r.High)
		}
		lastHigh = r.High
	}
	if len(ranges) == 0 {
		return RangeSet{}, nil
	}
	return RangeSet{ranges: ranges}, nil
}

// IsEmpty reports whether the set holds no versions.
func (s RangeSet) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Contains reports whether v falls inside any range of the set.
func (s RangeSet) Contains(v Version) bool {
	for _, r := range s.ranges {
		if r.Low <= v && v <= r.High {
			return true
		}
	}
	return false
}

// Len returns the number of versions the set expands to.
func (s RangeSet) Len() uint64 {
	var n uint64
	for _, r := range s.ranges {
		n += r.Len()
	}
	return n
}

// Ranges returns a copy of the underlying ranges in ascending order.
func (s RangeSet) Ranges() []Range {
	return slices.Clone(s.ranges)
}

// All iterates over the underlying ranges in ascending order.
func (s RangeSet) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for _, r := range s.ranges {
			if !yield(r) {
				return
			}
		}
	}
}

// Expand iterates over every version in the set in ascending order.
//
// A single range can hold billions of versions; callers that need bounded
// work must check Len first.
func (s RangeSet) Expand() iter.Seq[Version] {
	return func(yield func(Version) bool) {
		for _, r := range s.ranges {
			// High is never MaxVersion, so v cannot wrap.
			for v := r.Low; v <= r.High; v++ {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// HighestVersion returns the largest version in the set.
func (s RangeSet) HighestVersion() (Version, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	var highest Version
	for _, r := range s.ranges {
		highest = max(highest, r.High)
	}
	return highest, true
}

// Retain keeps only the versions for which keep returns true.
func (s *RangeSet) Retain(keep func(Version) bool) {
	var kept []Version
	for v := range s.Expand() {
		if keep(v) {
			kept = append(kept, v)
		}
	}
	*s = FromVersions(kept)
}

// Difference returns the versions present in s but absent from other.
func (s RangeSet) Difference(other RangeSet) RangeSet {
	var pieces []Range
	for _, r := range s.ranges {
		low, covered := r.Low, false
		for _, o := range other.ranges {
			if o.High < low || o.Low > r.High {
				continue
			}
			if o.Low > low {
				pieces = append(pieces, Range{Low: low, High: o.Low - 1})
			}
			if o.High >= r.High {
				covered = true
				break
			}
			low = o.High + 1
		}
		if !covered {
			pieces = append(pieces, Range{Low: low, High: r.High})
		}
	}
	return RangeSet{ranges: coalesce(pieces)}
}

// coalesce merges sorted ranges that touch or overlap.
func coalesce(pieces []Range) []Range {
	if len(pieces) == 0 {
		return nil
	}
	out := []Range{pieces[0]}
	for _, p := range pieces[1:] {
		last := &out[len(out)-1]
		if p.Low <= last.High+1 {
			last.High = max(last.High, p.High)
			continue
		}
		out = append(out, p)
	}
	return out
}

// Equal reports whether both sets hold identical ranges.
func (s RangeSet) Equal(other RangeSet) bool {
	return slices.Equal(s.ranges, other.ranges)
}

// String returns the canonical form: ranges in ascending order, single
// versions as a bare number, joined by commas.
func (s RangeSet) String() string {
	parts := make([]string, 0, len(s.ranges))
	for _, r := range s.ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (s RangeSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *RangeSet) UnmarshalText(text []byte) error {
	parsed, err := ParseRangeSet(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
