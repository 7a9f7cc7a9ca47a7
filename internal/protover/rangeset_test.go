package protover

import (
	"slices"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeSet(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []Version
		want     string
	}{
		{"empty", "", nil, ""},
		{"only commas", ",,,", nil, ""},
		{"blank", "   ", nil, ""},
		{"single", "1", []Version{1}, "1"},
		{"two singles", "1,2", []Version{1, 2}, "1,2"},
		{"range", "1-3", []Version{1, 2, 3}, "1-3"},
		{"from zero", "0-1", []Version{0, 1}, "0-1"},
		{"range and single", "1-2,5", []Version{1, 2, 5}, "1-2,5"},
		{"single and range", "1,3-5", []Version{1, 3, 4, 5}, "1,3-5"},
		{"wider values", "42,55-58", []Version{42, 55, 56, 57, 58}, "42,55-58"},
		{"full space", "0-4294967294", []Version{0, 4294967294}, "0-4294967294"},
		{"unsorted input", "8,3-5", []Version{3, 4, 5, 8}, "3-5,8"},
		{"whitespace around tokens", " 1 , 3-5 ,, ", []Version{1, 3, 4, 5}, "1,3-5"},
		{"duplicates", "3,3,1-2,1-2", []Version{1, 2, 3}, "1-2,3"},
		{"adjacent ranges", "1-2,3-4", []Version{1, 2, 3, 4}, "1-2,3-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseRangeSet(tt.input)
			require.NoError(t, err)
			for _, v := range tt.contains {
				assert.True(t, set.Contains(v), "should contain %d", v)
			}
			assert.Equal(t, tt.want, set.String())
		})
	}
}

func TestParseRangeSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"letters", "a,b", ErrUnparseable},
		{"negative", "-1", ErrUnparseable},
		{"leading double hyphen", "--1", ErrUnparseable},
		{"missing low", "-1-2", ErrUnparseable},
		{"double hyphen", "1--2", ErrUnparseable},
		{"missing high", "1-", ErrUnparseable},
		{"triple", "1-2-3", ErrUnparseable},
		{"exclamation", "1,!", ErrUnparseable},
		{"percent equal", "%=", ErrUnparseable},
		{"bare equal", "=", ErrUnparseable},
		{"plus sign", "+5", ErrUnparseable},
		{"inner whitespace", "1 - 2", ErrUnparseable},
		{"overlap", "1-3,2-4", ErrOverlap},
		{"contained", "0-5,1", ErrOverlap},
		{"range starting at previous high", "1-3,3-5", ErrOverlap},
		{"shared zero", "0,0-5", ErrOverlap},
		{"low greater than high", "5-3", ErrLowGreaterThanHigh},
		{"max", "4294967295", ErrExceedsMax},
		{"max as high", "1-4294967295", ErrExceedsMax},
		{"max plus one", "4294967296", ErrUnparseable},
		{"max then unparseable high", "4294967295-4294967296", ErrUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseRangeSet(tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, set.IsEmpty())
		})
	}
}

func TestParseRangeSet_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "1", "1-2", "1,3", "1-4", "1,3,5-7", "1-3,500", "3-5,8", "0-4294967294"} {
		set, err := ParseRangeSet(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, set.String())
	}
}

func TestNewRangeSet(t *testing.T) {
	set, err := NewRangeSet([]Range{{13, 14}, {0, 5}, {7, 9}, {0, 5}})
	require.NoError(t, err)
	assert.Equal(t, "0-5,7-9,13-14", set.String())

	for x := Version(0); x < 6; x++ {
		assert.True(t, set.Contains(x), "should contain %d", x)
	}
	for x := Version(7); x < 10; x++ {
		assert.True(t, set.Contains(x), "should contain %d", x)
	}
	for _, x := range []Version{6, 10, 11, 12, 15, 42, 1234584} {
		assert.False(t, set.Contains(x), "should not contain %d", x)
	}

	_, err = NewRangeSet([]Range{{1, 3}, {2, 4}})
	require.ErrorIs(t, err, ErrOverlap)

	_, err = NewRangeSet([]Range{{MaxVersion, MaxVersion}})
	require.ErrorIs(t, err, ErrExceedsMax)

	_, err = NewRangeSet([]Range{{4, 2}})
	require.ErrorIs(t, err, ErrLowGreaterThanHigh)

	empty, err := NewRangeSet(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestFromVersions(t *testing.T) {
	tests := []struct {
		name     string
		versions []Version
		want     string
	}{
		{"empty", nil, ""},
		{"single", []Version{1}, "1"},
		{"run", []Version{1, 2, 3}, "1-3"},
		{"run and gap", []Version{0, 1, 2, 3, 15}, "0-3,15"},
		{"unordered with duplicates", []Version{2, 3, 8, 4, 3, 9, 7, 2}, "2-4,7-9"},
		{"top of space", []Version{4294967293, 4294967294}, "4294967293-4294967294"},
		{"sentinel", []Version{1, MaxVersion}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := FromVersions(tt.versions)
			assert.Equal(t, tt.want, set.String())
			if tt.want != "" {
				for _, v := range tt.versions {
					assert.True(t, set.Contains(v))
				}
			}
		})
	}
}

func TestRangeSet_LenAndExpand(t *testing.T) {
	set, err := ParseRangeSet("1-3,7")
	require.NoError(t, err)

	assert.Equal(t, uint64(4), set.Len())
	assert.Equal(t, []Version{1, 2, 3, 7}, slices.Collect(set.Expand()))
	assert.Equal(t, slices.Collect(set.Expand()), slices.Collect(set.Expand()), "expand must be restartable")

	var first []Version
	for v := range set.Expand() {
		first = append(first, v)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []Version{1, 2}, first)

	huge, err := ParseRangeSet("0-4294967294")
	require.NoError(t, err)
	assert.Equal(t, uint64(4294967295), huge.Len())

	big, err := ParseRangeSet("1-13,42,9001,4294967294")
	require.NoError(t, err)
	expanded := slices.Collect(big.Expand())
	assert.Contains(t, expanded, Version(7))
	assert.Contains(t, expanded, Version(9001))
	assert.Contains(t, expanded, Version(4294967294))

	var empty RangeSet
	assert.Zero(t, empty.Len())
	assert.Empty(t, slices.Collect(empty.Expand()))
}

func TestRangeSet_Retain(t *testing.T) {
	set, err := ParseRangeSet("1-10")
	require.NoError(t, err)

	evens := set
	evens.Retain(func(v Version) bool { return v%2 == 0 })
	assert.Equal(t, "2,4,6,8,10", evens.String())
	assert.Equal(t, "1-10", set.String(), "retain must not touch copies")

	ends := set
	ends.Retain(func(v Version) bool { return v <= 3 || v >= 8 })
	assert.Equal(t, "1-3,8-10", ends.String())

	none := set
	none.Retain(func(Version) bool { return false })
	assert.True(t, none.IsEmpty())
}

func TestRangeSet_Difference(t *testing.T) {
	tests := []struct {
		name  string
		set   string
		other string
		want  string
	}{
		{"hole in the middle", "0-5", "1-2", "0,3-5"},
		{"identical", "1-2", "1-2", ""},
		{"disjoint", "12-100", "1-2", "12-100"},
		{"other empty", "1,3-5", "", "1,3-5"},
		{"self empty", "", "1-5", ""},
		{"low edge", "0-1", "1-2", "0"},
		{"several holes", "1-20", "2,5-6,19-30", "1,3-4,7-18"},
		{"other spans several", "1-2,4-5,9", "0-6", "9"},
		{"adjacent input ranges merge", "1-2,3-5", "", "1-5"},
		{"adjacent input ranges split", "1-2,3-5", "3", "1-2,4-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseRangeSet(tt.set)
			require.NoError(t, err)
			other, err := ParseRangeSet(tt.other)
			require.NoError(t, err)

			assert.Equal(t, tt.want, set.Difference(other).String())
		})
	}
}

func TestRangeSet_HighestVersion(t *testing.T) {
	var empty RangeSet
	_, ok := empty.HighestVersion()
	assert.False(t, ok)

	set, err := ParseRangeSet("1-3,9,5-6")
	require.NoError(t, err)
	highest, ok := set.HighestVersion()
	require.True(t, ok)
	assert.Equal(t, Version(9), highest)
}

func TestRangeSet_Text(t *testing.T) {
	var set RangeSet
	require.NoError(t, set.UnmarshalText([]byte("5,1-3")))
	text, err := set.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1-3,5", string(text))

	require.ErrorIs(t, set.UnmarshalText([]byte("1-3,2-4")), ErrOverlap)
	assert.Equal(t, "1-3,5", set.String(), "failed unmarshal must leave the set untouched")
}

func TestRangeSet_Properties(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 64)

	for i := 0; i < 200; i++ {
		var raw, rawOther []uint8
		f.Fuzz(&raw)
		f.Fuzz(&rawOther)

		versions := toVersions(raw)
		set := FromVersions(versions)
		other := FromVersions(toVersions(rawOther))

		reparsed, err := ParseRangeSet(set.String())
		require.NoError(t, err)
		require.True(t, set.Equal(reparsed), "round trip of %q", set.String())

		expanded := slices.Collect(set.Expand())
		require.Equal(t, uint64(len(expanded)), set.Len())
		for v := Version(0); v < 300; v++ {
			require.Equal(t, slices.Contains(expanded, v), set.Contains(v), "contains %d in %q", v, set.String())
		}

		var want []Version
		for _, v := range expanded {
			if !other.Contains(v) {
				want = append(want, v)
			}
		}
		require.Equal(t, FromVersions(want).String(), set.Difference(other).String())
	}
}

func toVersions(raw []uint8) []Version {
	versions := make([]Version, len(raw))
	for i, b := range raw {
		versions[i] = Version(b)
	}
	return versions
}
