package protover

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releaseOrder is a toy oracle over a fixed list of releases, oldest first.
func releaseOrder(releases ...string) VersionOracle {
	return func(candidate, threshold string) bool {
		c, t := slices.Index(releases, candidate), slices.Index(releases, threshold)
		return c >= 0 && t >= 0 && c >= t
	}
}

func TestComputeForOldTor(t *testing.T) {
	oracle := releaseOrder(
		"0.2.3.0",
		"0.2.4.19",
		"0.2.5.1",
		"0.2.7.5",
		"0.2.8.9",
		"0.2.9.1-alpha",
		"0.2.9.2-alpha",
		"0.2.9.3-alpha",
		"0.3.0.1",
	)

	tests := []struct {
		version string
		want    string
	}{
		{"0.2.3.0", ""},
		{"0.2.4.19", legacyProtocols[2].protocols},
		{"0.2.5.1", legacyProtocols[2].protocols},
		{"0.2.7.5", legacyProtocols[1].protocols},
		{"0.2.8.9", legacyProtocols[1].protocols},
		{"0.2.9.1-alpha", legacyProtocols[0].protocols},
		{"0.2.9.2-alpha", legacyProtocols[0].protocols},
		{"0.2.9.3-alpha", ""},
		{"0.3.0.1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeForOldTor(tt.version, oracle))
		})
	}
}

func TestLegacyProtocolsParse(t *testing.T) {
	for _, legacy := range legacyProtocols {
		entry, err := ParseEntry(legacy.protocols)
		require.NoError(t, err, legacy.since)
		assert.Equal(t, legacy.protocols, entry.String(), "legacy lists are kept canonical")

		ok, _ := AllSupported(legacy.protocols)
		assert.True(t, ok, "%s peers must be fully supported", legacy.since)
	}
}
