package protover

// FirstVersionToAdvertiseProtocols is the first software release that
// reports its own protocol list. Older peers get one of the lists below.
const FirstVersionToAdvertiseProtocols = "0.2.9.3-alpha"

// VersionOracle reports whether the software version candidate is at least
// as new as threshold.
type VersionOracle func(candidate, threshold string) bool

// Hard-coded protocol lists for peers that predate protocol advertisement,
// newest first.
var legacyProtocols = []struct {
	since     string
	protocols string
}{
	{
		since: "0.2.9.1-alpha",
		protocols: "Cons=1-2 Desc=1-2 DirCache=1 HSDir=1 HSIntro=3 HSRend=1-2 " +
			"Link=1-4 LinkAuth=1 Microdesc=1-2 Relay=1-2",
	},
	{
		since: "0.2.7.5",
		protocols: "Cons=1-2 Desc=1-2 DirCache=1 HSDir=1 HSIntro=3 HSRend=1 " +
			"Link=1-4 LinkAuth=1 Microdesc=1-2 Relay=1-2",
	},
	{
		since: "0.2.4.19",
		protocols: "Cons=1 Desc=1 DirCache=1 HSDir=1 HSIntro=3 HSRend=1 " +
			"Link=1-4 LinkAuth=1 Microdesc=1 Relay=1-2",
	},
}

// ComputeForOldTor returns the protocol list implied by a software version
// too old to report one itself. It returns "" for versions that advertise
// their own list, and for versions older than 0.2.4.19.
func ComputeForOldTor(version string, isAtLeast VersionOracle) string {
	if isAtLeast(version, FirstVersionToAdvertiseProtocols) {
		return ""
	}
	for _, legacy := range legacyProtocols {
		if isAtLeast(version, legacy.since) {
			return legacy.protocols
		}
	}
	return ""
}
