package protover

// VoteReport describes what ComputeVoteReport did with its input.
type VoteReport struct {
	// Voters is the number of entries passed in.
	Voters int
	// Skipped holds the indexes of entries left out for expanding to more
	// than MaxProtocolsToExpand versions.
	Skipped []int
}

// ComputeVote returns every protocol version listed by at least threshold
// of the given entries.
//
// An entry that expands to more than MaxProtocolsToExpand versions is
// ignored rather than failing the whole vote.
func ComputeVote(votes []UnvalidatedEntry, threshold int) UnvalidatedEntry {
	result, _ := ComputeVoteReport(votes, threshold)
	return result
}

// ComputeVoteReport is ComputeVote that also reports which entries were
// skipped.
func ComputeVoteReport(votes []UnvalidatedEntry, threshold int) (UnvalidatedEntry, VoteReport) {
	var result UnvalidatedEntry
	report := VoteReport{Voters: len(votes)}
	if len(votes) == 0 {
		return result, report
	}

	counts := make(map[UnknownProtocol]map[Version]int)
	for i, vote := range votes {
		if vote.VersionCount() > MaxProtocolsToExpand {
			report.Skipped = append(report.Skipped, i)
			continue
		}
		for name, versions := range vote.m {
			perVersion, ok := counts[name]
			if !ok {
				perVersion = make(map[Version]int)
				counts[name] = perVersion
			}
			for v := range versions.Expand() {
				perVersion[v]++
			}
		}
	}

	for name, perVersion := range counts {
		var accepted []Version
		for v, n := range perVersion {
			if n >= threshold {
				accepted = append(accepted, v)
			}
		}
		if len(accepted) == 0 {
			continue
		}
		result.Insert(name, FromVersions(accepted))
	}
	return result, report
}

// ComputeVoteStrings parses each protocol list, votes over the parseable
// ones and serializes the result.
func ComputeVoteStrings(lists []string, threshold int) string {
	votes := make([]UnvalidatedEntry, 0, len(lists))
	for _, s := range lists {
		vote, err := ParseUnvalidatedEntryAnyLen(s)
		if err != nil {
			continue
		}
		votes = append(votes, vote)
	}
	return ComputeVote(votes, threshold).String()
}
