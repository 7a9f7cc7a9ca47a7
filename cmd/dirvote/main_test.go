package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anyhost/protover/internal/common"
)

func TestComputeVote(t *testing.T) {
	var logs bytes.Buffer
	logger := common.NewLogger("debug", &logs)

	got := computeVote(logger, common.VoteConfig{
		Votes: []common.Vote{
			{Name: "moria1", Protocols: "Cons=1-2 Link=1-5"},
			{Name: "tor26", Protocols: "Cons=1 Link=3-6"},
			{Name: "dizum", Protocols: "garbage"},
			{Name: "gabelmoo", Protocols: "Link=1-70000"},
		},
	})

	// Majority of four is three, so only versions listed by every
	// parseable, bounded vote survive.
	assert.Equal(t, "", got)
	assert.Contains(t, logs.String(), "voter=dizum")
	assert.Contains(t, logs.String(), "voter=gabelmoo")

	got = computeVote(logger, common.VoteConfig{
		Threshold: 2,
		Votes: []common.Vote{
			{Name: "moria1", Protocols: "Cons=1-2 Link=1-5"},
			{Name: "tor26", Protocols: "Cons=1 Link=3-6"},
		},
	})
	assert.Equal(t, "Cons=1 Link=3-5", got)
}
