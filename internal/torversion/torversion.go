// Package torversion compares relay software version strings such as
// "0.2.9.3-alpha" or "Tor 0.2.7.6 (git-605ae665009853bd)".
package torversion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// ErrUnparseable is returned when a version string is not of the form
// major.minor.micro[.patch][-status].
var ErrUnparseable = errors.New("torversion: unparseable version")

// Normalize strips a leading "Tor " and anything after the first space left
// over, such as a git tag.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Tor ")
	s, _, _ = strings.Cut(s, " ")
	return s
}

// Parse normalizes s and parses it. At least major, minor and micro must be
// present.
func Parse(s string) (*version.Version, error) {
	normalized := Normalize(s)
	numeric, _, _ := strings.Cut(normalized, "-")
	if strings.Count(numeric, ".") < 2 {
		return nil, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	v, err := version.NewVersion(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	return v, nil
}

// AsNewAs reports whether candidate is at least as new as threshold.
//
// A candidate that cannot be parsed is assumed to be new. A threshold that
// cannot be parsed is never reached.
func AsNewAs(candidate, threshold string) bool {
	t, err := Parse(threshold)
	if err != nil {
		return false
	}
	c, err := Parse(candidate)
	if err != nil {
		return true
	}
	return c.GreaterThanOrEqual(t)
}
