// Package protover parses, validates and votes on subprotocol version lists.
//
// Relays advertise the versions of each subprotocol they implement as a
// compact string such as "Link=1-5 Relay=1-2". A RangeSet holds the versions
// of one protocol; Entry and UnvalidatedEntry map protocol names to
// RangeSets, over the closed set of known protocols and over arbitrary names
// respectively. ComputeVote aggregates many advertisements into the versions
// listed by at least a threshold of them.
//
// Everything here is a pure function of its inputs and safe for concurrent
// use. Expansion of untrusted input is capped by MaxProtocolsToExpand.
package protover
