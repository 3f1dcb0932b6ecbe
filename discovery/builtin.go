// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package discovery implements SPDP participant discovery and SEDP
// endpoint discovery: the built-in stateless/stateful endpoint pairs that
// exchange SpdpDiscoveredParticipantData, SedpDiscoveredWriterData,
// SedpDiscoveredReaderData and SedpDiscoveredTopicData, and the matching
// logic that turns a received announcement into local Reader/Writer
// Proxies.
package discovery

// BuiltinEndpointSet is the bitmask of built-in (discovery) endpoints a
// participant has, carried in SpdpDiscoveredParticipantData (RTPS 2.3
// §8.5.3.3, Table 9.4). The topics-announcer/detector bits are a vendor
// extension pair (not in the core RTPS bitmask) since this implementation's
// SEDP carries SedpDiscoveredTopicData as a third announcer/detector pair
// alongside publications and subscriptions.
type BuiltinEndpointSet uint32

const (
	BuiltinEndpointParticipantAnnouncer    BuiltinEndpointSet = 1 << 0
	BuiltinEndpointParticipantDetector     BuiltinEndpointSet = 1 << 1
	BuiltinEndpointPublicationsAnnouncer   BuiltinEndpointSet = 1 << 2
	BuiltinEndpointPublicationsDetector    BuiltinEndpointSet = 1 << 3
	BuiltinEndpointSubscriptionsAnnouncer  BuiltinEndpointSet = 1 << 4
	BuiltinEndpointSubscriptionsDetector   BuiltinEndpointSet = 1 << 5
	BuiltinEndpointTopicsAnnouncer         BuiltinEndpointSet = 1 << 6
	BuiltinEndpointTopicsDetector          BuiltinEndpointSet = 1 << 7
)

// DefaultBuiltinEndpoints is the set every participant in this
// implementation always advertises: it always runs the full SEDP trio.
const DefaultBuiltinEndpoints = BuiltinEndpointParticipantAnnouncer |
	BuiltinEndpointParticipantDetector |
	BuiltinEndpointPublicationsAnnouncer |
	BuiltinEndpointPublicationsDetector |
	BuiltinEndpointSubscriptionsAnnouncer |
	BuiltinEndpointSubscriptionsDetector |
	BuiltinEndpointTopicsAnnouncer |
	BuiltinEndpointTopicsDetector

func (s BuiltinEndpointSet) Has(bit BuiltinEndpointSet) bool { return s&bit != 0 }
