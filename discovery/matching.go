// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package discovery

import (
	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/proxy"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/reader"
	"github.com/go-dds/rtps/writer"
)

// MatchOutcome is the result of running the QoS compatibility engine against
// a freshly discovered remote endpoint.
type MatchOutcome struct {
	Compatible   bool
	FailedPolicy qos.PolicyId
}

func instanceHandle(g guid.Guid) [16]byte {
	var h [16]byte
	copy(h[:12], g.Prefix[:])
	copy(h[12:], g.Entity[:])
	return h
}

// MatchReaderToWriter runs qos.Compatible for a local reader against a
// remote writer discovered over SEDP. On success it builds a proxy.WriterProxy
// from the announced locators and registers it with sr; either way the
// matched/incompatible status trackers are updated, mirroring how a real
// reader's SubscriptionMatchedStatus and RequestedIncompatibleQosStatus are
// maintained.
func MatchReaderToWriter(sr *reader.StatefulReader, localQos qos.ReaderQos, remote SedpDiscoveredWriterData, matched *qos.MatchedTracker, incompat *qos.IncompatibleQosTracker) MatchOutcome {
	ok, failing := qos.Compatible(remote.Qos, localQos)
	if !ok {
		incompat.Incompatible(failing)
		return MatchOutcome{Compatible: false, FailedPolicy: failing}
	}
	wp := proxy.NewWriterProxy(remote.EndpointGuid, remote.GroupEntityId, remote.UnicastLocators, remote.MulticastLocators, 0)
	sr.MatchWriter(wp)
	matched.Matched(instanceHandle(remote.EndpointGuid))
	return MatchOutcome{Compatible: true}
}

// UnmatchWriter tears down a previously matched writer, e.g. on SEDP
// dispose or participant lease expiry.
func UnmatchWriter(sr *reader.StatefulReader, writerGuid guid.Guid, matched *qos.MatchedTracker) {
	sr.UnmatchWriter(writerGuid)
	matched.Unmatched(instanceHandle(writerGuid))
}

// MatchWriterToReader is the mirror of MatchReaderToWriter for the
// publication side: a local writer matching a remote reader discovered over
// SEDP.
func MatchWriterToReader(sw *writer.StatefulWriter, localQos qos.WriterQos, remote SedpDiscoveredReaderData, matched *qos.MatchedTracker, incompat *qos.IncompatibleQosTracker) MatchOutcome {
	ok, failing := qos.Compatible(localQos, remote.Qos)
	if !ok {
		incompat.Incompatible(failing)
		return MatchOutcome{Compatible: false, FailedPolicy: failing}
	}
	pushMode := true
	rp := proxy.NewReaderProxy(remote.EndpointGuid, remote.GroupEntityId, remote.UnicastLocators, remote.MulticastLocators, false, pushMode)
	sw.MatchReader(rp)
	matched.Matched(instanceHandle(remote.EndpointGuid))
	return MatchOutcome{Compatible: true}
}

// UnmatchReader tears down a previously matched reader.
func UnmatchReader(sw *writer.StatefulWriter, readerGuid guid.Guid, matched *qos.MatchedTracker) {
	sw.UnmatchReader(readerGuid)
	matched.Unmatched(instanceHandle(readerGuid))
}
