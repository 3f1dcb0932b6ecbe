// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package discovery

import (
	"testing"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/reader"
	"github.com/go-dds/rtps/wire"
	"github.com/go-dds/rtps/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEndpointGuid(kind byte) guid.Guid {
	return guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, kind})
}

func TestMatchReaderToWriterCompatibleWiresProxy(t *testing.T) {
	sr := reader.NewStatefulReader(newTestEndpointGuid(guid.EntityKindUserReaderWithKey), qos.Reliable, 0)
	localQos := qos.DefaultReaderQos()
	localQos.Reliability.Kind = qos.Reliable

	remoteQos := qos.DefaultWriterQos()
	remoteQos.Reliability.Kind = qos.Reliable
	remote := SedpDiscoveredWriterData{
		EndpointGuid: newTestEndpointGuid(guid.EntityKindUserWriterWithKey),
		TopicName:    "chatter",
		TypeName:     "std_msgs/String",
		Qos:          remoteQos,
	}

	var matched qos.MatchedTracker
	var incompat qos.IncompatibleQosTracker

	outcome := MatchReaderToWriter(sr, localQos, remote, &matched, &incompat)
	require.True(t, outcome.Compatible)

	status := matched.ReadSubscription()
	assert.EqualValues(t, 1, status.CurrentCount)
	assert.EqualValues(t, 1, status.TotalCount)

	_, acked := sr.ReceiveHeartbeat(remote.EndpointGuid, wire.HeartbeatSubmessage{FirstSN: 1, LastSN: 1, Count: 1})
	assert.True(t, acked, "the matched writer proxy answers a HEARTBEAT with an ACKNACK")
}

func TestMatchReaderToWriterIncompatibleRecordsStatus(t *testing.T) {
	sr := reader.NewStatefulReader(newTestEndpointGuid(guid.EntityKindUserReaderWithKey), qos.Reliable, 0)
	localQos := qos.DefaultReaderQos()
	localQos.Reliability.Kind = qos.Reliable

	remote := SedpDiscoveredWriterData{
		EndpointGuid: newTestEndpointGuid(guid.EntityKindUserWriterWithKey),
		Qos:          qos.DefaultWriterQos(), // BestEffort, incompatible with a Reliable reader
	}

	var matched qos.MatchedTracker
	var incompat qos.IncompatibleQosTracker

	outcome := MatchReaderToWriter(sr, localQos, remote, &matched, &incompat)
	assert.False(t, outcome.Compatible)
	assert.Equal(t, qos.PolicyIdReliability, outcome.FailedPolicy)

	status := incompat.ReadRequested()
	assert.EqualValues(t, 1, status.TotalCount)
}

func TestMatchWriterToReaderCompatibleWiresProxy(t *testing.T) {
	sw := writer.NewStatefulWriter(newTestEndpointGuid(guid.EntityKindUserWriterWithKey), qos.Reliable, 0)
	localQos := qos.DefaultWriterQos()
	localQos.Reliability.Kind = qos.Reliable

	remoteQos := qos.DefaultReaderQos()
	remoteQos.Reliability.Kind = qos.Reliable
	remote := SedpDiscoveredReaderData{
		EndpointGuid: newTestEndpointGuid(guid.EntityKindUserReaderWithKey),
		Qos:          remoteQos,
	}

	var matched qos.MatchedTracker
	var incompat qos.IncompatibleQosTracker

	outcome := MatchWriterToReader(sw, localQos, remote, &matched, &incompat)
	require.True(t, outcome.Compatible)

	_, found := sw.ReaderProxy(remote.EndpointGuid)
	assert.True(t, found)
	status := matched.ReadPublication()
	assert.EqualValues(t, 1, status.CurrentCount)
}

func TestUnmatchWriterClearsReaderSideTracking(t *testing.T) {
	sr := reader.NewStatefulReader(newTestEndpointGuid(guid.EntityKindUserReaderWithKey), qos.Reliable, 0)
	localQos := qos.DefaultReaderQos()
	localQos.Reliability.Kind = qos.Reliable
	remoteQos := qos.DefaultWriterQos()
	remoteQos.Reliability.Kind = qos.Reliable
	remote := SedpDiscoveredWriterData{EndpointGuid: newTestEndpointGuid(guid.EntityKindUserWriterWithKey), Qos: remoteQos}

	var matched qos.MatchedTracker
	var incompat qos.IncompatibleQosTracker
	MatchReaderToWriter(sr, localQos, remote, &matched, &incompat)
	require.EqualValues(t, 1, matched.ReadSubscription().CurrentCount)

	UnmatchWriter(sr, remote.EndpointGuid, &matched)
	assert.EqualValues(t, 0, matched.ReadSubscription().CurrentCount)
}
