// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package reader

import (
	"testing"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/proxy"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReaderGuid() guid.Guid {
	return guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserReaderWithKey})
}

func newTestWriterProxy() *proxy.WriterProxy {
	writerGuid := guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserWriterWithKey})
	return proxy.NewWriterProxy(writerGuid, guid.EntityIdUnknown, nil, nil, 0)
}

func TestBestEffortReaderAddsDataIdempotently(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.BestEffort, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)

	msg := wire.DataSubmessage{WriterSN: 1, DataFlag: true, SerializedPayload: []byte("hello")}
	assert.True(t, r.ReceiveData(wp.RemoteWriterGuid, msg))
	assert.False(t, r.ReceiveData(wp.RemoteWriterGuid, msg), "duplicate sequence number is a no-op")
	assert.Equal(t, 1, r.History().Len())
}

func TestBestEffortReaderIgnoresUnmatchedWriter(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.BestEffort, 0)
	unknown := guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x02, guid.EntityKindUserWriterWithKey})
	msg := wire.DataSubmessage{WriterSN: 1, DataFlag: true, SerializedPayload: []byte("x")}
	assert.False(t, r.ReceiveData(unknown, msg))
}

func TestReliableReaderHeartbeatRequestsMissing(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.Reliable, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)

	r.ReceiveData(wp.RemoteWriterGuid, wire.DataSubmessage{WriterSN: 1, DataFlag: true, SerializedPayload: []byte("a")})

	hb := wire.HeartbeatSubmessage{FirstSN: 1, LastSN: 3, Count: 1}
	nack, ok := r.ReceiveHeartbeat(wp.RemoteWriterGuid, hb)
	require.True(t, ok)
	assert.EqualValues(t, 1, nack.Count)
	assert.Equal(t, []rtpstypes.SequenceNumber{2, 3}, nack.ReaderSNState.Members())
}

func TestReliableReaderHeartbeatFinalWithNothingMissingSkipsAckNack(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.Reliable, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)
	r.ReceiveData(wp.RemoteWriterGuid, wire.DataSubmessage{WriterSN: 1, DataFlag: true, SerializedPayload: []byte("a")})

	hb := wire.HeartbeatSubmessage{FirstSN: 1, LastSN: 1, Count: 1, FinalFlag: true}
	_, ok := r.ReceiveHeartbeat(wp.RemoteWriterGuid, hb)
	assert.False(t, ok)
}

func TestReliableReaderDuplicateHeartbeatCountIgnored(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.Reliable, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)

	hb := wire.HeartbeatSubmessage{FirstSN: 1, LastSN: 2, Count: 5}
	_, ok := r.ReceiveHeartbeat(wp.RemoteWriterGuid, hb)
	assert.True(t, ok)

	_, ok = r.ReceiveHeartbeat(wp.RemoteWriterGuid, hb)
	assert.False(t, ok, "same count must be discarded as a duplicate")
}

func TestBestEffortReaderNeverGeneratesAckNack(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.BestEffort, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)

	hb := wire.HeartbeatSubmessage{FirstSN: 1, LastSN: 3, Count: 1}
	_, ok := r.ReceiveHeartbeat(wp.RemoteWriterGuid, hb)
	assert.False(t, ok)
}

func TestGapMarksSequenceNumberIrrelevantForFutureHeartbeats(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.Reliable, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)

	gap := wire.GapSubmessage{
		GapStart: 2,
		GapList:  rtpstypes.NewSequenceNumberSetFromSlice(3, nil),
	}
	r.ReceiveGap(wp.RemoteWriterGuid, gap)

	hb := wire.HeartbeatSubmessage{FirstSN: 1, LastSN: 3, Count: 1}
	nack, ok := r.ReceiveHeartbeat(wp.RemoteWriterGuid, hb)
	require.True(t, ok)
	assert.Equal(t, []rtpstypes.SequenceNumber{1, 3}, nack.ReaderSNState.Members())
}

func TestUnmatchWriterStopsProcessing(t *testing.T) {
	r := NewStatefulReader(newTestReaderGuid(), qos.Reliable, 0)
	wp := newTestWriterProxy()
	r.MatchWriter(wp)
	r.UnmatchWriter(wp.RemoteWriterGuid)

	msg := wire.DataSubmessage{WriterSN: 1, DataFlag: true, SerializedPayload: []byte("x")}
	assert.False(t, r.ReceiveData(wp.RemoteWriterGuid, msg))
}
