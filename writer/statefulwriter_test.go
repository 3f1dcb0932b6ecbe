// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package writer

import (
	"testing"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/history"
	"github.com/go-dds/rtps/proxy"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriterGuid() guid.Guid {
	return guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserWriterWithKey})
}

func newTestReaderProxy() *proxy.ReaderProxy {
	readerGuid := guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserReaderWithKey})
	return proxy.NewReaderProxy(readerGuid, guid.EntityIdUnknown, nil, nil, false, true)
}

func TestBestEffortWriterPushesData(t *testing.T) {
	w := NewStatefulWriter(newTestWriterGuid(), qos.BestEffort, 0)
	rp := newTestReaderProxy()
	w.MatchReader(rp)

	w.Write(history.Alive, history.InstanceHandle{}, []byte("hello"), nil, history.StatusInfo{})

	subs := w.PushPending(rp.RemoteReaderGuid)
	require.Len(t, subs, 1)
	data, ok := subs[0].(wire.DataSubmessage)
	require.True(t, ok)
	assert.EqualValues(t, 1, data.WriterSN)
	assert.Equal(t, []byte("hello"), data.SerializedPayload)
}

func TestReliableWriterHeartbeatReflectsCacheRange(t *testing.T) {
	w := NewStatefulWriter(newTestWriterGuid(), qos.Reliable, 0)
	rp := newTestReaderProxy()
	w.MatchReader(rp)

	w.Write(history.Alive, history.InstanceHandle{}, []byte("a"), nil, history.StatusInfo{})
	w.Write(history.Alive, history.InstanceHandle{}, []byte("b"), nil, history.StatusInfo{})

	heartbeats := w.PendingHeartbeats()
	hb, ok := heartbeats[rp.RemoteReaderGuid]
	require.True(t, ok)
	assert.EqualValues(t, 1, hb.FirstSN)
	assert.EqualValues(t, 2, hb.LastSN)
	assert.EqualValues(t, 1, hb.Count)

	heartbeats = w.PendingHeartbeats()
	assert.EqualValues(t, 2, heartbeats[rp.RemoteReaderGuid].Count)
}

func TestBestEffortWriterOmitsHeartbeats(t *testing.T) {
	w := NewStatefulWriter(newTestWriterGuid(), qos.BestEffort, 0)
	rp := newTestReaderProxy()
	w.MatchReader(rp)
	assert.Nil(t, w.PendingHeartbeats())
}

func TestProcessAckNackRequestsMissingAndAcksRest(t *testing.T) {
	w := NewStatefulWriter(newTestWriterGuid(), qos.Reliable, 0)
	rp := newTestReaderProxy()
	w.MatchReader(rp)

	for i := 0; i < 3; i++ {
		w.Write(history.Alive, history.InstanceHandle{}, []byte("x"), nil, history.StatusInfo{})
	}
	w.PushPending(rp.RemoteReaderGuid) // drain to Unacknowledged

	nack := wire.AckNackSubmessage{
		ReaderSNState: rtpstypes.NewSequenceNumberSetFromSlice(2, []rtpstypes.SequenceNumber{2}),
		Count:         1,
	}
	w.ProcessAckNack(rp.RemoteReaderGuid, nack)

	assert.EqualValues(t, 1, rp.HighestAcknowledged())
	st, ok := rp.Status(2)
	require.True(t, ok)
	assert.Equal(t, proxy.Requested, st)

	repair := w.RepairPending(rp.RemoteReaderGuid)
	require.Len(t, repair, 1)
	data := repair[0].(wire.DataSubmessage)
	assert.EqualValues(t, 2, data.WriterSN)
}

func TestProcessAckNackDuplicateCountIgnored(t *testing.T) {
	w := NewStatefulWriter(newTestWriterGuid(), qos.Reliable, 0)
	rp := newTestReaderProxy()
	w.MatchReader(rp)
	w.Write(history.Alive, history.InstanceHandle{}, []byte("x"), nil, history.StatusInfo{})
	w.PushPending(rp.RemoteReaderGuid)

	set := rtpstypes.NewSequenceNumberSetFromSlice(1, nil)
	w.ProcessAckNack(rp.RemoteReaderGuid, wire.AckNackSubmessage{ReaderSNState: set, Count: 5})
	assert.EqualValues(t, 0, rp.HighestAcknowledged(), "base=1 means nothing below 1 is acked yet")

	set2 := rtpstypes.NewSequenceNumberSetFromSlice(2, nil)
	w.ProcessAckNack(rp.RemoteReaderGuid, wire.AckNackSubmessage{ReaderSNState: set2, Count: 5})
	assert.EqualValues(t, 0, rp.HighestAcknowledged(), "count <= highest observed must be discarded")

	w.ProcessAckNack(rp.RemoteReaderGuid, wire.AckNackSubmessage{ReaderSNState: set2, Count: 6})
	assert.EqualValues(t, 1, rp.HighestAcknowledged())
}

func TestPurgedChangeEmitsGap(t *testing.T) {
	w := NewStatefulWriter(newTestWriterGuid(), qos.Reliable, 1)
	rp := newTestReaderProxy()
	w.MatchReader(rp)

	w.Write(history.Alive, history.InstanceHandle{}, []byte("a"), nil, history.StatusInfo{})
	w.Write(history.Alive, history.InstanceHandle{}, []byte("b"), nil, history.StatusInfo{}) // rejected by the cache: MaxSamples=1

	subs := w.PushPending(rp.RemoteReaderGuid)
	require.Len(t, subs, 2)
	data, isData := subs[0].(wire.DataSubmessage)
	require.True(t, isData)
	assert.EqualValues(t, 1, data.WriterSN)
	_, isGap := subs[1].(wire.GapSubmessage)
	assert.True(t, isGap, "sequence number 2 was rejected by AddChange, so it can never be delivered")
}
