// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package proxy

import (
	"testing"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReaderGuid() guid.Guid {
	return guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserReaderWithKey})
}

func TestReaderProxyPushModeLifecycle(t *testing.T) {
	rp := NewReaderProxy(newReaderGuid(), guid.EntityIdUnknown, nil, nil, false, true)
	rp.AddChange(1)
	rp.AddChange(2)

	assert.ElementsMatch(t, []rtpstypes.SequenceNumber{1, 2}, rp.UnsentChanges())

	sn, ok := rp.NextUnsentChange()
	require.True(t, ok)
	assert.EqualValues(t, 1, sn)
	st, _ := rp.Status(1)
	assert.Equal(t, Unacknowledged, st)

	rp.AckedChangesSet(1)
	st, _ = rp.Status(1)
	assert.Equal(t, Acknowledged, st)
	assert.EqualValues(t, 1, rp.HighestAcknowledged())

	rp.RequestedChangesSet([]rtpstypes.SequenceNumber{2}, 2)
	st, _ = rp.Status(2)
	assert.Equal(t, Requested, st)

	reqSn, ok := rp.NextRequestedChange()
	require.True(t, ok)
	assert.EqualValues(t, 2, reqSn)
	st, _ = rp.Status(2)
	assert.Equal(t, Unacknowledged, st)
}

func TestReaderProxyPullModeEntersUnacknowledged(t *testing.T) {
	rp := NewReaderProxy(newReaderGuid(), guid.EntityIdUnknown, nil, nil, false, false)
	rp.AddChange(5)
	st, ok := rp.Status(5)
	require.True(t, ok)
	assert.Equal(t, Unacknowledged, st)
	assert.Empty(t, rp.UnsentChanges())
}

func TestReaderProxyIsActiveDefaultsTrue(t *testing.T) {
	rp := NewReaderProxy(newReaderGuid(), guid.EntityIdUnknown, nil, nil, false, true)
	assert.True(t, rp.IsActive())
	rp.SetInactive()
	assert.False(t, rp.IsActive())
}

func newWriterProxyGuid() guid.Guid {
	return guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserWriterWithKey})
}

func TestWriterProxyHeartbeatMissingSet(t *testing.T) {
	wp := NewWriterProxy(newWriterProxyGuid(), guid.EntityIdUnknown, nil, nil, 0)
	wp.ReceivedChange(1)
	wp.ReceivedChange(3)

	res := wp.ReceivedHeartbeat(1, 5, 1)
	require.True(t, res.IsNew)
	assert.False(t, res.LivelinessOnly)
	assert.Equal(t, []rtpstypes.SequenceNumber{2, 4, 5}, res.Missing)
}

func TestWriterProxyHeartbeatDuplicateCountDiscarded(t *testing.T) {
	wp := NewWriterProxy(newWriterProxyGuid(), guid.EntityIdUnknown, nil, nil, 0)
	first := wp.ReceivedHeartbeat(1, 5, 2)
	require.True(t, first.IsNew)
	second := wp.ReceivedHeartbeat(1, 5, 2)
	assert.False(t, second.IsNew)
	second = wp.ReceivedHeartbeat(1, 5, 1)
	assert.False(t, second.IsNew, "count <= highest previously observed must be discarded")
}

func TestWriterProxyHeartbeatLivelinessOnly(t *testing.T) {
	wp := NewWriterProxy(newWriterProxyGuid(), guid.EntityIdUnknown, nil, nil, 0)
	res := wp.ReceivedHeartbeat(10, 5, 1) // first_sn > last_sn+1
	require.True(t, res.IsNew)
	assert.True(t, res.LivelinessOnly)
	assert.Empty(t, res.Missing)
}

func TestWriterProxyGapMarksIrrelevant(t *testing.T) {
	wp := NewWriterProxy(newWriterProxyGuid(), guid.EntityIdUnknown, nil, nil, 0)
	set := rtpstypes.NewSequenceNumberSetFromSlice(4, []rtpstypes.SequenceNumber{4, 6})
	wp.ReceivedGap(1, set)

	res := wp.ReceivedHeartbeat(1, 6, 1)
	assert.Equal(t, []rtpstypes.SequenceNumber{5}, res.Missing)
}

func TestWriterProxyIsNewDataDropsOldDuplicates(t *testing.T) {
	wp := NewWriterProxy(newWriterProxyGuid(), guid.EntityIdUnknown, nil, nil, 0)
	wp.ReceivedChange(1)
	wp.ReceivedChange(2)
	assert.False(t, wp.IsNewData(1))
	assert.False(t, wp.IsNewData(2))
	assert.True(t, wp.IsNewData(3))
}
