// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package history

import (
	"testing"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWriterGuid() guid.Guid {
	return guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserWriterWithKey})
}

func TestAddChangeIdempotent(t *testing.T) {
	cache := NewHistoryCache(0)
	w := newWriterGuid()
	c1 := &CacheChange{WriterGuid: w, SequenceNumber: 1, SerializedData: []byte("a")}
	c1dup := &CacheChange{WriterGuid: w, SequenceNumber: 1, SerializedData: []byte("duplicate")}

	assert.True(t, cache.AddChange(c1))
	assert.False(t, cache.AddChange(c1dup), "duplicate (writer,sn) must be a no-op")
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, []byte("a"), cache.ChangesForWriter(w)[0].SerializedData)
}

func TestAddChangeRespectsMaxSamples(t *testing.T) {
	cache := NewHistoryCache(2)
	w := newWriterGuid()
	assert.True(t, cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: 1}))
	assert.True(t, cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: 2}))
	assert.False(t, cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: 3}))
	assert.Equal(t, 2, cache.Len())
}

func TestSeqNumMinMax(t *testing.T) {
	cache := NewHistoryCache(0)
	w := newWriterGuid()
	cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: 5})
	cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: 1})
	cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: 3})

	min, ok := cache.GetSeqNumMin(w)
	require.True(t, ok)
	assert.EqualValues(t, 1, min)

	max, ok := cache.GetSeqNumMax(w)
	require.True(t, ok)
	assert.EqualValues(t, 5, max)

	changes := cache.ChangesForWriter(w)
	require.Len(t, changes, 3)
	assert.EqualValues(t, 1, changes[0].SequenceNumber)
	assert.EqualValues(t, 3, changes[1].SequenceNumber)
	assert.EqualValues(t, 5, changes[2].SequenceNumber)
}

func TestRemoveChangeByPredicate(t *testing.T) {
	cache := NewHistoryCache(0)
	w := newWriterGuid()
	for sn := 1; sn <= 5; sn++ {
		cache.AddChange(&CacheChange{WriterGuid: w, SequenceNumber: rtpstypes.SequenceNumber(sn)})
	}
	removed := cache.RemoveChange(func(c *CacheChange) bool { return c.SequenceNumber <= 3 })
	assert.Equal(t, 3, removed)
	assert.Equal(t, 2, cache.Len())
}

func TestMultiWriterIsolation(t *testing.T) {
	cache := NewHistoryCache(0)
	w1 := newWriterGuid()
	w2 := newWriterGuid()
	cache.AddChange(&CacheChange{WriterGuid: w1, SequenceNumber: 1})
	cache.AddChange(&CacheChange{WriterGuid: w2, SequenceNumber: 1})
	assert.Equal(t, 2, cache.Len(), "two different writers may share sequence number 1")
	assert.True(t, cache.HasChange(w1, 1))
	assert.True(t, cache.HasChange(w2, 1))
}

func TestInstanceHandleFromSerializedKey(t *testing.T) {
	short := []byte{0x01, 0x02, 0x03}
	h := InstanceHandleFromSerializedKey(short)
	var want InstanceHandle
	copy(want[:], short)
	assert.Equal(t, want, h)

	long := make([]byte, 32)
	for i := range long {
		long[i] = byte(i)
	}
	h1 := InstanceHandleFromSerializedKey(long)
	h2 := InstanceHandleFromSerializedKey(long)
	assert.Equal(t, h1, h2, "equal-keyed samples must yield an identical handle")
	assert.NotEqual(t, want, h1)
}
