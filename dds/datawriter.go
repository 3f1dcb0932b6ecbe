// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

import (
	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/history"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
)

// DataWriter publishes serialized samples of one Topic. Write pushes each
// sample through the underlying Stateful Writer's history cache and flushes
// it immediately to every matched, currently-known reader locator;
// subsequent repair/heartbeat traffic for reliable writers is driven by the
// owning DomainParticipant's background tick.
type DataWriter struct {
	dp     *DomainParticipant
	entity *writerEntity
	Guid   guid.Guid
}

// Write publishes data, keyed by the instance key InstanceHandleFromSerializedKey
// derives from it, and returns the sequence number assigned.
func (w *DataWriter) Write(data []byte) rtpstypes.SequenceNumber {
	handle := history.InstanceHandleFromSerializedKey(data)
	sn := w.entity.sw.Write(history.Alive, handle, data, nil, history.StatusInfo{})
	w.flushToMatched()
	return sn
}

// Dispose marks the instance keyed by key as not-alive-disposed.
func (w *DataWriter) Dispose(key []byte) rtpstypes.SequenceNumber {
	handle := history.InstanceHandleFromSerializedKey(key)
	sn := w.entity.sw.Write(history.NotAliveDisposed, handle, key, nil, history.StatusInfo{Disposed: true})
	w.flushToMatched()
	return sn
}

func (w *DataWriter) flushToMatched() {
	w.entity.mu.Lock()
	readerGuids := make([]guid.Guid, 0, len(w.entity.locators))
	for rg := range w.entity.locators {
		readerGuids = append(readerGuids, rg)
	}
	w.entity.mu.Unlock()

	for _, rg := range readerGuids {
		w.dp.flushWriter(w.entity, rg)
	}
}

// PublicationMatchedStatus returns and clears the writer's matched-readers
// delta since the last call.
func (w *DataWriter) PublicationMatchedStatus() qos.PublicationMatchedStatus {
	return w.entity.matched.ReadPublication()
}

// OfferedIncompatibleQosStatus returns and clears the writer's
// incompatible-match delta since the last call.
func (w *DataWriter) OfferedIncompatibleQosStatus() qos.OfferedIncompatibleQosStatus {
	return w.entity.incompat.ReadOffered()
}
