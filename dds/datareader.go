// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

import (
	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/history"
	"github.com/go-dds/rtps/qos"
)

// DataReader subscribes to samples of one Topic. Read/Take expose the
// underlying Stateful Reader's history cache; SetListener registers a
// callback invoked as each new sample is applied, outside the reader's
// internal lock.
type DataReader struct {
	dp     *DomainParticipant
	entity *readerEntity
	Guid   guid.Guid
}

// Read returns every sample currently held, without removing them.
func (r *DataReader) Read() []ReaderSample {
	return r.snapshot(false)
}

// Take returns every sample currently held and removes them from the cache.
func (r *DataReader) Take() []ReaderSample {
	return r.snapshot(true)
}

func (r *DataReader) snapshot(remove bool) []ReaderSample {
	changes := r.entity.sr.History().Changes()
	out := make([]ReaderSample, len(changes))
	for i, c := range changes {
		out[i] = ReaderSample{WriterGuid: c.WriterGuid, Data: c.SerializedData, Disposed: c.Kind != history.Alive}
	}
	if remove {
		r.entity.sr.History().RemoveChange(func(*history.CacheChange) bool { return true })
	}
	return out
}

// SetListener registers fn to be called with each newly applied sample.
// Passing nil clears it.
func (r *DataReader) SetListener(fn func(ReaderSample)) {
	r.entity.mu.Lock()
	r.entity.listener = fn
	r.entity.mu.Unlock()
}

// SubscriptionMatchedStatus returns and clears the reader's matched-writers
// delta since the last call.
func (r *DataReader) SubscriptionMatchedStatus() qos.SubscriptionMatchedStatus {
	return r.entity.matched.ReadSubscription()
}

// RequestedIncompatibleQosStatus returns and clears the reader's
// incompatible-match delta since the last call.
func (r *DataReader) RequestedIncompatibleQosStatus() qos.RequestedIncompatibleQosStatus {
	return r.entity.incompat.ReadRequested()
}
