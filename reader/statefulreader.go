// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package reader implements the Stateful Reader endpoint engine: DATA/GAP
// application against a matched Writer Proxy, and -- for reliable readers --
// HEARTBEAT-driven ACKNACK scheduling.
package reader

import (
	"sync"
	"time"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/history"
	"github.com/go-dds/rtps/proxy"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/wire"
)

// StatefulReader is a single reader endpoint's reliability engine, shared by
// user DataReaders and the SEDP/SPDP built-in readers.
type StatefulReader struct {
	Guid                   guid.Guid
	Reliability            qos.ReliabilityKind
	HeartbeatResponseDelay time.Duration

	mu      sync.Mutex
	cache   *history.HistoryCache
	proxies map[guid.Guid]*proxy.WriterProxy
}

func NewStatefulReader(g guid.Guid, reliability qos.ReliabilityKind, maxSamples int) *StatefulReader {
	return &StatefulReader{
		Guid:                   g,
		Reliability:            reliability,
		HeartbeatResponseDelay: 200 * time.Millisecond,
		cache:                  history.NewHistoryCache(maxSamples),
		proxies:                make(map[guid.Guid]*proxy.WriterProxy),
	}
}

func (r *StatefulReader) MatchWriter(wp *proxy.WriterProxy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proxies[wp.RemoteWriterGuid] = wp
}

func (r *StatefulReader) UnmatchWriter(writerGuid guid.Guid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.proxies, writerGuid)
}

func (r *StatefulReader) writerProxy(writerGuid guid.Guid) (*proxy.WriterProxy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wp, ok := r.proxies[writerGuid]
	return wp, ok
}

// ReceiveData applies a DATA submessage from writerGuid: best-effort readers
// add every change idempotently; reliable readers additionally drop
// anything at or below the highest already-acknowledged sequence number.
// Reports whether the change was added to the cache.
func (r *StatefulReader) ReceiveData(writerGuid guid.Guid, msg wire.DataSubmessage) bool {
	wp, ok := r.writerProxy(writerGuid)
	if !ok {
		return false
	}

	if r.Reliability == qos.Reliable && !wp.IsNewData(msg.WriterSN) {
		return false
	}

	var instanceHandle history.InstanceHandle
	if msg.KeyFlag {
		instanceHandle = history.InstanceHandleFromSerializedKey(msg.SerializedPayload)
	}
	kind := history.Alive
	if !msg.DataFlag {
		kind = history.NotAliveDisposed
	}

	added := r.cache.AddChange(&history.CacheChange{
		Kind:           kind,
		WriterGuid:     writerGuid,
		InstanceHandle: instanceHandle,
		SequenceNumber: msg.WriterSN,
		SerializedData: msg.SerializedPayload,
	})
	wp.ReceivedChange(msg.WriterSN)
	return added
}

// ReceiveHeartbeat applies a HEARTBEAT from writerGuid and, for reliable
// readers, returns an ACKNACK to send; HeartbeatResponseDelay is not applied
// here, and DomainParticipant sends the ACKNACK at once. ok is
// false when no ACKNACK is warranted: a duplicate/stale count, a
// liveliness-only heartbeat, or (final-flag set with nothing missing).
func (r *StatefulReader) ReceiveHeartbeat(writerGuid guid.Guid, msg wire.HeartbeatSubmessage) (wire.AckNackSubmessage, bool) {
	wp, found := r.writerProxy(writerGuid)
	if !found || r.Reliability == qos.BestEffort {
		return wire.AckNackSubmessage{}, false
	}

	res := wp.ReceivedHeartbeat(msg.FirstSN, msg.LastSN, msg.Count)
	if !res.IsNew || res.LivelinessOnly {
		return wire.AckNackSubmessage{}, false
	}
	if msg.FinalFlag && len(res.Missing) == 0 {
		return wire.AckNackSubmessage{}, false
	}

	base := msg.LastSN + 1
	if len(res.Missing) > 0 {
		base = res.Missing[0]
	}
	set := rtpstypes.NewSequenceNumberSetFromSlice(base, res.Missing)

	return wire.AckNackSubmessage{
		ReaderId:      r.Guid.Entity,
		WriterId:      writerGuid.Entity,
		ReaderSNState: set,
		Count:         wp.NextAckNackCount(),
	}, true
}

// ReceiveGap applies a GAP from writerGuid, marking the range irrelevant for
// ACKNACK purposes.
func (r *StatefulReader) ReceiveGap(writerGuid guid.Guid, msg wire.GapSubmessage) {
	wp, ok := r.writerProxy(writerGuid)
	if !ok {
		return
	}
	wp.ReceivedGap(msg.GapStart, msg.GapList)
}

// History exposes the reader's backing HistoryCache.
func (r *StatefulReader) History() *history.HistoryCache {
	return r.cache
}
