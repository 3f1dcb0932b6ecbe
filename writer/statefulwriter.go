// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package writer implements the Stateful Writer endpoint engine: the
// best-effort and reliable delivery loops that drive every matched Reader
// Proxy from Unsent through Acknowledged.
//
// The Idle/Pushing/Announcing/Repairing/WaitingAcknowledgement states are
// not tracked as an explicit enum per reader proxy; they fall out of the
// ReaderProxy's own per-sequence-number status (Unsent/Requested queues
// empty or not) plus the writer's heartbeat/ack-count bookkeeping below, so
// there is nothing left to desynchronize between a separate state field and
// the underlying queues.
package writer

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

type proxyEntry struct {
	rp                  *proxy.ReaderProxy
	highestAckNackCount int32
}

// StatefulWriter is a single writer endpoint's reliability engine, shared by
// user DataWriters and the SEDP/SPDP built-in writers.
type StatefulWriter struct {
	Guid              guid.Guid
	Reliability       qos.ReliabilityKind
	HeartbeatPeriod   time.Duration
	NackResponseDelay time.Duration

	mu             sync.Mutex
	cache          *history.HistoryCache
	proxies        map[guid.Guid]*proxyEntry
	lastChangeSn   rtpstypes.SequenceNumber
	heartbeatCount int32
}

func NewStatefulWriter(g guid.Guid, reliability qos.ReliabilityKind, maxSamples int) *StatefulWriter {
	return &StatefulWriter{
		Guid:              g,
		Reliability:       reliability,
		HeartbeatPeriod:   time.Second,
		NackResponseDelay: 200 * time.Millisecond,
		cache:             history.NewHistoryCache(maxSamples),
		proxies:           make(map[guid.Guid]*proxyEntry),
	}
}

// MatchReader registers a newly matched Reader Proxy, backfilling it with
// every change currently in the writer's history cache.
func (w *StatefulWriter) MatchReader(rp *proxy.ReaderProxy) {
	w.mu.Lock()
	w.proxies[rp.RemoteReaderGuid] = &proxyEntry{rp: rp}
	changes := w.cache.ChangesForWriter(w.Guid)
	w.mu.Unlock()

	for _, c := range changes {
		rp.AddChange(c.SequenceNumber)
	}
}

// UnmatchReader drops a Reader Proxy, e.g. on SEDP unmatch or lease expiry.
func (w *StatefulWriter) UnmatchReader(readerGuid guid.Guid) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.proxies, readerGuid)
}

// Write appends a new change to the history cache, assigns it the next
// sequence number, and registers it against every matched Reader Proxy.
func (w *StatefulWriter) Write(kind history.ChangeKind, instanceHandle history.InstanceHandle, serializedData []byte, inlineQos []history.InlineQosParam, statusInfo history.StatusInfo) rtpstypes.SequenceNumber {
	w.mu.Lock()
	w.lastChangeSn++
	sn := w.lastChangeSn
	change := &history.CacheChange{
		Kind:           kind,
		WriterGuid:     w.Guid,
		InstanceHandle: instanceHandle,
		SequenceNumber: sn,
		SerializedData: serializedData,
		InlineQos:      inlineQos,
		StatusInfo:     statusInfo,
	}
	w.cache.AddChange(change)

	proxies := make([]*proxy.ReaderProxy, 0, len(w.proxies))
	for _, e := range w.proxies {
		proxies = append(proxies, e.rp)
	}
	w.mu.Unlock()

	for _, rp := range proxies {
		rp.AddChange(sn)
	}
	return sn
}

func (w *StatefulWriter) changeSubmessages(rp *proxy.ReaderProxy, sn rtpstypes.SequenceNumber) []wire.Submessage {
	for _, c := range w.cache.ChangesForWriter(w.Guid) {
		if c.SequenceNumber == sn {
			return []wire.Submessage{wire.DataSubmessage{
				ReaderId:          rp.RemoteReaderGuid.Entity,
				WriterId:          w.Guid.Entity,
				WriterSN:          sn,
				DataFlag:          c.Kind == history.Alive,
				KeyFlag:           c.Kind != history.Alive,
				SerializedPayload: c.SerializedData,
			}}
		}
	}
	// The change is not in the cache (AddChange rejected it at MaxSamples, or
	// it was removed through History()); the reader must be told it will never
	// arrive. GapStart=sn
	// with an empty set based at sn+1 covers exactly the range [sn, sn].
	set := rtpstypes.NewSequenceNumberSetFromSlice(sn+1, nil)
	return []wire.Submessage{wire.GapSubmessage{
		ReaderId: rp.RemoteReaderGuid.Entity,
		WriterId: w.Guid.Entity,
		GapStart: sn,
		GapList:  set,
	}}
}

// PushPending drains every Unsent sequence number for readerGuid and returns
// the DATA/GAP submessages to send, in ascending sequence-number order.
// Called for both best-effort and reliable writers; only push-mode proxies
// carry Unsent entries in the first place.
func (w *StatefulWriter) PushPending(readerGuid guid.Guid) []wire.Submessage {
	w.mu.Lock()
	e, ok := w.proxies[readerGuid]
	w.mu.Unlock()
	if !ok {
		return nil
	}

	var subs []wire.Submessage
	for {
		sn, ok := e.rp.NextUnsentChange()
		if !ok {
			break
		}
		subs = append(subs, w.changeSubmessages(e.rp, sn)...)
	}
	return subs
}

// RepairPending drains every Requested sequence number for readerGuid --
// populated by ProcessAckNack -- and returns the retransmission
// submessages. Reliable writers only.
func (w *StatefulWriter) RepairPending(readerGuid guid.Guid) []wire.Submessage {
	w.mu.Lock()
	e, ok := w.proxies[readerGuid]
	w.mu.Unlock()
	if !ok {
		return nil
	}

	var subs []wire.Submessage
	for {
		sn, ok := e.rp.NextRequestedChange()
		if !ok {
			break
		}
		subs = append(subs, w.changeSubmessages(e.rp, sn)...)
	}
	return subs
}

// PendingHeartbeats builds one HEARTBEAT submessage per matched reliable
// Reader Proxy, bumping the writer's shared heartbeat count. Called on
// HeartbeatPeriod tick by the scheduler.
func (w *StatefulWriter) PendingHeartbeats() map[guid.Guid]wire.HeartbeatSubmessage {
	if w.Reliability == qos.BestEffort {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.heartbeatCount++

	firstSN, ok := w.cache.GetSeqNumMin(w.Guid)
	if !ok {
		firstSN = w.lastChangeSn + 1
	}

	out := make(map[guid.Guid]wire.HeartbeatSubmessage, len(w.proxies))
	for readerGuid, e := range w.proxies {
		out[readerGuid] = wire.HeartbeatSubmessage{
			ReaderId: e.rp.RemoteReaderGuid.Entity,
			WriterId: w.Guid.Entity,
			FirstSN:  firstSN,
			LastSN:   w.lastChangeSn,
			Count:    w.heartbeatCount,
		}
	}
	return out
}

// ProcessAckNack applies a received ACKNACK: duplicate counts (<= the
// highest previously observed from this reader) are discarded; a non-empty
// bitmap marks its members Requested for the next RepairPending drain, and
// everything strictly below the set's base is marked Acknowledged.
func (w *StatefulWriter) ProcessAckNack(readerGuid guid.Guid, msg wire.AckNackSubmessage) {
	w.mu.Lock()
	e, ok := w.proxies[readerGuid]
	if !ok {
		w.mu.Unlock()
		return
	}
	if msg.Count <= e.highestAckNackCount {
		w.mu.Unlock()
		return
	}
	e.highestAckNackCount = msg.Count
	lastSn := w.lastChangeSn
	w.mu.Unlock()

	if msg.ReaderSNState.Base > 1 {
		e.rp.AckedChangesSet(msg.ReaderSNState.Base - 1)
	}
	if !msg.ReaderSNState.Empty() {
		e.rp.RequestedChangesSet(msg.ReaderSNState.Members(), lastSn)
	}
}

// ReaderProxy returns the matched proxy for readerGuid, if any, so callers
// can inspect its per-change status.
func (w *StatefulWriter) ReaderProxy(readerGuid guid.Guid) (*proxy.ReaderProxy, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.proxies[readerGuid]
	if !ok {
		return nil, false
	}
	return e.rp, true
}

// History exposes the writer's backing HistoryCache. Nothing in this package
// removes changes from it, on acknowledgment or by History depth.
func (w *StatefulWriter) History() *history.HistoryCache {
	return w.cache
}
