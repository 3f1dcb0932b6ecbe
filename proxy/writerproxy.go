// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package proxy

import (
	"sort"
	"sync"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// WriterProxy is the reader's view of a matched remote writer.
type WriterProxy struct {
	RemoteWriterGuid    guid.Guid
	RemoteGroupEntityId guid.EntityId

	UnicastLocatorList   []rtpstypes.Locator
	MulticastLocatorList []rtpstypes.Locator

	// DataMaxSizeSerialized is a hint from SEDP discovery about the largest
	// serialized payload this writer will ever send.
	DataMaxSizeSerialized int

	mu sync.Mutex

	isActive bool

	received    map[rtpstypes.SequenceNumber]bool
	irrelevant  map[rtpstypes.SequenceNumber]bool
	highestSeen rtpstypes.SequenceNumber

	firstSN, lastSN        rtpstypes.SequenceNumber
	lastHeartbeatCount     int32
	haveHeartbeat          bool
	lastAckNackCountSent   int32
}

func NewWriterProxy(remoteWriterGuid guid.Guid, remoteGroupEntityId guid.EntityId, unicast, multicast []rtpstypes.Locator, dataMaxSize int) *WriterProxy {
	return &WriterProxy{
		RemoteWriterGuid:      remoteWriterGuid,
		RemoteGroupEntityId:   remoteGroupEntityId,
		UnicastLocatorList:    unicast,
		MulticastLocatorList:  multicast,
		DataMaxSizeSerialized: dataMaxSize,
		isActive:              true,
		received:              make(map[rtpstypes.SequenceNumber]bool),
		irrelevant:            make(map[rtpstypes.SequenceNumber]bool),
	}
}

func (wp *WriterProxy) IsActive() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.isActive
}

func (wp *WriterProxy) SetInactive() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.isActive = false
}

// ReceivedChange records a DATA submessage's sequence number as received.
func (wp *WriterProxy) ReceivedChange(sn rtpstypes.SequenceNumber) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.received[sn] = true
	if sn > wp.highestSeen {
		wp.highestSeen = sn
	}
}

// IsNewData reports whether sn is above the highest sequence number already
// acknowledged; callers should drop the DATA submessage without adding it to
// the reader cache if this returns false.
func (wp *WriterProxy) IsNewData(sn rtpstypes.SequenceNumber) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return sn > wp.lastAcknowledgedLocked()
}

func (wp *WriterProxy) lastAcknowledgedLocked() rtpstypes.SequenceNumber {
	// The highest contiguous sequence number already received or marked
	// irrelevant from 1 upward; used as the "highest already-acknowledged"
	// reference point for the best-effort/reliable dedup rule.
	sn := rtpstypes.SequenceNumber(0)
	for {
		next := sn + 1
		if wp.received[next] || wp.irrelevant[next] {
			sn = next
			continue
		}
		break
	}
	return sn
}

// HeartbeatResult is returned by ReceivedHeartbeat.
type HeartbeatResult struct {
	// IsNew is false if this heartbeat's count was <= the last seen count
	// (discard as a duplicate).
	IsNew bool
	// LivelinessOnly is true when first_sn > last_sn + 1, meaning the
	// heartbeat asserts liveliness only and no ACKNACK should be generated
	// for it.
	LivelinessOnly bool
	// Missing is the recomputed set of missing sequence numbers in
	// [first_sn, last_sn], excluding anything already received or marked
	// irrelevant.
	Missing []rtpstypes.SequenceNumber
	FirstSN rtpstypes.SequenceNumber
	LastSN  rtpstypes.SequenceNumber
}

// ReceivedHeartbeat updates the proxy's known (first_sn, last_sn) and
// recomputes the missing set, applying the duplicate-count and
// liveliness-only tie-break rules.
func (wp *WriterProxy) ReceivedHeartbeat(firstSN, lastSN rtpstypes.SequenceNumber, count int32) HeartbeatResult {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.haveHeartbeat && count <= wp.lastHeartbeatCount {
		return HeartbeatResult{IsNew: false}
	}
	wp.lastHeartbeatCount = count
	wp.haveHeartbeat = true
	wp.firstSN, wp.lastSN = firstSN, lastSN

	if firstSN > lastSN+1 {
		return HeartbeatResult{IsNew: true, LivelinessOnly: true, FirstSN: firstSN, LastSN: lastSN}
	}

	var missing []rtpstypes.SequenceNumber
	for sn := firstSN; sn <= lastSN; sn++ {
		if !wp.received[sn] && !wp.irrelevant[sn] {
			missing = append(missing, sn)
		}
	}
	return HeartbeatResult{IsNew: true, Missing: missing, FirstSN: firstSN, LastSN: lastSN}
}

// ReceivedGap marks [start, setBase-1] union the set's members as irrelevant
// -- equivalent to received for ACKNACK purposes.
func (wp *WriterProxy) ReceivedGap(start rtpstypes.SequenceNumber, set rtpstypes.SequenceNumberSet) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	for sn := start; sn < set.Base; sn++ {
		wp.irrelevant[sn] = true
	}
	for _, sn := range set.Members() {
		wp.irrelevant[sn] = true
	}
}

// MissingSequenceNumbers returns, in ascending order, the sequence numbers in
// [firstSN, lastSN] from the last heartbeat that are neither received nor
// marked irrelevant.
func (wp *WriterProxy) MissingSequenceNumbers() []rtpstypes.SequenceNumber {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	var missing []rtpstypes.SequenceNumber
	for sn := wp.firstSN; sn <= wp.lastSN; sn++ {
		if !wp.received[sn] && !wp.irrelevant[sn] {
			missing = append(missing, sn)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// NextAckNackCount returns the next ACKNACK count to emit and records it.
func (wp *WriterProxy) NextAckNackCount() int32 {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.lastAckNackCountSent++
	return wp.lastAckNackCountSent
}

// HighestSeen returns the highest sequence number received so far.
func (wp *WriterProxy) HighestSeen() rtpstypes.SequenceNumber {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.highestSeen
}
