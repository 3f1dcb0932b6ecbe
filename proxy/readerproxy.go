// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package proxy implements the Reader Proxy and Writer Proxy: the per-peer
// reliable-delivery state a Stateful Writer keeps for each matched remote
// reader, and a Stateful Reader keeps for each matched remote writer.
package proxy

import (
	"sort"
	"sync"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// ChangeForReaderStatus is the per-(reader-proxy, sequence-number) delivery
// state.
type ChangeForReaderStatus int

const (
	Unsent ChangeForReaderStatus = iota
	Unacknowledged
	Requested
	Acknowledged
	Underway
)

func (s ChangeForReaderStatus) String() string {
	switch s {
	case Unsent:
		return "Unsent"
	case Unacknowledged:
		return "Unacknowledged"
	case Requested:
		return "Requested"
	case Acknowledged:
		return "Acknowledged"
	case Underway:
		return "Underway"
	default:
		return "Unknown"
	}
}

// ReaderProxy is the writer's view of a matched remote reader.
type ReaderProxy struct {
	RemoteReaderGuid    guid.Guid
	RemoteGroupEntityId guid.EntityId

	UnicastLocatorList   []rtpstypes.Locator
	MulticastLocatorList []rtpstypes.Locator

	ExpectsInlineQos bool

	// PushMode mirrors the matched writer's push-mode: true pushes new
	// changes straight to Unsent; false announces them via HEARTBEAT only,
	// entering directly as Unacknowledged.
	PushMode bool

	mu sync.Mutex
	// isActive tracks liveliness; it is true on construction and only
	// SetInactive clears it. No code in this module calls SetInactive, so
	// lease expiry leaves it true.
	isActive bool

	statuses   map[rtpstypes.SequenceNumber]ChangeForReaderStatus
	highestAcked rtpstypes.SequenceNumber // 0 if nothing acked yet
}

func NewReaderProxy(remoteReaderGuid guid.Guid, remoteGroupEntityId guid.EntityId, unicast, multicast []rtpstypes.Locator, expectsInlineQos, pushMode bool) *ReaderProxy {
	return &ReaderProxy{
		RemoteReaderGuid:     remoteReaderGuid,
		RemoteGroupEntityId:  remoteGroupEntityId,
		UnicastLocatorList:   unicast,
		MulticastLocatorList: multicast,
		ExpectsInlineQos:     expectsInlineQos,
		PushMode:             pushMode,
		isActive:             true,
		statuses:             make(map[rtpstypes.SequenceNumber]ChangeForReaderStatus),
	}
}

// IsActive reports the proxy's liveliness flag.
func (rp *ReaderProxy) IsActive() bool {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.isActive
}

// SetInactive transitions the proxy to not-active; only the discovery/lease
// layer should call this.
func (rp *ReaderProxy) SetInactive() {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.isActive = false
}

// AddChange registers a newly added writer-side CacheChange against this
// proxy, entering it Unsent (push mode) or directly Unacknowledged (pull
// mode).
func (rp *ReaderProxy) AddChange(sn rtpstypes.SequenceNumber) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if sn <= rp.highestAcked {
		return
	}
	if rp.PushMode {
		rp.statuses[sn] = Unsent
	} else {
		rp.statuses[sn] = Unacknowledged
	}
}

// AckedChangesSet marks every sequence number <= committedSeqNum as
// Acknowledged. Acknowledged(n) implies acknowledged(k) for all k < n, so
// anything below committedSeqNum not individually tracked is treated as
// implicitly acknowledged via highestAcked.
func (rp *ReaderProxy) AckedChangesSet(committedSeqNum rtpstypes.SequenceNumber) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if committedSeqNum > rp.highestAcked {
		rp.highestAcked = committedSeqNum
	}
	for sn := range rp.statuses {
		if sn <= committedSeqNum {
			rp.statuses[sn] = Acknowledged
		}
	}
}

// NextRequestedChange yields and consumes the smallest pending Requested
// sequence number, transitioning it to Unacknowledged (the resend path).
// Returns ok=false if nothing is Requested.
func (rp *ReaderProxy) NextRequestedChange() (rtpstypes.SequenceNumber, bool) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	sn, ok := rp.smallestWithStatusLocked(Requested)
	if !ok {
		return 0, false
	}
	rp.statuses[sn] = Unacknowledged
	return sn, true
}

// NextUnsentChange yields and consumes the smallest pending Unsent sequence
// number (push-mode only), transitioning it to Unacknowledged.
func (rp *ReaderProxy) NextUnsentChange() (rtpstypes.SequenceNumber, bool) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	sn, ok := rp.smallestWithStatusLocked(Unsent)
	if !ok {
		return 0, false
	}
	rp.statuses[sn] = Unacknowledged
	return sn, true
}

// RequestedChangesSet marks each given sequence number as Requested, provided
// it is <= lastChangeSn.
func (rp *ReaderProxy) RequestedChangesSet(seqNums []rtpstypes.SequenceNumber, lastChangeSn rtpstypes.SequenceNumber) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	for _, sn := range seqNums {
		if sn > lastChangeSn || sn <= rp.highestAcked {
			continue
		}
		rp.statuses[sn] = Requested
	}
}

func (rp *ReaderProxy) smallestWithStatusLocked(status ChangeForReaderStatus) (rtpstypes.SequenceNumber, bool) {
	var candidates []rtpstypes.SequenceNumber
	for sn, st := range rp.statuses {
		if st == status {
			candidates = append(candidates, sn)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates[0], true
}

func (rp *ReaderProxy) sequenceNumbersWithStatus(status ChangeForReaderStatus) []rtpstypes.SequenceNumber {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	var out []rtpstypes.SequenceNumber
	for sn, st := range rp.statuses {
		if st == status {
			out = append(out, sn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UnsentChanges returns every sequence number currently Unsent.
func (rp *ReaderProxy) UnsentChanges() []rtpstypes.SequenceNumber {
	return rp.sequenceNumbersWithStatus(Unsent)
}

// UnackedChanges returns every sequence number currently Unacknowledged.
func (rp *ReaderProxy) UnackedChanges() []rtpstypes.SequenceNumber {
	return rp.sequenceNumbersWithStatus(Unacknowledged)
}

// RequestedChanges returns every sequence number currently Requested.
func (rp *ReaderProxy) RequestedChanges() []rtpstypes.SequenceNumber {
	return rp.sequenceNumbersWithStatus(Requested)
}

// HighestAcknowledged returns the highest sequence number known acknowledged.
func (rp *ReaderProxy) HighestAcknowledged() rtpstypes.SequenceNumber {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.highestAcked
}

// Status returns the tracked status for sn, and whether it is tracked at all.
func (rp *ReaderProxy) Status(sn rtpstypes.SequenceNumber) (ChangeForReaderStatus, bool) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	st, ok := rp.statuses[sn]
	return st, ok
}

// AllAcknowledged reports whether every change up to and including upTo is
// Acknowledged, that is whether the highest acknowledged sequence number has
// reached upTo. No code in this module calls it.
func (rp *ReaderProxy) AllAcknowledged(upTo rtpstypes.SequenceNumber) bool {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if rp.highestAcked >= upTo {
		return true
	}
	for sn, st := range rp.statuses {
		if sn <= upTo && st != Acknowledged {
			return false
		}
	}
	return rp.highestAcked >= upTo
}

// Forget drops the tracked status of sn alone, once that change has been
// purged from the writer's History Cache; entries below sn are kept.
func (rp *ReaderProxy) Forget(sn rtpstypes.SequenceNumber) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	delete(rp.statuses, sn)
}
