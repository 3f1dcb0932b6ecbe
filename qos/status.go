// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package qos

import (
	"sync"
)

// SubscriptionMatchedStatus mirrors DDS SubscriptionMatchedStatus: reported
// to a DataReader's listener whenever a compatible DataWriter newly matches
// or stops matching.
type SubscriptionMatchedStatus struct {
	TotalCount         int32
	TotalCountChange    int32
	LastPublicationHandle [16]byte
	CurrentCount       int32
	CurrentCountChange int32
}

// PublicationMatchedStatus is the DataWriter-side mirror of
// SubscriptionMatchedStatus.
type PublicationMatchedStatus struct {
	TotalCount            int32
	TotalCountChange       int32
	LastSubscriptionHandle [16]byte
	CurrentCount          int32
	CurrentCountChange    int32
}

// RequestedIncompatibleQosStatus is reported to a DataReader's listener when
// a DataWriter offering incompatible QoS is discovered.
type RequestedIncompatibleQosStatus struct {
	TotalCount       int32
	TotalCountChange int32
	LastPolicyId     PolicyId
}

// OfferedIncompatibleQosStatus is the DataWriter-side mirror.
type OfferedIncompatibleQosStatus struct {
	TotalCount       int32
	TotalCountChange int32
	LastPolicyId     PolicyId
}

// MatchedTracker accumulates the total/current counters behind a
// *MatchedStatus pair. Every counter is monotonically increasing except
// CurrentCount, which tracks live matches; the *_change fields are a delta
// since the last Read call and are reset to zero by it -- matching DDS's
// read-and-clear status semantics.
type MatchedTracker struct {
	mu                 sync.Mutex
	totalCount         int32
	totalCountChange   int32
	currentCount       int32
	currentCountChange int32
	lastHandle         [16]byte
}

// Matched records a newly matched peer, identified by handle.
func (t *MatchedTracker) Matched(handle [16]byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalCount++
	t.totalCountChange++
	t.currentCount++
	t.currentCountChange++
	t.lastHandle = handle
}

// Unmatched records a peer dropping out of the match set.
func (t *MatchedTracker) Unmatched(handle [16]byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentCount--
	t.currentCountChange--
	t.lastHandle = handle
}

// ReadSubscription returns the current snapshot as a SubscriptionMatchedStatus
// and resets the *_change deltas.
func (t *MatchedTracker) ReadSubscription() SubscriptionMatchedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := SubscriptionMatchedStatus{
		TotalCount:            t.totalCount,
		TotalCountChange:      t.totalCountChange,
		LastPublicationHandle: t.lastHandle,
		CurrentCount:          t.currentCount,
		CurrentCountChange:    t.currentCountChange,
	}
	t.totalCountChange, t.currentCountChange = 0, 0
	return s
}

// ReadPublication is the DataWriter-side mirror of ReadSubscription.
func (t *MatchedTracker) ReadPublication() PublicationMatchedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := PublicationMatchedStatus{
		TotalCount:             t.totalCount,
		TotalCountChange:       t.totalCountChange,
		LastSubscriptionHandle: t.lastHandle,
		CurrentCount:           t.currentCount,
		CurrentCountChange:     t.currentCountChange,
	}
	t.totalCountChange, t.currentCountChange = 0, 0
	return s
}

// IncompatibleQosTracker accumulates RequestedIncompatibleQos /
// OfferedIncompatibleQosStatus counters with the same read-and-clear delta
// semantics as MatchedTracker.
type IncompatibleQosTracker struct {
	mu               sync.Mutex
	totalCount       int32
	totalCountChange int32
	lastPolicyId     PolicyId
}

// Incompatible records one incompatible-match discovery for policyId.
func (t *IncompatibleQosTracker) Incompatible(policyId PolicyId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalCount++
	t.totalCountChange++
	t.lastPolicyId = policyId
}

func (t *IncompatibleQosTracker) ReadRequested() RequestedIncompatibleQosStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := RequestedIncompatibleQosStatus{
		TotalCount:       t.totalCount,
		TotalCountChange: t.totalCountChange,
		LastPolicyId:     t.lastPolicyId,
	}
	t.totalCountChange = 0
	return s
}

func (t *IncompatibleQosTracker) ReadOffered() OfferedIncompatibleQosStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := OfferedIncompatibleQosStatus{
		TotalCount:       t.totalCount,
		TotalCountChange: t.totalCountChange,
		LastPolicyId:     t.lastPolicyId,
	}
	t.totalCountChange = 0
	return s
}
