// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package qos

// PolicyId identifies a single QoS policy for incompatibility reporting,
// matching the DDS QosPolicyId_t numbering.
type PolicyId int32

const (
	PolicyIdInvalid           PolicyId = 0
	PolicyIdUserData          PolicyId = 1
	PolicyIdDurability        PolicyId = 2
	PolicyIdPresentation      PolicyId = 3
	PolicyIdDeadline          PolicyId = 4
	PolicyIdLatencyBudget     PolicyId = 5
	PolicyIdOwnership         PolicyId = 6
	PolicyIdOwnershipStrength PolicyId = 7
	PolicyIdLiveliness        PolicyId = 8
	PolicyIdTimeBasedFilter   PolicyId = 9
	PolicyIdPartition         PolicyId = 10
	PolicyIdReliability       PolicyId = 11
	PolicyIdDestinationOrder  PolicyId = 12
	PolicyIdHistory           PolicyId = 13
	PolicyIdResourceLimits    PolicyId = 14
)

// Compatible checks a WriterQos offer against a ReaderQos request and
// reports whether they are compatible. When they are not, firstFailing names
// the first policy (scanned in ascending PolicyId order) that failed --
// matching intercompatibility rules are never symmetric, so this always
// scans writer-offered-vs-reader-requested.
func Compatible(w WriterQos, r ReaderQos) (ok bool, firstFailing PolicyId) {
	if r.Durability.Kind > w.Durability.Kind {
		return false, PolicyIdDurability
	}
	if r.Presentation.AccessScope > w.Presentation.AccessScope {
		return false, PolicyIdPresentation
	}
	if r.Presentation.CoherentAccess != w.Presentation.CoherentAccess {
		return false, PolicyIdPresentation
	}
	if r.Presentation.OrderedAccess != w.Presentation.OrderedAccess {
		return false, PolicyIdPresentation
	}
	if !w.Deadline.Period.LessEqual(r.Deadline.Period) {
		return false, PolicyIdDeadline
	}
	if r.Ownership.Kind != w.Ownership.Kind {
		return false, PolicyIdOwnership
	}
	if r.Liveliness.Kind > w.Liveliness.Kind {
		return false, PolicyIdLiveliness
	}
	if !w.Liveliness.LeaseDuration.LessEqual(r.Liveliness.LeaseDuration) {
		return false, PolicyIdLiveliness
	}
	if r.Reliability.Kind > w.Reliability.Kind {
		return false, PolicyIdReliability
	}
	if r.DestinationOrder.Kind > w.DestinationOrder.Kind {
		return false, PolicyIdDestinationOrder
	}
	return true, PolicyIdInvalid
}
