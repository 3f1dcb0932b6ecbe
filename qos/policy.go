// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package qos implements the DDS QoS policy vectors, the writer-vs-reader
// compatibility engine, and the status types whose counters the matching
// engine drives.
package qos

import "time"

// Duration mirrors DDS Duration_t: whole seconds plus nanoseconds. Comparison
// is done via the Less/LessEqual helpers rather than a raw struct compare so
// that DurationInfinite sorts correctly.
type Duration struct {
	Sec     int32
	Nanosec uint32
}

// DurationInfinite represents DURATION_INFINITE.
var DurationInfinite = Duration{Sec: 0x7FFFFFFF, Nanosec: 0xFFFFFFFF}

// DurationZero is the zero duration.
var DurationZero = Duration{}

func DurationFromGo(d time.Duration) Duration {
	return Duration{Sec: int32(d / time.Second), Nanosec: uint32(d % time.Second)}
}

func (d Duration) nanos() int64 {
	if d == DurationInfinite {
		return int64(1)<<63 - 1
	}
	return int64(d.Sec)*int64(time.Second) + int64(d.Nanosec)
}

// LessEqual reports d <= other.
func (d Duration) LessEqual(other Duration) bool {
	return d.nanos() <= other.nanos()
}

// Less reports d < other.
func (d Duration) Less(other Duration) bool {
	return d.nanos() < other.nanos()
}

// DurabilityKind, ordered Volatile < TransientLocal < Transient < Persistent.
type DurabilityKind int

const (
	Volatile DurabilityKind = iota
	TransientLocal
	Transient
	Persistent
)

type Durability struct {
	Kind DurabilityKind
}

// PresentationAccessScope, ordered Instance < Topic < Group.
type PresentationAccessScope int

const (
	InstancePresentation PresentationAccessScope = iota
	TopicPresentation
	GroupPresentation
)

type Presentation struct {
	AccessScope    PresentationAccessScope
	CoherentAccess bool
	OrderedAccess  bool
}

type Deadline struct {
	Period Duration
}

type LatencyBudget struct {
	Duration Duration
}

type OwnershipKind int

const (
	Shared OwnershipKind = iota
	Exclusive
)

type Ownership struct {
	Kind OwnershipKind
}

// LivelinessKind, ordered Automatic < ManualByParticipant < ManualByTopic.
type LivelinessKind int

const (
	Automatic LivelinessKind = iota
	ManualByParticipant
	ManualByTopic
)

type Liveliness struct {
	Kind          LivelinessKind
	LeaseDuration Duration
}

// ReliabilityKind, ordered BestEffort < Reliable
type ReliabilityKind int

const (
	BestEffort ReliabilityKind = iota
	Reliable
)

type Reliability struct {
	Kind            ReliabilityKind
	MaxBlockingTime Duration
}

// DestinationOrderKind, ordered ByReception < BySource
type DestinationOrderKind int

const (
	ByReception DestinationOrderKind = iota
	BySource
)

type DestinationOrder struct {
	Kind DestinationOrderKind
}

// HistoryKind names the History QoS kind, carried with Depth in SEDP
// announcements. No History Cache in this module applies it: KeepLast does
// not remove changes beyond Depth; only MaxSamples bounds a cache.
type HistoryKind int

const (
	KeepLast HistoryKind = iota
	KeepAll
)

type History struct {
	Kind  HistoryKind
	Depth int
}

// ResourceLimits bounds writer-side resource accounting.
type ResourceLimits struct {
	MaxSamples          int
	MaxInstances        int
	MaxSamplesPerInstance int
}

// WriterQos is the full set of QoS policies offered by a DataWriter.
type WriterQos struct {
	Durability       Durability
	Presentation     Presentation
	Deadline         Deadline
	LatencyBudget    LatencyBudget
	Ownership        Ownership
	Liveliness       Liveliness
	Reliability      Reliability
	DestinationOrder DestinationOrder
	History          History
	ResourceLimits   ResourceLimits
}

// DefaultWriterQos mirrors the DDS-specified defaults: best-effort, volatile,
// shared ownership, keep-last(1).
func DefaultWriterQos() WriterQos {
	return WriterQos{
		Liveliness:  Liveliness{Kind: Automatic, LeaseDuration: DurationInfinite},
		Reliability: Reliability{Kind: BestEffort},
		History:     History{Kind: KeepLast, Depth: 1},
	}
}

// ReaderQos is the full set of QoS policies requested by a DataReader.
type ReaderQos struct {
	Durability       Durability
	Presentation     Presentation
	Deadline         Deadline
	LatencyBudget    LatencyBudget
	Ownership        Ownership
	Liveliness       Liveliness
	Reliability      Reliability
	DestinationOrder DestinationOrder
	History          History
	ResourceLimits   ResourceLimits
}

func DefaultReaderQos() ReaderQos {
	return ReaderQos{
		Liveliness:  Liveliness{Kind: Automatic, LeaseDuration: DurationInfinite},
		Reliability: Reliability{Kind: BestEffort},
		History:     History{Kind: KeepLast, Depth: 1},
	}
}
