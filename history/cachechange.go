// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package history implements the History Cache: the ordered, append-only
// store of CacheChanges keyed by (writer GUID, sequence number).
package history

import (
	"crypto/md5"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// ChangeKind classifies a CacheChange.
type ChangeKind int

const (
	Alive ChangeKind = iota
	NotAliveDisposed
	NotAliveUnregistered
	AliveFiltered
)

// InstanceHandleLength is the fixed size of an InstanceHandle.
const InstanceHandleLength = 16

// InstanceHandle identifies a keyed instance within a topic.
type InstanceHandle [InstanceHandleLength]byte

// InstanceHandleFromSerializedKey derives the instance handle for a
// serialized key: the key zero-padded to 16 bytes if its length is <= 16,
// otherwise the MD5 digest of the serialized key.
func InstanceHandleFromSerializedKey(serializedKey []byte) InstanceHandle {
	var h InstanceHandle
	if len(serializedKey) <= InstanceHandleLength {
		copy(h[:], serializedKey)
		return h
	}
	sum := md5.Sum(serializedKey)
	return InstanceHandle(sum)
}

// StatusInfo carries the disposed/unregistered flags a non-Alive change
// propagates through inline QoS.
type StatusInfo struct {
	Disposed     bool
	Unregistered bool
}

// InlineQosParam is a (parameter-id, bytes) pair.
type InlineQosParam struct {
	ID    uint16
	Value []byte
}

// CacheChange is the atom of transmitted state.
type CacheChange struct {
	Kind           ChangeKind
	WriterGuid     guid.Guid
	InstanceHandle InstanceHandle
	SequenceNumber rtpstypes.SequenceNumber
	SerializedData []byte
	InlineQos      []InlineQosParam
	StatusInfo     StatusInfo
}
