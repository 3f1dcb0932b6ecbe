// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package guid implements the RTPS GUID, GuidPrefix and EntityId types
// (RTPS 2.3 §8.2.4) that form the sole identity of a participant and its
// endpoints on the wire.
package guid

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/google/uuid"
)

// GuidPrefixLength is the size in bytes of a GuidPrefix.
const GuidPrefixLength = 12

// EntityIdLength is the size in bytes of an EntityId.
const EntityIdLength = 4

// GuidPrefix uniquely identifies a participant on the network.
type GuidPrefix [GuidPrefixLength]byte

func (p GuidPrefix) String() string {
	return fmt.Sprintf("%x", [GuidPrefixLength]byte(p))
}

// EntityId uniquely identifies an endpoint (or the participant itself, via
// ENTITYID_PARTICIPANT) within a GuidPrefix. The low byte carries the entity
// kind (RTPS 2.3 Table 9.1).
type EntityId [EntityIdLength]byte

func (e EntityId) String() string {
	return fmt.Sprintf("%08x", binary.BigEndian.Uint32(e[:]))
}

// Kind returns the entity-kind octet, the last byte of the EntityId.
func (e EntityId) Kind() byte {
	return e[3]
}

// Entity kind octets, RTPS 2.3 Table 9.1.
const (
	EntityKindUserWriterWithKey    byte = 0x02
	EntityKindUserWriterNoKey      byte = 0x03
	EntityKindUserReaderWithKey    byte = 0x07
	EntityKindUserReaderNoKey      byte = 0x04
	EntityKindBuiltinWriterWithKey byte = 0xC2
	EntityKindBuiltinWriterNoKey   byte = 0xC3
	EntityKindBuiltinReaderWithKey byte = 0xC7
	EntityKindBuiltinReaderNoKey   byte = 0xC4
	EntityKindBuiltinParticipant   byte = 0xC1
)

// IsWriter reports whether the entity kind denotes a writer: the low nibble
// of the kind octet is 0x02 (with key) or 0x03 (no key), per RTPS 2.3 Table 9.1.
func (e EntityId) IsWriter() bool {
	k := e.Kind() & 0x0F
	return k == 0x02 || k == 0x03
}

// IsReader reports whether the entity kind denotes a reader.
func (e EntityId) IsReader() bool {
	k := e.Kind()
	return (k&0x04 != 0) && k != EntityKindBuiltinParticipant
}

// IsBuiltin reports whether the entity kind is a built-in (discovery) entity.
func (e EntityId) IsBuiltin() bool {
	return e.Kind()&0xC0 == 0xC0
}

// ENTITYID_UNKNOWN, per RTPS 2.3 §9.3.1.2.
var EntityIdUnknown = EntityId{0x00, 0x00, 0x00, 0x00}

// ENTITYID_PARTICIPANT, per RTPS 2.3 §9.3.1.2.
var EntityIdParticipant = EntityId{0x00, 0x00, 0x01, EntityKindBuiltinParticipant}

// Built-in SPDP/SEDP EntityIds, RTPS 2.3 §8.5.3.
var (
	EntityIdSpdpBuiltinParticipantWriter = EntityId{0x00, 0x01, 0x00, 0xC2}
	EntityIdSpdpBuiltinParticipantReader = EntityId{0x00, 0x01, 0x00, 0xC7}

	EntityIdSedpBuiltinPublicationsWriter = EntityId{0x00, 0x00, 0x03, 0xC2}
	EntityIdSedpBuiltinPublicationsReader = EntityId{0x00, 0x00, 0x03, 0xC7}

	EntityIdSedpBuiltinSubscriptionsWriter = EntityId{0x00, 0x00, 0x04, 0xC2}
	EntityIdSedpBuiltinSubscriptionsReader = EntityId{0x00, 0x00, 0x04, 0xC7}

	EntityIdSedpBuiltinTopicsWriter = EntityId{0x00, 0x00, 0x02, 0xC2}
	EntityIdSedpBuiltinTopicsReader = EntityId{0x00, 0x00, 0x02, 0xC7}
)

// Guid is the 16-byte globally unique identifier of an endpoint: GuidPrefix
// plus EntityId. GUID equality is the sole identity for endpoints across the
// wire.
type Guid struct {
	Prefix GuidPrefix
	Entity EntityId
}

func New(prefix GuidPrefix, entity EntityId) Guid {
	return Guid{Prefix: prefix, Entity: entity}
}

func (g Guid) String() string {
	return g.Prefix.String() + ":" + g.Entity.String()
}

// NewGuidPrefix derives a collision-resistant 12-byte GuidPrefix for a new
// local participant. It folds a fresh random UUID together with the host's
// network interface hardware (MAC) addresses (when available) through MD5 so that two
// participants started on the same host in the same instant still diverge.
func NewGuidPrefix() GuidPrefix {
	u := uuid.New()
	h := md5.New()
	h.Write(u[:])
	if ifaces, err := net.Interfaces(); err == nil {
		for _, iface := range ifaces {
			h.Write(iface.HardwareAddr)
		}
	}
	sum := h.Sum(nil)
	var prefix GuidPrefix
	copy(prefix[:], sum[:GuidPrefixLength])
	return prefix
}

// EntityIdAllocator allocates a user-defined EntityId from a participant-local
// monotonic counter, stamping in the requested entity kind octet.
type EntityIdAllocator struct {
	counter uint32
}

func (a *EntityIdAllocator) Next(kind byte) EntityId {
	a.counter++
	var id EntityId
	binary.BigEndian.PutUint32(id[:], a.counter<<8)
	id[3] = kind
	return id
}
