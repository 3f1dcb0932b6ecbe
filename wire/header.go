// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package wire implements the RTPS wire format: the message header, the
// seven required submessage kinds, and the inline-QoS parameter list codec,
// bit-exact per OMG RTPS 2.3 §9.4.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-dds/rtps/guid"
)

// ProtocolId is the 4-byte magic that opens every RTPS message, 'R','T','P','S'.
var ProtocolId = [4]byte{'R', 'T', 'P', 'S'}

// ProtocolVersion is the 2-byte RTPS protocol version.
type ProtocolVersion struct {
	Major byte
	Minor byte
}

// ProtocolVersion23 is the version this implementation speaks.
var ProtocolVersion23 = ProtocolVersion{Major: 2, Minor: 3}

// VendorId is the 2-byte vendor identifier.
type VendorId [2]byte

// VendorIdUnknown is VENDORID_UNKNOWN.
var VendorIdUnknown = VendorId{0x00, 0x00}

// HeaderLength is the fixed, always-big-endian size of the RTPS message
// header: 4 (magic) + 2 (version) + 2 (vendor) + 12 (guid prefix).
const HeaderLength = 4 + 2 + 2 + guid.GuidPrefixLength

// MessageHeader is the fixed header prefixing every RTPS message: 4-byte
// magic, 2-byte protocol version, 2-byte vendor id, 12-byte guid prefix.
type MessageHeader struct {
	Version    ProtocolVersion
	VendorId   VendorId
	GuidPrefix guid.GuidPrefix
}

// ErrBadHeader is returned when a datagram does not start with the RTPS
// magic number; the caller must drop the entire datagram.
var ErrBadHeader = errors.New("wire: malformed RTPS message header")

// EncodeHeader appends the wire representation of h to buf and returns the
// result. The header itself carries no endianness flag and is always written
// as raw big-endian octets.
func EncodeHeader(buf []byte, h MessageHeader) []byte {
	buf = append(buf, ProtocolId[:]...)
	buf = append(buf, h.Version.Major, h.Version.Minor)
	buf = append(buf, h.VendorId[:]...)
	buf = append(buf, h.GuidPrefix[:]...)
	return buf
}

// DecodeHeader reads a MessageHeader from the front of data, returning the
// remaining bytes (the submessage stream). ErrBadHeader is returned (and the
// datagram must be dropped whole) if the magic does not match or the buffer
// is too short.
func DecodeHeader(data []byte) (MessageHeader, []byte, error) {
	if len(data) < HeaderLength {
		return MessageHeader{}, nil, fmt.Errorf("%w: short buffer (%d bytes)", ErrBadHeader, len(data))
	}
	if data[0] != ProtocolId[0] || data[1] != ProtocolId[1] || data[2] != ProtocolId[2] || data[3] != ProtocolId[3] {
		return MessageHeader{}, nil, ErrBadHeader
	}
	var h MessageHeader
	h.Version = ProtocolVersion{Major: data[4], Minor: data[5]}
	h.VendorId = VendorId{data[6], data[7]}
	copy(h.GuidPrefix[:], data[8:20])
	return h, data[20:], nil
}

// encodeEntityId treats an EntityId's 4-octet array as the big-endian
// encoding of its 32-bit value (e.g. the SPDP participant writer constant
// 0x000100C2), so that under a little-endian submessage it is re-emitted
// byte-swapped the same way every other 4-byte submessage element is.
func encodeEntityId(buf []byte, order binary.ByteOrder, id guid.EntityId) []byte {
	v := binary.BigEndian.Uint32(id[:])
	tmp := make([]byte, 4)
	order.PutUint32(tmp, v)
	return append(buf, tmp...)
}

func decodeEntityId(order binary.ByteOrder, data []byte) guid.EntityId {
	v := order.Uint32(data[:4])
	var id guid.EntityId
	binary.BigEndian.PutUint32(id[:], v)
	return id
}
