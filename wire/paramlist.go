// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"
)

// PidSentinel terminates a ParameterList.
const PidSentinel uint16 = 0x0001

// Well-known parameter ids used by discovery (RTPS 2.3 §9.6.3), named here so
// the discovery package can build/parse SPDP and SEDP parameter lists without
// redefining wire constants.
const (
	PidParticipantGuid        uint16 = 0x0050
	PidEndpointGuid            uint16 = 0x005A
	PidProtocolVersion         uint16 = 0x0015
	PidVendorId                uint16 = 0x0016
	PidDefaultUnicastLocator   uint16 = 0x0031
	PidDefaultMulticastLocator uint16 = 0x0048
	PidMetatrafficUnicastLocator   uint16 = 0x0032
	PidMetatrafficMulticastLocator uint16 = 0x0033
	PidParticipantLeaseDuration    uint16 = 0x0002
	PidBuiltinEndpointSet          uint16 = 0x0058
	PidTopicName               uint16 = 0x0005
	PidTypeName                uint16 = 0x0007
	PidReliability             uint16 = 0x001A
	PidStatusInfo              uint16 = 0x0071
	PidKeyHash                 uint16 = 0x0070
	PidDomainId                uint16 = 0x000F
	PidDomainTag               uint16 = 0x4014
	PidExpectsInlineQos        uint16 = 0x0043
	PidBuiltinEndpointSetQos   uint16 = 0x0077
	PidParticipantManualLivelinessCount uint16 = 0x0034
	PidGroupEntityId           uint16 = 0x0053
	PidDurability              uint16 = 0x001D
	PidDeadline                uint16 = 0x0023
	PidOwnership               uint16 = 0x001F
	PidOwnershipStrength       uint16 = 0x0006
	PidLiveliness              uint16 = 0x001B
	PidPartition               uint16 = 0x0029
	PidDestinationOrder        uint16 = 0x0025
	PidHistory                 uint16 = 0x0040
)

// Parameter is a single (id, bytes) entry of an inline QoS / discovery
// parameter list.
type Parameter struct {
	ID    uint16
	Value []byte
}

// ParameterList is an ordered sequence of Parameters, terminated on the wire
// by PID_SENTINEL.
type ParameterList []Parameter

// Get returns the first parameter with the given id, if any.
func (pl ParameterList) Get(id uint16) ([]byte, bool) {
	for _, p := range pl {
		if p.ID == id {
			return p.Value, true
		}
	}
	return nil, false
}

// Encode appends the wire representation of pl (each entry padded to a
// 4-byte boundary, terminated by PID_SENTINEL) to buf.
func (pl ParameterList) Encode(buf []byte, order binary.ByteOrder) []byte {
	tmp := make([]byte, 4)
	for _, p := range pl {
		order.PutUint16(tmp[0:2], p.ID)
		order.PutUint16(tmp[2:4], uint16(len(p.Value)))
		buf = append(buf, tmp...)
		buf = append(buf, p.Value...)
		for i := 0; i < pad4(len(p.Value)); i++ {
			buf = append(buf, 0)
		}
	}
	order.PutUint16(tmp[0:2], PidSentinel)
	order.PutUint16(tmp[2:4], 0)
	return append(buf, tmp...)
}

// DecodeParameterList reads a ParameterList from the front of data, stopping
// at PID_SENTINEL. It returns the list and the number of bytes consumed
// (including the sentinel entry).
func DecodeParameterList(order binary.ByteOrder, data []byte) (ParameterList, int, error) {
	var pl ParameterList
	offset := 0
	for {
		if offset+4 > len(data) {
			return nil, offset, fmt.Errorf("wire: truncated parameter header at offset %d", offset)
		}
		id := order.Uint16(data[offset : offset+2])
		length := int(order.Uint16(data[offset+2 : offset+4]))
		offset += 4
		if id == PidSentinel {
			return pl, offset, nil
		}
		if offset+length > len(data) {
			return nil, offset, fmt.Errorf("wire: parameter id=0x%04x length %d exceeds buffer", id, length)
		}
		value := make([]byte, length)
		copy(value, data[offset:offset+length])
		offset += length + pad4(length)
		pl = append(pl, Parameter{ID: id, Value: value})
	}
}
