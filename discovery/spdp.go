// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package discovery

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/wire"
)

// encapsulationPLCdrLE is the PL_CDR_LE representation identifier every
// parameter-list payload in this implementation is encapsulated with.
var encapsulationPLCdrLE = [4]byte{0x00, 0x03, 0x00, 0x00}

// SpdpDiscoveredParticipantData is the payload a participant's SPDP
// built-in writer periodically announces over the well-known SPDP
// multicast locator, and what its SPDP built-in reader decodes on receipt.
// Field set per spdp_discovered_participant_data.rs plus the
// builtin-endpoint-QoS bitmask and manual liveliness count the distilled
// field list omits.
type SpdpDiscoveredParticipantData struct {
	DomainId   uint32
	DomainTag  string
	GuidPrefix guid.GuidPrefix
	VendorId   wire.VendorId

	ExpectsInlineQos bool

	MetatrafficUnicastLocators   []rtpstypes.Locator
	MetatrafficMulticastLocators []rtpstypes.Locator
	DefaultUnicastLocators       []rtpstypes.Locator
	DefaultMulticastLocators     []rtpstypes.Locator

	AvailableBuiltinEndpoints BuiltinEndpointSet
	BuiltinEndpointQos        uint32
	ManualLivelinessCount     int32

	LeaseDuration qos.Duration
}

func encodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func decodeUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func encodeBool(v bool) []byte {
	if v {
		return []byte{1, 0, 0, 0}
	}
	return []byte{0, 0, 0, 0}
}

func encodeDuration(d qos.Duration) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:4], uint32(d.Sec))
	binary.LittleEndian.PutUint32(b[4:8], d.Nanosec)
	return b
}

func decodeDuration(b []byte) qos.Duration {
	return qos.Duration{Sec: int32(binary.LittleEndian.Uint32(b[0:4])), Nanosec: binary.LittleEndian.Uint32(b[4:8])}
}

// ToParameterList renders d as a wire.ParameterList.
func (d SpdpDiscoveredParticipantData) ToParameterList() wire.ParameterList {
	var pl wire.ParameterList
	pl = append(pl, wire.Parameter{ID: wire.PidDomainId, Value: encodeUint32(d.DomainId)})
	if d.DomainTag != "" {
		pl = append(pl, wire.Parameter{ID: wire.PidDomainTag, Value: []byte(d.DomainTag)})
	}
	pl = append(pl, wire.Parameter{ID: wire.PidParticipantGuid, Value: guidBytes(d.GuidPrefix, guid.EntityIdParticipant)})
	pl = append(pl, wire.Parameter{ID: wire.PidVendorId, Value: d.VendorId[:]})
	pl = append(pl, wire.Parameter{ID: wire.PidExpectsInlineQos, Value: encodeBool(d.ExpectsInlineQos)})

	for _, loc := range d.MetatrafficUnicastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidMetatrafficUnicastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	for _, loc := range d.MetatrafficMulticastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidMetatrafficMulticastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	for _, loc := range d.DefaultUnicastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidDefaultUnicastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	for _, loc := range d.DefaultMulticastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidDefaultMulticastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}

	pl = append(pl, wire.Parameter{ID: wire.PidBuiltinEndpointSet, Value: encodeUint32(uint32(d.AvailableBuiltinEndpoints))})
	pl = append(pl, wire.Parameter{ID: wire.PidBuiltinEndpointSetQos, Value: encodeUint32(d.BuiltinEndpointQos)})
	pl = append(pl, wire.Parameter{ID: wire.PidParticipantManualLivelinessCount, Value: encodeUint32(uint32(d.ManualLivelinessCount))})
	pl = append(pl, wire.Parameter{ID: wire.PidParticipantLeaseDuration, Value: encodeDuration(d.LeaseDuration)})
	return pl
}

func guidBytes(prefix guid.GuidPrefix, entity guid.EntityId) []byte {
	b := make([]byte, 0, 16)
	b = append(b, prefix[:]...)
	return append(b, entity[:]...)
}

// Encode serializes d as a full RTPS discovery payload: a PL_CDR_LE
// encapsulation header followed by its parameter list.
func (d SpdpDiscoveredParticipantData) Encode() []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, encapsulationPLCdrLE[:]...)
	return d.ToParameterList().Encode(buf, binary.LittleEndian)
}

// DecodeSpdpDiscoveredParticipantData parses a payload produced by Encode.
func DecodeSpdpDiscoveredParticipantData(data []byte) (SpdpDiscoveredParticipantData, error) {
	if len(data) < 4 {
		return SpdpDiscoveredParticipantData{}, fmt.Errorf("discovery: SPDP payload too short")
	}
	pl, _, err := wire.DecodeParameterList(binary.LittleEndian, data[4:])
	if err != nil {
		return SpdpDiscoveredParticipantData{}, fmt.Errorf("discovery: SPDP parameter list: %w", err)
	}

	var d SpdpDiscoveredParticipantData
	if v, ok := pl.Get(wire.PidDomainId); ok {
		d.DomainId = decodeUint32(v)
	}
	if v, ok := pl.Get(wire.PidDomainTag); ok {
		d.DomainTag = string(v)
	}
	if v, ok := pl.Get(wire.PidParticipantGuid); ok && len(v) >= 16 {
		copy(d.GuidPrefix[:], v[:12])
	}
	if v, ok := pl.Get(wire.PidVendorId); ok && len(v) >= 2 {
		d.VendorId = wire.VendorId{v[0], v[1]}
	}
	if v, ok := pl.Get(wire.PidExpectsInlineQos); ok && len(v) >= 1 {
		d.ExpectsInlineQos = v[0] != 0
	}
	for _, p := range pl {
		switch p.ID {
		case wire.PidMetatrafficUnicastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				d.MetatrafficUnicastLocators = append(d.MetatrafficUnicastLocators, loc)
			}
		case wire.PidMetatrafficMulticastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				d.MetatrafficMulticastLocators = append(d.MetatrafficMulticastLocators, loc)
			}
		case wire.PidDefaultUnicastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				d.DefaultUnicastLocators = append(d.DefaultUnicastLocators, loc)
			}
		case wire.PidDefaultMulticastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				d.DefaultMulticastLocators = append(d.DefaultMulticastLocators, loc)
			}
		}
	}
	if v, ok := pl.Get(wire.PidBuiltinEndpointSet); ok {
		d.AvailableBuiltinEndpoints = BuiltinEndpointSet(decodeUint32(v))
	}
	if v, ok := pl.Get(wire.PidBuiltinEndpointSetQos); ok {
		d.BuiltinEndpointQos = decodeUint32(v)
	}
	if v, ok := pl.Get(wire.PidParticipantManualLivelinessCount); ok {
		d.ManualLivelinessCount = int32(decodeUint32(v))
	}
	if v, ok := pl.Get(wire.PidParticipantLeaseDuration); ok && len(v) >= 8 {
		d.LeaseDuration = decodeDuration(v)
	}
	return d, nil
}
