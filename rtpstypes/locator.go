// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package rtpstypes

import (
	"fmt"
	"net"
)

// LocatorKind identifies the transport kind a Locator addresses, RTPS 2.3
// §9.3.2.
type LocatorKind int32

const (
	LocatorKindInvalid LocatorKind = 0
	LocatorKindUDPv4    LocatorKind = 1
	LocatorKindUDPv6    LocatorKind = 2
)

// LocatorAddressLength is the fixed size of a Locator's address field.
const LocatorAddressLength = 16

// Locator is a transport address: kind, port, and a 16-byte address whose
// interpretation depends on kind.
type Locator struct {
	Kind    LocatorKind
	Port    uint32
	Address [LocatorAddressLength]byte
}

// LocatorInvalid is LOCATOR_INVALID, RTPS 2.3 §9.3.2.
var LocatorInvalid = Locator{Kind: LocatorKindInvalid}

// NewUDPv4Locator builds a Locator from an IPv4 address and UDP port. Per
// RTPS 2.3 §9.3.2, an IPv4 address is stored in the last 4 bytes of the
// 16-byte address field, the rest zeroed.
func NewUDPv4Locator(ip net.IP, port uint16) Locator {
	var loc Locator
	loc.Kind = LocatorKindUDPv4
	loc.Port = uint32(port)
	ip4 := ip.To4()
	if ip4 != nil {
		copy(loc.Address[12:], ip4)
	}
	return loc
}

// UDPAddr renders the locator as a *net.UDPAddr, for UDPv4/UDPv6 kinds only.
func (l Locator) UDPAddr() (*net.UDPAddr, error) {
	switch l.Kind {
	case LocatorKindUDPv4:
		return &net.UDPAddr{IP: net.IP(l.Address[12:16]), Port: int(l.Port)}, nil
	case LocatorKindUDPv6:
		addr := make(net.IP, 16)
		copy(addr, l.Address[:])
		return &net.UDPAddr{IP: addr, Port: int(l.Port)}, nil
	default:
		return nil, fmt.Errorf("rtpstypes: locator kind %d has no UDP address representation", l.Kind)
	}
}

func (l Locator) String() string {
	addr, err := l.UDPAddr()
	if err != nil {
		return fmt.Sprintf("locator{kind=%d invalid}", l.Kind)
	}
	return addr.String()
}

// IsMulticast reports whether the locator's address is a multicast address.
func (l Locator) IsMulticast() bool {
	addr, err := l.UDPAddr()
	if err != nil {
		return false
	}
	return addr.IP.IsMulticast()
}

// Well-known port formula constants, RTPS 2.3 §9.6.1.1.
const (
	PortBase       = 7400
	PortDomainGain = 250
	PortOffsetD0   = 0  // SPDP multicast
	PortOffsetD1   = 10 // metatraffic unicast
	PortOffsetD2   = 1  // metatraffic multicast
	PortOffsetD3   = 11 // user-data unicast
)

// SpdpMulticastPort computes the well-known SPDP multicast port for a domain,
// PB + DG*domainId + d0.
func SpdpMulticastPort(domainId uint32) uint16 {
	return uint16(PortBase + PortDomainGain*domainId + PortOffsetD0)
}

// MetatrafficUnicastPort computes the well-known metatraffic (builtin
// discovery) unicast port for a domain and participant index,
// PB + DG*domainId + d1 + PG*participantId.
const ParticipantGain = 2

func MetatrafficUnicastPort(domainId, participantId uint32) uint16 {
	return uint16(PortBase + PortDomainGain*domainId + PortOffsetD1 + ParticipantGain*participantId)
}

// DefaultUnicastPort computes the well-known user-data unicast port for a
// domain and participant index, PB + DG*domainId + d3 + PG*participantId.
func DefaultUnicastPort(domainId, participantId uint32) uint16 {
	return uint16(PortBase + PortDomainGain*domainId + PortOffsetD3 + ParticipantGain*participantId)
}

// MetatrafficMulticastPort computes the well-known metatraffic multicast
// port for a domain, PB + DG*domainId + d2.
func MetatrafficMulticastPort(domainId uint32) uint16 {
	return uint16(PortBase + PortDomainGain*domainId + PortOffsetD2)
}
