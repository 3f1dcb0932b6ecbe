// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package rtpstypes

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNumberPartsRoundtrip(t *testing.T) {
	sn := SequenceNumber(5)
	assert.Equal(t, int32(0), sn.High())
	assert.Equal(t, uint32(5), sn.Low())
	assert.Equal(t, sn, SequenceNumberFromParts(sn.High(), sn.Low()))

	big := SequenceNumber(1) << 40
	assert.Equal(t, big, SequenceNumberFromParts(big.High(), big.Low()))
}

func TestSequenceNumberSetMembers(t *testing.T) {
	set := NewSequenceNumberSetFromSlice(10, []SequenceNumber{10, 12, 15})
	assert.True(t, set.Contains(10))
	assert.False(t, set.Contains(11))
	assert.True(t, set.Contains(12))
	assert.True(t, set.Contains(15))
	assert.False(t, set.Contains(20))
	assert.Equal(t, []SequenceNumber{10, 12, 15}, set.Members())
	assert.False(t, set.Empty())
}

func TestSequenceNumberSetEmpty(t *testing.T) {
	set := NewSequenceNumberSetFromSlice(5, nil)
	assert.True(t, set.Empty())
	assert.Nil(t, set.Members())
}

func TestSequenceNumberSetClipsAt256Bits(t *testing.T) {
	members := make([]SequenceNumber, 0, 300)
	for i := SequenceNumber(0); i < 300; i++ {
		members = append(members, 1+i)
	}
	set := NewSequenceNumberSetFromSlice(1, members)
	assert.LessOrEqual(t, set.NumBits, uint32(SequenceNumberSetMaxBitmapSize))
	assert.False(t, set.Contains(1+300))
}

func TestLocatorUDPv4Roundtrip(t *testing.T) {
	ip := net.ParseIP("192.168.1.10")
	loc := NewUDPv4Locator(ip, 7411)
	addr, err := loc.UDPAddr()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", addr.IP.String())
	assert.Equal(t, 7411, addr.Port)
}

func TestLocatorInvalidHasNoUDPAddr(t *testing.T) {
	_, err := LocatorInvalid.UDPAddr()
	assert.Error(t, err)
}

func TestWellKnownPorts(t *testing.T) {
	assert.Equal(t, uint16(7400), SpdpMulticastPort(0))
	assert.Equal(t, uint16(7650), SpdpMulticastPort(1))
	assert.Equal(t, uint16(7410), MetatrafficUnicastPort(0, 0))
	assert.Equal(t, uint16(7412), MetatrafficUnicastPort(0, 1))
	assert.Equal(t, uint16(7401), MetatrafficMulticastPort(0))
	assert.Equal(t, uint16(7411), DefaultUnicastPort(0, 0))
}
