// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package discovery

import (
	"net"
	"testing"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpdpDiscoveredParticipantDataRoundTrip(t *testing.T) {
	prefix := guid.NewGuidPrefix()
	want := SpdpDiscoveredParticipantData{
		DomainId:                  0,
		DomainTag:                 "",
		GuidPrefix:                prefix,
		VendorId:                  wire.VendorId{0x01, 0x0F},
		ExpectsInlineQos:          true,
		MetatrafficUnicastLocators: []rtpstypes.Locator{rtpstypes.NewUDPv4Locator(net.IPv4(192, 168, 1, 5), 7410)},
		DefaultUnicastLocators:     []rtpstypes.Locator{rtpstypes.NewUDPv4Locator(net.IPv4(192, 168, 1, 5), 7411)},
		AvailableBuiltinEndpoints:  DefaultBuiltinEndpoints,
		ManualLivelinessCount:      3,
		LeaseDuration:              qos.Duration{Sec: 10},
	}

	data := want.Encode()
	got, err := DecodeSpdpDiscoveredParticipantData(data)
	require.NoError(t, err)

	assert.Equal(t, want.GuidPrefix, got.GuidPrefix)
	assert.Equal(t, want.VendorId, got.VendorId)
	assert.True(t, got.ExpectsInlineQos)
	assert.Equal(t, want.MetatrafficUnicastLocators, got.MetatrafficUnicastLocators)
	assert.Equal(t, want.DefaultUnicastLocators, got.DefaultUnicastLocators)
	assert.Equal(t, want.AvailableBuiltinEndpoints, got.AvailableBuiltinEndpoints)
	assert.EqualValues(t, 3, got.ManualLivelinessCount)
	assert.Equal(t, want.LeaseDuration, got.LeaseDuration)
}

func TestSedpDiscoveredWriterDataRoundTrip(t *testing.T) {
	g := guid.New(guid.NewGuidPrefix(), guid.EntityId{0x00, 0x00, 0x01, guid.EntityKindUserWriterWithKey})
	wqos := qos.DefaultWriterQos()
	wqos.Reliability.Kind = qos.Reliable
	wqos.Durability.Kind = qos.TransientLocal

	want := SedpDiscoveredWriterData{
		EndpointGuid:    g,
		TopicName:       "robot/odometry",
		TypeName:        "nav_msgs/Odometry",
		UnicastLocators: []rtpstypes.Locator{rtpstypes.NewUDPv4Locator(net.IPv4(10, 0, 0, 1), 7411)},
		Qos:             wqos,
	}

	data := want.Encode()
	got, err := DecodeSedpDiscoveredWriterData(data)
	require.NoError(t, err)

	assert.Equal(t, want.EndpointGuid, got.EndpointGuid)
	assert.Equal(t, want.TopicName, got.TopicName)
	assert.Equal(t, want.TypeName, got.TypeName)
	assert.Equal(t, want.UnicastLocators, got.UnicastLocators)
	assert.Equal(t, qos.Reliable, got.Qos.Reliability.Kind)
	assert.Equal(t, qos.TransientLocal, got.Qos.Durability.Kind)
}

func TestSedpDiscoveredTopicDataRoundTrip(t *testing.T) {
	want := SedpDiscoveredTopicData{TopicName: "chatter", TypeName: "std_msgs/String"}
	data := want.Encode()
	got, err := DecodeSedpDiscoveredTopicData(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
