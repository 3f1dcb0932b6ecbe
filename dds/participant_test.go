// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-dds/rtps/discovery"
	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/scheduler"
	"github.com/go-dds/rtps/transport"
	"github.com/stretchr/testify/require"
)

// loopbackDomainParticipants builds two DomainParticipants the way
// NewDomainParticipant does, except each one's discovery transport is a
// unicast loopback socket pointed directly at the other instead of a real
// multicast group -- the same substitution the discovery package's own
// tests use to avoid depending on the test sandbox's multicast routing.
func loopbackDomainParticipants(t *testing.T) (a, b *DomainParticipant, cleanup func()) {
	t.Helper()

	userA, err := transport.NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)
	userB, err := transport.NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)
	discA, err := transport.NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)
	discB, err := transport.NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)

	prefixA, prefixB := guid.NewGuidPrefix(), guid.NewGuidPrefix()
	leaseQos := qos.Duration{Sec: 2}

	build := func(prefix guid.GuidPrefix, userT, discT transport.Transport, peerDiscLocator rtpstypes.Locator) *DomainParticipant {
		self := discovery.SpdpDiscoveredParticipantData{
			DomainId:                  0,
			GuidPrefix:                prefix,
			VendorId:                  vendorId,
			DefaultUnicastLocators:    []rtpstypes.Locator{userT.LocalLocator()},
			AvailableBuiltinEndpoints: discovery.DefaultBuiltinEndpoints,
			LeaseDuration:             leaseQos,
		}
		sched := scheduler.New()
		dp := &DomainParticipant{
			DomainId:      0,
			GuidPrefix:    prefix,
			userTransport: userT,
			sched:         sched,
			log:           log.With().Str("test", "dds").Logger(),
			writers:       make(map[guid.EntityId]*writerEntity),
			readers:       make(map[guid.EntityId]*readerEntity),
			topics:        make(map[string]Topic),
		}
		dp.disc = discovery.NewParticipant(self, discT, peerDiscLocator, sched)
		dp.disc.AnnouncePeriod = 20 * time.Millisecond
		dp.disc.OnWriterDiscovered = dp.handleRemoteWriter
		dp.disc.OnReaderDiscovered = dp.handleRemoteReader
		dp.disc.Start()
		sched.Every(50*time.Millisecond, dp.pumpReliableWriters)
		dp.wg.Add(1)
		go dp.receiveLoop()
		return dp
	}

	a = build(prefixA, userA, discA, discB.LocalLocator())
	b = build(prefixB, userB, discB, discA.LocalLocator())

	cleanup = func() {
		a.disc.Stop()
		b.disc.Stop()
		userA.Close()
		userB.Close()
		a.wg.Wait()
		b.wg.Wait()
		a.sched.Stop()
		b.sched.Stop()
	}
	return a, b, cleanup
}

func TestPublishSubscribeDeliversSample(t *testing.T) {
	a, b, cleanup := loopbackDomainParticipants(t)
	defer cleanup()

	topicA, err := a.CreateTopic("chatter", "std_msgs/String")
	require.NoError(t, err)
	topicB, err := b.CreateTopic("chatter", "std_msgs/String")
	require.NoError(t, err)

	writer, err := a.CreatePublisher().CreateDataWriter(topicA, qos.DefaultWriterQos())
	require.NoError(t, err)
	reader, err := b.CreateSubscriber().CreateDataReader(topicB, qos.DefaultReaderQos())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reader.SubscriptionMatchedStatus().CurrentCount >= 1 ||
			writer.PublicationMatchedStatus().CurrentCount >= 1
	}, 2*time.Second, 10*time.Millisecond)

	// Keep writing until the reader observes the sample: the very first
	// write can race the discovery match completing on both sides.
	require.Eventually(t, func() bool {
		writer.Write([]byte("hello"))
		samples := reader.Take()
		for _, s := range samples {
			if string(s.Data) == "hello" {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestReliableReaderRejectsBestEffortWriter(t *testing.T) {
	a, b, cleanup := loopbackDomainParticipants(t)
	defer cleanup()

	topicA, err := a.CreateTopic("chatter", "std_msgs/String")
	require.NoError(t, err)
	topicB, err := b.CreateTopic("chatter", "std_msgs/String")
	require.NoError(t, err)

	_, err = a.CreatePublisher().CreateDataWriter(topicA, qos.DefaultWriterQos())
	require.NoError(t, err)

	reliableReaderQos := qos.DefaultReaderQos()
	reliableReaderQos.Reliability.Kind = qos.Reliable
	reader, err := b.CreateSubscriber().CreateDataReader(topicB, reliableReaderQos)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reader.RequestedIncompatibleQosStatus().TotalCount >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Zero(t, reader.SubscriptionMatchedStatus().CurrentCount)
}

func TestDeleteDataWriterTwiceReturnsAlreadyDeleted(t *testing.T) {
	a, _, cleanup := loopbackDomainParticipants(t)
	defer cleanup()

	topic, err := a.CreateTopic("chatter", "std_msgs/String")
	require.NoError(t, err)
	pub := a.CreatePublisher()
	writer, err := pub.CreateDataWriter(topic, qos.DefaultWriterQos())
	require.NoError(t, err)

	require.NoError(t, pub.DeleteDataWriter(writer))

	err = pub.DeleteDataWriter(writer)
	require.Error(t, err)
	ddsErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrorAlreadyDeleted, ddsErr.Kind)
}

func TestCreateTopicRejectsTypeMismatch(t *testing.T) {
	a, _, cleanup := loopbackDomainParticipants(t)
	defer cleanup()

	_, err := a.CreateTopic("chatter", "std_msgs/String")
	require.NoError(t, err)

	_, err = a.CreateTopic("chatter", "std_msgs/Int32")
	require.Error(t, err)
	ddsErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrorInconsistentPolicy, ddsErr.Kind)
}
