// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-dds/rtps/discovery"
	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/reader"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/scheduler"
	"github.com/go-dds/rtps/transport"
	"github.com/go-dds/rtps/wire"
	"github.com/go-dds/rtps/writer"
)

// defaultSpdpMulticastGroup is the well-known SPDP multicast group, RTPS 2.3
// §9.6.1.
const defaultSpdpMulticastGroup = "239.255.0.1"

// vendorId identifies this implementation on the wire. 0x01 is the OMG
// vendor-id-vendor-owner octet for unregistered implementations; 0xFF is
// this module's self-assigned product id within it.
var vendorId = wire.VendorId{0x01, 0xFF}

type writerEntity struct {
	sw    *writer.StatefulWriter
	topic Topic
	wqos  qos.WriterQos

	matched  qos.MatchedTracker
	incompat qos.IncompatibleQosTracker

	mu       sync.Mutex
	locators map[guid.Guid]rtpstypes.Locator
}

type readerEntity struct {
	sr    *reader.StatefulReader
	topic Topic
	rqos  qos.ReaderQos

	matched  qos.MatchedTracker
	incompat qos.IncompatibleQosTracker

	mu       sync.Mutex
	locators map[guid.Guid]rtpstypes.Locator
	listener func(change ReaderSample)
}

// ReaderSample is delivered to a DataReader's listener as each DATA
// submessage is applied.
type ReaderSample struct {
	WriterGuid guid.Guid
	Data       []byte
	Disposed   bool
}

// DomainParticipant is the entry point into a domain: it runs participant
// (SPDP) and endpoint (SEDP) discovery, owns the user-data transport every
// local DataWriter/DataReader sends and receives over, and matches newly
// discovered remote endpoints against local ones by topic name, type name and
// QoS compatibility.
type DomainParticipant struct {
	DomainId   uint32
	GuidPrefix guid.GuidPrefix

	disc          *discovery.Participant
	userTransport transport.Transport
	sched         *scheduler.Scheduler
	entityIds     guid.EntityIdAllocator
	log           zerolog.Logger

	mu      sync.Mutex
	writers map[guid.EntityId]*writerEntity
	readers map[guid.EntityId]*readerEntity
	topics  map[string]Topic

	wg sync.WaitGroup
}

// NewDomainParticipant joins domainId: it binds an ephemeral user-data
// unicast socket and a multicast socket on the domain's well-known SPDP
// port, then starts announcing and listening on both.
func NewDomainParticipant(domainId uint32) (*DomainParticipant, error) {
	userTransport, err := transport.NewUnicastUDPTransport(net.IPv4zero, 0)
	if err != nil {
		return nil, fmt.Errorf("dds: create user-data transport: %w", err)
	}

	spdpPort := int(rtpstypes.SpdpMulticastPort(domainId))
	mcastGroup := net.ParseIP(defaultSpdpMulticastGroup)
	mcastTransport, err := transport.NewMulticastUDPTransport(mcastGroup, spdpPort)
	if err != nil {
		userTransport.Close()
		return nil, fmt.Errorf("dds: create discovery transport: %w", err)
	}
	mcastLocator := rtpstypes.NewUDPv4Locator(mcastGroup, uint16(spdpPort))

	prefix := guid.NewGuidPrefix()
	self := discovery.SpdpDiscoveredParticipantData{
		DomainId:                  domainId,
		GuidPrefix:                prefix,
		VendorId:                  vendorId,
		DefaultUnicastLocators:    []rtpstypes.Locator{userTransport.LocalLocator()},
		AvailableBuiltinEndpoints: discovery.DefaultBuiltinEndpoints,
		LeaseDuration:             qos.DurationFromGo(discovery.DefaultLeaseDuration),
	}

	sched := scheduler.New()
	dp := &DomainParticipant{
		DomainId:      domainId,
		GuidPrefix:    prefix,
		userTransport: userTransport,
		sched:         sched,
		log:           log.With().Str("component", "dds").Uint32("domain", domainId).Logger(),
		writers:       make(map[guid.EntityId]*writerEntity),
		readers:       make(map[guid.EntityId]*readerEntity),
		topics:        make(map[string]Topic),
	}
	dp.disc = discovery.NewParticipant(self, mcastTransport, mcastLocator, sched)
	dp.disc.OnWriterDiscovered = dp.handleRemoteWriter
	dp.disc.OnReaderDiscovered = dp.handleRemoteReader

	dp.disc.Start()
	sched.Every(time.Second, dp.pumpReliableWriters)
	dp.wg.Add(1)
	go dp.receiveLoop()

	return dp, nil
}

// Close tears down discovery, the user-data receive loop, and every
// scheduled tick. It does not wait for matched peers to acknowledge
// outstanding reliable data.
func (dp *DomainParticipant) Close() error {
	dp.disc.Stop()
	err := dp.userTransport.Close()
	dp.wg.Wait()
	dp.sched.Stop()
	return err
}

// CreateTopic registers name/typeName, announcing it over SEDP. Calling it
// again for an already-registered name with a different typeName is
// rejected: a topic's type is fixed at first creation.
func (dp *DomainParticipant) CreateTopic(name, typeName string) (Topic, error) {
	dp.mu.Lock()
	defer dp.mu.Unlock()

	if existing, ok := dp.topics[name]; ok {
		if existing.TypeName != typeName {
			return Topic{}, newError(ErrorInconsistentPolicy, "topic %q already registered with type %q", name, existing.TypeName)
		}
		return existing, nil
	}
	t := Topic{Name: name, TypeName: typeName}
	dp.topics[name] = t
	dp.disc.AddTopic(discovery.SedpDiscoveredTopicData{TopicName: name, TypeName: typeName})
	return t, nil
}

// CreatePublisher returns a new Publisher grouping container.
func (dp *DomainParticipant) CreatePublisher() *Publisher {
	return &Publisher{dp: dp}
}

// CreateSubscriber returns a new Subscriber grouping container.
func (dp *DomainParticipant) CreateSubscriber() *Subscriber {
	return &Subscriber{dp: dp}
}

func (dp *DomainParticipant) createDataWriter(topic Topic, wq qos.WriterQos) (*DataWriter, error) {
	entityId := dp.entityIds.Next(guid.EntityKindUserWriterWithKey)
	g := guid.New(dp.GuidPrefix, entityId)
	sw := writer.NewStatefulWriter(g, wq.Reliability.Kind, wq.ResourceLimits.MaxSamples)

	we := &writerEntity{sw: sw, topic: topic, wqos: wq, locators: make(map[guid.Guid]rtpstypes.Locator)}
	dp.mu.Lock()
	dp.writers[entityId] = we
	dp.mu.Unlock()

	dp.disc.AddPublication(discovery.SedpDiscoveredWriterData{
		EndpointGuid:    g,
		TopicName:       topic.Name,
		TypeName:        topic.TypeName,
		UnicastLocators: []rtpstypes.Locator{dp.userTransport.LocalLocator()},
		Qos:             wq,
	})

	return &DataWriter{dp: dp, entity: we, Guid: g}, nil
}

func (dp *DomainParticipant) deleteDataWriter(w *DataWriter) error {
	dp.mu.Lock()
	_, ok := dp.writers[w.Guid.Entity]
	if ok {
		delete(dp.writers, w.Guid.Entity)
	}
	dp.mu.Unlock()
	if !ok {
		return newError(ErrorAlreadyDeleted, "data writer %s already deleted", w.Guid)
	}
	dp.disc.RemovePublication(w.Guid)
	return nil
}

func (dp *DomainParticipant) createDataReader(topic Topic, rq qos.ReaderQos) (*DataReader, error) {
	entityId := dp.entityIds.Next(guid.EntityKindUserReaderWithKey)
	g := guid.New(dp.GuidPrefix, entityId)
	sr := reader.NewStatefulReader(g, rq.Reliability.Kind, rq.ResourceLimits.MaxSamples)

	re := &readerEntity{sr: sr, topic: topic, rqos: rq, locators: make(map[guid.Guid]rtpstypes.Locator)}
	dp.mu.Lock()
	dp.readers[entityId] = re
	dp.mu.Unlock()

	dp.disc.AddSubscription(discovery.SedpDiscoveredReaderData{
		EndpointGuid:    g,
		TopicName:       topic.Name,
		TypeName:        topic.TypeName,
		UnicastLocators: []rtpstypes.Locator{dp.userTransport.LocalLocator()},
		Qos:             rq,
	})

	return &DataReader{dp: dp, entity: re, Guid: g}, nil
}

func (dp *DomainParticipant) deleteDataReader(r *DataReader) error {
	dp.mu.Lock()
	_, ok := dp.readers[r.Guid.Entity]
	if ok {
		delete(dp.readers, r.Guid.Entity)
	}
	dp.mu.Unlock()
	if !ok {
		return newError(ErrorAlreadyDeleted, "data reader %s already deleted", r.Guid)
	}
	dp.disc.RemoveSubscription(r.Guid)
	return nil
}

// handleRemoteWriter matches a SEDP-discovered remote writer against every
// local reader sharing its topic name and type name.
func (dp *DomainParticipant) handleRemoteWriter(remote discovery.SedpDiscoveredWriterData) {
	dp.mu.Lock()
	var matches []*readerEntity
	for _, re := range dp.readers {
		if re.topic.Name == remote.TopicName && re.topic.TypeName == remote.TypeName {
			matches = append(matches, re)
		}
	}
	dp.mu.Unlock()

	for _, re := range matches {
		outcome := discovery.MatchReaderToWriter(re.sr, re.rqos, remote, &re.matched, &re.incompat)
		if !outcome.Compatible {
			dp.log.Warn().Str("topic", remote.TopicName).Interface("policy", outcome.FailedPolicy).Msg("incompatible writer discovered")
			continue
		}
		if len(remote.UnicastLocators) == 0 {
			continue
		}
		re.mu.Lock()
		re.locators[remote.EndpointGuid] = remote.UnicastLocators[0]
		re.mu.Unlock()
	}
}

// handleRemoteReader matches a SEDP-discovered remote reader against every
// local writer sharing its topic name and type name, and flushes anything already pending
// for it.
func (dp *DomainParticipant) handleRemoteReader(remote discovery.SedpDiscoveredReaderData) {
	dp.mu.Lock()
	var matches []*writerEntity
	for _, we := range dp.writers {
		if we.topic.Name == remote.TopicName && we.topic.TypeName == remote.TypeName {
			matches = append(matches, we)
		}
	}
	dp.mu.Unlock()

	for _, we := range matches {
		outcome := discovery.MatchWriterToReader(we.sw, we.wqos, remote, &we.matched, &we.incompat)
		if !outcome.Compatible {
			dp.log.Warn().Str("topic", remote.TopicName).Interface("policy", outcome.FailedPolicy).Msg("incompatible reader discovered")
			continue
		}
		if len(remote.UnicastLocators) == 0 {
			continue
		}
		we.mu.Lock()
		we.locators[remote.EndpointGuid] = remote.UnicastLocators[0]
		we.mu.Unlock()
		dp.flushWriter(we, remote.EndpointGuid)
	}
}

// flushWriter sends every Unsent and Requested submessage pending for
// readerGuid on we, if a locator for it is known.
func (dp *DomainParticipant) flushWriter(we *writerEntity, readerGuid guid.Guid) {
	subs := we.sw.PushPending(readerGuid)
	subs = append(subs, we.sw.RepairPending(readerGuid)...)
	if len(subs) == 0 {
		return
	}
	we.mu.Lock()
	loc, ok := we.locators[readerGuid]
	we.mu.Unlock()
	if !ok {
		return
	}
	dp.sendSubmessages(loc, subs)
}

func (dp *DomainParticipant) sendSubmessages(dst rtpstypes.Locator, subs []wire.Submessage) {
	msg := wire.Message{
		Header: wire.MessageHeader{
			Version:    wire.ProtocolVersion23,
			VendorId:   vendorId,
			GuidPrefix: dp.GuidPrefix,
		},
		Submessages: subs,
	}
	if err := dp.userTransport.Send(dst, msg.Encode(true)); err != nil {
		dp.log.Warn().Stringer("dst", dst).Err(err).Msg("user-data send failed")
	}
}

// pumpReliableWriters sends a HEARTBEAT to every matched reliable Reader
// Proxy on every local writer, once per second.
func (dp *DomainParticipant) pumpReliableWriters() {
	dp.mu.Lock()
	writers := make([]*writerEntity, 0, len(dp.writers))
	for _, we := range dp.writers {
		writers = append(writers, we)
	}
	dp.mu.Unlock()

	for _, we := range writers {
		for readerGuid, hb := range we.sw.PendingHeartbeats() {
			we.mu.Lock()
			loc, ok := we.locators[readerGuid]
			we.mu.Unlock()
			if !ok {
				continue
			}
			dp.sendSubmessages(loc, []wire.Submessage{hb})
		}
	}
}

func (dp *DomainParticipant) receiveLoop() {
	defer dp.wg.Done()
	buf := make([]byte, 65536)
	for {
		n, _, err := dp.userTransport.Receive(buf)
		if err != nil {
			return
		}
		dp.handleUserDatagram(buf[:n])
	}
}

func (dp *DomainParticipant) handleUserDatagram(datagram []byte) {
	msg, _, err := wire.DecodeMessage(datagram)
	if err != nil {
		return
	}
	if msg.Header.GuidPrefix == dp.GuidPrefix {
		return
	}
	remotePrefix := msg.Header.GuidPrefix
	for _, sub := range msg.Submessages {
		switch s := sub.(type) {
		case wire.DataSubmessage:
			dp.handleData(remotePrefix, s)
		case wire.HeartbeatSubmessage:
			dp.handleHeartbeat(remotePrefix, s)
		case wire.AckNackSubmessage:
			dp.handleAckNack(remotePrefix, s)
		case wire.GapSubmessage:
			dp.handleGap(remotePrefix, s)
		}
	}
}

func (dp *DomainParticipant) handleData(remotePrefix guid.GuidPrefix, s wire.DataSubmessage) {
	dp.mu.Lock()
	re, ok := dp.readers[s.ReaderId]
	dp.mu.Unlock()
	if !ok {
		return
	}
	writerGuid := guid.New(remotePrefix, s.WriterId)
	if !re.sr.ReceiveData(writerGuid, s) {
		return
	}
	re.mu.Lock()
	listener := re.listener
	re.mu.Unlock()
	if listener != nil {
		listener(ReaderSample{WriterGuid: writerGuid, Data: s.SerializedPayload, Disposed: !s.DataFlag})
	}
}

func (dp *DomainParticipant) handleHeartbeat(remotePrefix guid.GuidPrefix, s wire.HeartbeatSubmessage) {
	dp.mu.Lock()
	re, ok := dp.readers[s.ReaderId]
	dp.mu.Unlock()
	if !ok {
		return
	}
	writerGuid := guid.New(remotePrefix, s.WriterId)
	ack, send := re.sr.ReceiveHeartbeat(writerGuid, s)
	if !send {
		return
	}
	re.mu.Lock()
	loc, found := re.locators[writerGuid]
	re.mu.Unlock()
	if !found {
		return
	}
	dp.sendSubmessages(loc, []wire.Submessage{ack})
}

func (dp *DomainParticipant) handleAckNack(remotePrefix guid.GuidPrefix, s wire.AckNackSubmessage) {
	dp.mu.Lock()
	we, ok := dp.writers[s.WriterId]
	dp.mu.Unlock()
	if !ok {
		return
	}
	readerGuid := guid.New(remotePrefix, s.ReaderId)
	we.sw.ProcessAckNack(readerGuid, s)
	dp.flushWriter(we, readerGuid)
}

func (dp *DomainParticipant) handleGap(remotePrefix guid.GuidPrefix, s wire.GapSubmessage) {
	dp.mu.Lock()
	re, ok := dp.readers[s.ReaderId]
	dp.mu.Unlock()
	if !ok {
		return
	}
	re.sr.ReceiveGap(guid.New(remotePrefix, s.WriterId), s)
}
