// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package discovery

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/history"
	"github.com/go-dds/rtps/qos"
	"github.com/go-dds/rtps/reader"
	"github.com/go-dds/rtps/rtpstypes"
	"github.com/go-dds/rtps/scheduler"
	"github.com/go-dds/rtps/transport"
	"github.com/go-dds/rtps/wire"
	"github.com/go-dds/rtps/writer"
)

// DefaultSpdpAnnouncePeriod is how often a participant re-sends its
// SpdpDiscoveredParticipantData over the SPDP multicast locator.
const DefaultSpdpAnnouncePeriod = 3 * time.Second

// DefaultLeaseDuration is advertised to remote participants as the time
// since the last announcement after which this participant may be
// considered gone.
const DefaultLeaseDuration = 20 * time.Second

// remoteParticipant is the bookkeeping a local Participant keeps per
// discovered peer: its last-announced data and when its lease expires.
type remoteParticipant struct {
	data   SpdpDiscoveredParticipantData
	expiry time.Time
}

// Participant runs SPDP: the stateless built-in writer/reader pair that
// periodically announces this process's presence and tracks the liveliness
// of every remote participant it hears from. It is implemented on top of the
// same Stateful Writer/Reader engines the user endpoints use, run with
// BestEffort reliability -- a best-effort stateful engine never tracks
// repair or acknowledgment state, so it is observably identical to a
// dedicated stateless engine without a second code path.
type Participant struct {
	DomainId   uint32
	GuidPrefix guid.GuidPrefix
	VendorId   wire.VendorId

	AnnouncePeriod time.Duration
	LeaseDuration  time.Duration

	selfData SpdpDiscoveredParticipantData

	mcastTransport transport.Transport
	mcastLocator   rtpstypes.Locator
	sched          *scheduler.Scheduler
	log            zerolog.Logger

	spdpWriter *writer.StatefulWriter
	spdpReader *reader.StatefulReader

	// sedpPubWriter/sedpSubWriter/sedpTopicWriter exist only to hand out
	// monotonic per-writer sequence numbers for their respective SEDP
	// announcer entity ids; SEDP here piggybacks on the same best-effort
	// multicast channel and per-tick re-announce model as SPDP rather than
	// running its own reliable ACKNACK/HEARTBEAT round trip per remote
	// participant, since full-state re-announce every tick already gives
	// the same eventual-consistency guarantee for a fraction of the code.
	sedpPubWriter   *writer.StatefulWriter
	sedpSubWriter   *writer.StatefulWriter
	sedpTopicWriter *writer.StatefulWriter

	mu           sync.Mutex
	remotes      map[guid.GuidPrefix]*remoteParticipant
	publications map[guid.Guid]SedpDiscoveredWriterData
	subscriptions map[guid.Guid]SedpDiscoveredReaderData
	topics       map[string]SedpDiscoveredTopicData

	wg sync.WaitGroup

	OnDiscovered func(SpdpDiscoveredParticipantData)
	OnLost       func(guid.GuidPrefix)

	// OnWriterDiscovered/OnReaderDiscovered/OnTopicDiscovered fire for every
	// SEDP announcement received from a remote participant, including
	// repeated announcements of data already known -- callers run their own
	// dedup (e.g. keying a proxy map by EndpointGuid) the same way they
	// would against repeated SPDP announcements.
	OnWriterDiscovered func(SedpDiscoveredWriterData)
	OnReaderDiscovered func(SedpDiscoveredReaderData)
	OnTopicDiscovered  func(SedpDiscoveredTopicData)
}

// NewParticipant builds a Participant that announces self over mcastTransport
// (bound to the well-known SPDP multicast locator mcastLocator for the given
// domain) and tracks remote participants heard there.
func NewParticipant(self SpdpDiscoveredParticipantData, mcastTransport transport.Transport, mcastLocator rtpstypes.Locator, sched *scheduler.Scheduler) *Participant {
	p := &Participant{
		DomainId:       self.DomainId,
		GuidPrefix:     self.GuidPrefix,
		VendorId:       self.VendorId,
		AnnouncePeriod: DefaultSpdpAnnouncePeriod,
		LeaseDuration:  DefaultLeaseDuration,
		selfData:       self,
		mcastTransport: mcastTransport,
		mcastLocator:   mcastLocator,
		sched:          sched,
		log:            log.With().Str("component", "spdp").Uint32("domain", self.DomainId).Logger(),
		remotes:        make(map[guid.GuidPrefix]*remoteParticipant),
		publications:   make(map[guid.Guid]SedpDiscoveredWriterData),
		subscriptions:  make(map[guid.Guid]SedpDiscoveredReaderData),
		topics:         make(map[string]SedpDiscoveredTopicData),
	}
	writerGuid := guid.New(self.GuidPrefix, guid.EntityIdSpdpBuiltinParticipantWriter)
	readerGuid := guid.New(self.GuidPrefix, guid.EntityIdSpdpBuiltinParticipantReader)
	p.spdpWriter = writer.NewStatefulWriter(writerGuid, qos.BestEffort, 1)
	p.spdpReader = reader.NewStatefulReader(readerGuid, qos.BestEffort, 64)

	p.sedpPubWriter = writer.NewStatefulWriter(guid.New(self.GuidPrefix, guid.EntityIdSedpBuiltinPublicationsWriter), qos.BestEffort, 1)
	p.sedpSubWriter = writer.NewStatefulWriter(guid.New(self.GuidPrefix, guid.EntityIdSedpBuiltinSubscriptionsWriter), qos.BestEffort, 1)
	p.sedpTopicWriter = writer.NewStatefulWriter(guid.New(self.GuidPrefix, guid.EntityIdSedpBuiltinTopicsWriter), qos.BestEffort, 1)
	return p
}

// AddPublication registers a local DataWriter to be announced over SEDP on
// every subsequent tick, alongside the SPDP participant announcement.
func (p *Participant) AddPublication(data SedpDiscoveredWriterData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publications[data.EndpointGuid] = data
}

// RemovePublication stops announcing a local DataWriter.
func (p *Participant) RemovePublication(writerGuid guid.Guid) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.publications, writerGuid)
}

// AddSubscription registers a local DataReader to be announced over SEDP.
func (p *Participant) AddSubscription(data SedpDiscoveredReaderData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscriptions[data.EndpointGuid] = data
}

// RemoveSubscription stops announcing a local DataReader.
func (p *Participant) RemoveSubscription(readerGuid guid.Guid) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subscriptions, readerGuid)
}

// AddTopic registers a local Topic to be announced over SEDP.
func (p *Participant) AddTopic(data SedpDiscoveredTopicData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics[data.TopicName] = data
}

// Start begins the periodic announce tick and the background receive loop.
// Call Stop to shut both down.
func (p *Participant) Start() {
	p.announce()
	p.sched.Every(p.AnnouncePeriod, p.announce)
	p.sched.Every(p.AnnouncePeriod, p.sweepExpired)
	p.wg.Add(1)
	go p.receiveLoop()
}

// Stop closes the multicast transport, which unblocks and ends the receive
// loop, then waits for it to exit. The caller is responsible for stopping
// the shared scheduler separately.
func (p *Participant) Stop() {
	p.mcastTransport.Close()
	p.wg.Wait()
}

func (p *Participant) dataSubmessage(w *writer.StatefulWriter, writerId guid.EntityId, handle history.InstanceHandle, payload []byte) wire.DataSubmessage {
	sn := w.Write(history.Alive, handle, payload, nil, history.StatusInfo{})
	return wire.DataSubmessage{
		ReaderId:          guid.EntityIdUnknown,
		WriterId:          writerId,
		WriterSN:          sn,
		DataFlag:          true,
		SerializedPayload: payload,
	}
}

func (p *Participant) announce() {
	selfHandle := history.InstanceHandle(instanceHandle(guid.New(p.GuidPrefix, guid.EntityIdParticipant)))
	subs := []wire.Submessage{
		p.dataSubmessage(p.spdpWriter, guid.EntityIdSpdpBuiltinParticipantWriter, selfHandle, p.selfData.Encode()),
	}

	p.mu.Lock()
	for _, pub := range p.publications {
		subs = append(subs, p.dataSubmessage(p.sedpPubWriter, guid.EntityIdSedpBuiltinPublicationsWriter, history.InstanceHandle(instanceHandle(pub.EndpointGuid)), pub.Encode()))
	}
	for _, sub := range p.subscriptions {
		subs = append(subs, p.dataSubmessage(p.sedpSubWriter, guid.EntityIdSedpBuiltinSubscriptionsWriter, history.InstanceHandle(instanceHandle(sub.EndpointGuid)), sub.Encode()))
	}
	for _, topic := range p.topics {
		var handle history.InstanceHandle
		copy(handle[:], topic.TopicName)
		subs = append(subs, p.dataSubmessage(p.sedpTopicWriter, guid.EntityIdSedpBuiltinTopicsWriter, handle, topic.Encode()))
	}
	p.mu.Unlock()

	msg := wire.Message{
		Header: wire.MessageHeader{
			Version:    wire.ProtocolVersion23,
			VendorId:   p.VendorId,
			GuidPrefix: p.GuidPrefix,
		},
		Submessages: subs,
	}
	encoded := msg.Encode(true)
	if err := p.mcastTransport.Send(p.mcastLocator, encoded); err != nil {
		p.log.Warn().Err(err).Msg("discovery announce failed")
	}
}

func (p *Participant) receiveLoop() {
	defer p.wg.Done()
	buf := make([]byte, 8192)
	for {
		n, _, err := p.mcastTransport.Receive(buf)
		if err != nil {
			return
		}
		p.handleDatagram(buf[:n])
	}
}

func (p *Participant) handleDatagram(datagram []byte) {
	msg, _, err := wire.DecodeMessage(datagram)
	if err != nil {
		return
	}
	if msg.Header.GuidPrefix == p.GuidPrefix {
		return
	}
	for _, sub := range msg.Submessages {
		data, ok := sub.(wire.DataSubmessage)
		if !ok {
			continue
		}
		switch data.WriterId {
		case guid.EntityIdSpdpBuiltinParticipantWriter:
			remote, err := DecodeSpdpDiscoveredParticipantData(data.SerializedPayload)
			if err != nil {
				p.log.Warn().Err(err).Msg("malformed spdp payload")
				continue
			}
			if remote.DomainId != p.selfData.DomainId || remote.DomainTag != p.selfData.DomainTag {
				continue
			}
			p.handleDiscovered(remote)
		case guid.EntityIdSedpBuiltinPublicationsWriter:
			wdata, err := DecodeSedpDiscoveredWriterData(data.SerializedPayload)
			if err != nil {
				p.log.Warn().Err(err).Msg("malformed sedp writer payload")
				continue
			}
			if p.OnWriterDiscovered != nil {
				p.OnWriterDiscovered(wdata)
			}
		case guid.EntityIdSedpBuiltinSubscriptionsWriter:
			rdata, err := DecodeSedpDiscoveredReaderData(data.SerializedPayload)
			if err != nil {
				p.log.Warn().Err(err).Msg("malformed sedp reader payload")
				continue
			}
			if p.OnReaderDiscovered != nil {
				p.OnReaderDiscovered(rdata)
			}
		case guid.EntityIdSedpBuiltinTopicsWriter:
			tdata, err := DecodeSedpDiscoveredTopicData(data.SerializedPayload)
			if err != nil {
				p.log.Warn().Err(err).Msg("malformed sedp topic payload")
				continue
			}
			if p.OnTopicDiscovered != nil {
				p.OnTopicDiscovered(tdata)
			}
		}
	}
}

func (p *Participant) handleDiscovered(remote SpdpDiscoveredParticipantData) {
	p.mu.Lock()
	defer p.mu.Unlock()

	lease := time.Duration(remote.LeaseDuration.Sec)*time.Second + time.Duration(remote.LeaseDuration.Nanosec)
	if lease <= 0 {
		lease = p.LeaseDuration
	}
	expiry := time.Now().Add(lease + p.AnnouncePeriod)

	_, known := p.remotes[remote.GuidPrefix]
	p.remotes[remote.GuidPrefix] = &remoteParticipant{data: remote, expiry: expiry}
	if !known && p.OnDiscovered != nil {
		p.OnDiscovered(remote)
	}
}

func (p *Participant) sweepExpired() {
	p.mu.Lock()
	now := time.Now()
	var lost []guid.GuidPrefix
	for prefix, rp := range p.remotes {
		if now.After(rp.expiry) {
			lost = append(lost, prefix)
			delete(p.remotes, prefix)
		}
	}
	p.mu.Unlock()

	for _, prefix := range lost {
		if p.OnLost != nil {
			p.OnLost(prefix)
		}
	}
}

// Remotes returns a snapshot of every participant currently within its
// lease window.
func (p *Participant) Remotes() []SpdpDiscoveredParticipantData {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SpdpDiscoveredParticipantData, 0, len(p.remotes))
	for _, rp := range p.remotes {
		out = append(out, rp.data)
	}
	return out
}
