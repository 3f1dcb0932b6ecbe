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

// SedpDiscoveredWriterData is published by a participant's SEDP
// publications announcer whenever a local DataWriter is created, and
// consumed by every participant's SEDP publications detector.
type SedpDiscoveredWriterData struct {
	EndpointGuid        guid.Guid
	GroupEntityId       guid.EntityId
	TopicName           string
	TypeName            string
	UnicastLocators     []rtpstypes.Locator
	MulticastLocators   []rtpstypes.Locator
	Qos                 qos.WriterQos
}

// SedpDiscoveredReaderData mirrors SedpDiscoveredWriterData for the
// subscriptions announcer/detector pair.
type SedpDiscoveredReaderData struct {
	EndpointGuid      guid.Guid
	GroupEntityId     guid.EntityId
	TopicName         string
	TypeName          string
	UnicastLocators   []rtpstypes.Locator
	MulticastLocators []rtpstypes.Locator
	Qos               qos.ReaderQos
}

// SedpDiscoveredTopicData is published whenever a local Topic is created;
// it carries no proxy (topics aren't endpoints) but lets remote
// participants learn a topic's type name before any writer/reader using it
// appears.
type SedpDiscoveredTopicData struct {
	TopicName string
	TypeName  string
}

func encodeQosCommon(pl wire.ParameterList, durability qos.DurabilityKind, reliability qos.ReliabilityKind, maxBlocking qos.Duration, ownership qos.OwnershipKind, liveliness qos.LivelinessKind, lease qos.Duration, destOrder qos.DestinationOrderKind, deadline qos.Duration, historyKind qos.HistoryKind, depth int) wire.ParameterList {
	pl = append(pl, wire.Parameter{ID: wire.PidDurability, Value: encodeUint32(uint32(durability))})
	relBuf := make([]byte, 12)
	binary.LittleEndian.PutUint32(relBuf[0:4], uint32(reliability))
	binary.LittleEndian.PutUint32(relBuf[4:8], uint32(maxBlocking.Sec))
	binary.LittleEndian.PutUint32(relBuf[8:12], maxBlocking.Nanosec)
	pl = append(pl, wire.Parameter{ID: wire.PidReliability, Value: relBuf})
	pl = append(pl, wire.Parameter{ID: wire.PidOwnership, Value: encodeUint32(uint32(ownership))})
	liveBuf := make([]byte, 12)
	binary.LittleEndian.PutUint32(liveBuf[0:4], uint32(liveliness))
	binary.LittleEndian.PutUint32(liveBuf[4:8], uint32(lease.Sec))
	binary.LittleEndian.PutUint32(liveBuf[8:12], lease.Nanosec)
	pl = append(pl, wire.Parameter{ID: wire.PidLiveliness, Value: liveBuf})
	pl = append(pl, wire.Parameter{ID: wire.PidDestinationOrder, Value: encodeUint32(uint32(destOrder))})
	pl = append(pl, wire.Parameter{ID: wire.PidDeadline, Value: encodeDuration(deadline)})
	histBuf := make([]byte, 8)
	binary.LittleEndian.PutUint32(histBuf[0:4], uint32(historyKind))
	binary.LittleEndian.PutUint32(histBuf[4:8], uint32(depth))
	pl = append(pl, wire.Parameter{ID: wire.PidHistory, Value: histBuf})
	return pl
}

type decodedQosCommon struct {
	durability   qos.DurabilityKind
	reliability  qos.ReliabilityKind
	maxBlocking  qos.Duration
	ownership    qos.OwnershipKind
	liveliness   qos.LivelinessKind
	lease        qos.Duration
	destOrder    qos.DestinationOrderKind
	deadline     qos.Duration
	historyKind  qos.HistoryKind
	historyDepth int
}

func decodeQosCommon(pl wire.ParameterList) decodedQosCommon {
	var d decodedQosCommon
	if v, ok := pl.Get(wire.PidDurability); ok {
		d.durability = qos.DurabilityKind(decodeUint32(v))
	}
	if v, ok := pl.Get(wire.PidReliability); ok && len(v) >= 12 {
		d.reliability = qos.ReliabilityKind(binary.LittleEndian.Uint32(v[0:4]))
		d.maxBlocking = qos.Duration{Sec: int32(binary.LittleEndian.Uint32(v[4:8])), Nanosec: binary.LittleEndian.Uint32(v[8:12])}
	}
	if v, ok := pl.Get(wire.PidOwnership); ok {
		d.ownership = qos.OwnershipKind(decodeUint32(v))
	}
	if v, ok := pl.Get(wire.PidLiveliness); ok && len(v) >= 12 {
		d.liveliness = qos.LivelinessKind(binary.LittleEndian.Uint32(v[0:4]))
		d.lease = qos.Duration{Sec: int32(binary.LittleEndian.Uint32(v[4:8])), Nanosec: binary.LittleEndian.Uint32(v[8:12])}
	}
	if v, ok := pl.Get(wire.PidDestinationOrder); ok {
		d.destOrder = qos.DestinationOrderKind(decodeUint32(v))
	}
	if v, ok := pl.Get(wire.PidDeadline); ok && len(v) >= 8 {
		d.deadline = decodeDuration(v)
	}
	if v, ok := pl.Get(wire.PidHistory); ok && len(v) >= 8 {
		d.historyKind = qos.HistoryKind(binary.LittleEndian.Uint32(v[0:4]))
		d.historyDepth = int(binary.LittleEndian.Uint32(v[4:8]))
	}
	return d
}

func (w SedpDiscoveredWriterData) ToParameterList() wire.ParameterList {
	var pl wire.ParameterList
	pl = append(pl, wire.Parameter{ID: wire.PidEndpointGuid, Value: guidBytes(w.EndpointGuid.Prefix, w.EndpointGuid.Entity)})
	pl = append(pl, wire.Parameter{ID: wire.PidGroupEntityId, Value: w.GroupEntityId[:]})
	pl = append(pl, wire.Parameter{ID: wire.PidTopicName, Value: []byte(w.TopicName)})
	pl = append(pl, wire.Parameter{ID: wire.PidTypeName, Value: []byte(w.TypeName)})
	for _, loc := range w.UnicastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidDefaultUnicastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	for _, loc := range w.MulticastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidDefaultMulticastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	return encodeQosCommon(pl, w.Qos.Durability.Kind, w.Qos.Reliability.Kind, w.Qos.Reliability.MaxBlockingTime, w.Qos.Ownership.Kind, w.Qos.Liveliness.Kind, w.Qos.Liveliness.LeaseDuration, w.Qos.DestinationOrder.Kind, w.Qos.Deadline.Period, w.Qos.History.Kind, w.Qos.History.Depth)
}

func (w SedpDiscoveredWriterData) Encode() []byte {
	buf := append([]byte{}, encapsulationPLCdrLE[:]...)
	return w.ToParameterList().Encode(buf, binary.LittleEndian)
}

func DecodeSedpDiscoveredWriterData(data []byte) (SedpDiscoveredWriterData, error) {
	if len(data) < 4 {
		return SedpDiscoveredWriterData{}, fmt.Errorf("discovery: SEDP writer payload too short")
	}
	pl, _, err := wire.DecodeParameterList(binary.LittleEndian, data[4:])
	if err != nil {
		return SedpDiscoveredWriterData{}, fmt.Errorf("discovery: SEDP writer parameter list: %w", err)
	}
	var w SedpDiscoveredWriterData
	if v, ok := pl.Get(wire.PidEndpointGuid); ok && len(v) >= 16 {
		copy(w.EndpointGuid.Prefix[:], v[:12])
		copy(w.EndpointGuid.Entity[:], v[12:16])
	}
	if v, ok := pl.Get(wire.PidGroupEntityId); ok && len(v) >= 4 {
		copy(w.GroupEntityId[:], v[:4])
	}
	if v, ok := pl.Get(wire.PidTopicName); ok {
		w.TopicName = string(v)
	}
	if v, ok := pl.Get(wire.PidTypeName); ok {
		w.TypeName = string(v)
	}
	for _, p := range pl {
		switch p.ID {
		case wire.PidDefaultUnicastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				w.UnicastLocators = append(w.UnicastLocators, loc)
			}
		case wire.PidDefaultMulticastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				w.MulticastLocators = append(w.MulticastLocators, loc)
			}
		}
	}
	c := decodeQosCommon(pl)
	w.Qos = qos.WriterQos{
		Durability:       qos.Durability{Kind: c.durability},
		Deadline:         qos.Deadline{Period: c.deadline},
		Ownership:        qos.Ownership{Kind: c.ownership},
		Liveliness:       qos.Liveliness{Kind: c.liveliness, LeaseDuration: c.lease},
		Reliability:      qos.Reliability{Kind: c.reliability, MaxBlockingTime: c.maxBlocking},
		DestinationOrder: qos.DestinationOrder{Kind: c.destOrder},
		History:          qos.History{Kind: c.historyKind, Depth: c.historyDepth},
	}
	return w, nil
}

func (r SedpDiscoveredReaderData) ToParameterList() wire.ParameterList {
	var pl wire.ParameterList
	pl = append(pl, wire.Parameter{ID: wire.PidEndpointGuid, Value: guidBytes(r.EndpointGuid.Prefix, r.EndpointGuid.Entity)})
	pl = append(pl, wire.Parameter{ID: wire.PidGroupEntityId, Value: r.GroupEntityId[:]})
	pl = append(pl, wire.Parameter{ID: wire.PidTopicName, Value: []byte(r.TopicName)})
	pl = append(pl, wire.Parameter{ID: wire.PidTypeName, Value: []byte(r.TypeName)})
	for _, loc := range r.UnicastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidDefaultUnicastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	for _, loc := range r.MulticastLocators {
		pl = append(pl, wire.Parameter{ID: wire.PidDefaultMulticastLocator, Value: wire.EncodeLocator(nil, binary.LittleEndian, loc)})
	}
	return encodeQosCommon(pl, r.Qos.Durability.Kind, r.Qos.Reliability.Kind, r.Qos.Reliability.MaxBlockingTime, r.Qos.Ownership.Kind, r.Qos.Liveliness.Kind, r.Qos.Liveliness.LeaseDuration, r.Qos.DestinationOrder.Kind, r.Qos.Deadline.Period, r.Qos.History.Kind, r.Qos.History.Depth)
}

func (r SedpDiscoveredReaderData) Encode() []byte {
	buf := append([]byte{}, encapsulationPLCdrLE[:]...)
	return r.ToParameterList().Encode(buf, binary.LittleEndian)
}

func DecodeSedpDiscoveredReaderData(data []byte) (SedpDiscoveredReaderData, error) {
	if len(data) < 4 {
		return SedpDiscoveredReaderData{}, fmt.Errorf("discovery: SEDP reader payload too short")
	}
	pl, _, err := wire.DecodeParameterList(binary.LittleEndian, data[4:])
	if err != nil {
		return SedpDiscoveredReaderData{}, fmt.Errorf("discovery: SEDP reader parameter list: %w", err)
	}
	var r SedpDiscoveredReaderData
	if v, ok := pl.Get(wire.PidEndpointGuid); ok && len(v) >= 16 {
		copy(r.EndpointGuid.Prefix[:], v[:12])
		copy(r.EndpointGuid.Entity[:], v[12:16])
	}
	if v, ok := pl.Get(wire.PidGroupEntityId); ok && len(v) >= 4 {
		copy(r.GroupEntityId[:], v[:4])
	}
	if v, ok := pl.Get(wire.PidTopicName); ok {
		r.TopicName = string(v)
	}
	if v, ok := pl.Get(wire.PidTypeName); ok {
		r.TypeName = string(v)
	}
	for _, p := range pl {
		switch p.ID {
		case wire.PidDefaultUnicastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				r.UnicastLocators = append(r.UnicastLocators, loc)
			}
		case wire.PidDefaultMulticastLocator:
			if loc, err := wire.DecodeLocator(binary.LittleEndian, p.Value); err == nil {
				r.MulticastLocators = append(r.MulticastLocators, loc)
			}
		}
	}
	c := decodeQosCommon(pl)
	r.Qos = qos.ReaderQos{
		Durability:       qos.Durability{Kind: c.durability},
		Deadline:         qos.Deadline{Period: c.deadline},
		Ownership:        qos.Ownership{Kind: c.ownership},
		Liveliness:       qos.Liveliness{Kind: c.liveliness, LeaseDuration: c.lease},
		Reliability:      qos.Reliability{Kind: c.reliability, MaxBlockingTime: c.maxBlocking},
		DestinationOrder: qos.DestinationOrder{Kind: c.destOrder},
		History:          qos.History{Kind: c.historyKind, Depth: c.historyDepth},
	}
	return r, nil
}

func (t SedpDiscoveredTopicData) Encode() []byte {
	var pl wire.ParameterList
	pl = append(pl, wire.Parameter{ID: wire.PidTopicName, Value: []byte(t.TopicName)})
	pl = append(pl, wire.Parameter{ID: wire.PidTypeName, Value: []byte(t.TypeName)})
	buf := append([]byte{}, encapsulationPLCdrLE[:]...)
	return pl.Encode(buf, binary.LittleEndian)
}

func DecodeSedpDiscoveredTopicData(data []byte) (SedpDiscoveredTopicData, error) {
	if len(data) < 4 {
		return SedpDiscoveredTopicData{}, fmt.Errorf("discovery: SEDP topic payload too short")
	}
	pl, _, err := wire.DecodeParameterList(binary.LittleEndian, data[4:])
	if err != nil {
		return SedpDiscoveredTopicData{}, fmt.Errorf("discovery: SEDP topic parameter list: %w", err)
	}
	var t SedpDiscoveredTopicData
	if v, ok := pl.Get(wire.PidTopicName); ok {
		t.TopicName = string(v)
	}
	if v, ok := pl.Get(wire.PidTypeName); ok {
		t.TypeName = string(v)
	}
	return t, nil
}
