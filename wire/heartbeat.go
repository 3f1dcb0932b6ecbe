// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// HEARTBEAT submessage flag bits.
const (
	flagHeartbeatFinal       byte = 0x02 // F
	flagHeartbeatLiveliness  byte = 0x04 // L
)

// HeartbeatSubmessage announces a writer's [first_sn, last_sn] range with a
// monotonically increasing count.
type HeartbeatSubmessage struct {
	ReaderId guid.EntityId
	WriterId guid.EntityId
	FirstSN  rtpstypes.SequenceNumber
	LastSN   rtpstypes.SequenceNumber
	Count    int32

	// FinalFlag true means the reader need not respond with an ACKNACK.
	FinalFlag       bool
	LivelinessFlag  bool
}

func (HeartbeatSubmessage) SubmessageKind() byte { return SubmessageKindHeartbeat }

func (h HeartbeatSubmessage) encodeBody(order binary.ByteOrder, flags byte) ([]byte, byte) {
	if h.FinalFlag {
		flags |= flagHeartbeatFinal
	}
	if h.LivelinessFlag {
		flags |= flagHeartbeatLiveliness
	}
	buf := make([]byte, 0, 28)
	buf = encodeEntityId(buf, order, h.ReaderId)
	buf = encodeEntityId(buf, order, h.WriterId)
	buf = appendSequenceNumber(buf, order, h.FirstSN)
	buf = appendSequenceNumber(buf, order, h.LastSN)
	tmp := make([]byte, 4)
	order.PutUint32(tmp, uint32(h.Count))
	buf = append(buf, tmp...)
	return buf, flags
}

func decodeHeartbeatBody(flags byte, order binary.ByteOrder, body []byte) (HeartbeatSubmessage, error) {
	if len(body) < 28 {
		return HeartbeatSubmessage{}, fmt.Errorf("wire: HEARTBEAT body too short (%d bytes)", len(body))
	}
	var h HeartbeatSubmessage
	h.FinalFlag = flags&flagHeartbeatFinal != 0
	h.LivelinessFlag = flags&flagHeartbeatLiveliness != 0

	offset := 0
	h.ReaderId = decodeEntityId(order, body[offset:offset+4])
	offset += 4
	h.WriterId = decodeEntityId(order, body[offset:offset+4])
	offset += 4
	sn, n := readSequenceNumber(order, body[offset:])
	h.FirstSN = sn
	offset += n
	sn, n = readSequenceNumber(order, body[offset:])
	h.LastSN = sn
	offset += n
	h.Count = int32(order.Uint32(body[offset : offset+4]))
	return h, nil
}
