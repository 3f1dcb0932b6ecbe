// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// ACKNACK submessage flag bits.
const flagAckNackFinal byte = 0x02 // F: response not strictly required

// AckNackSubmessage acknowledges a set of sequence numbers and requests
// retransmission of any gaps, carrying a monotonically increasing count used
// for duplicate suppression.
type AckNackSubmessage struct {
	ReaderId      guid.EntityId
	WriterId      guid.EntityId
	ReaderSNState rtpstypes.SequenceNumberSet
	Count         int32
	FinalFlag     bool
}

func (AckNackSubmessage) SubmessageKind() byte { return SubmessageKindAckNack }

func (a AckNackSubmessage) encodeBody(order binary.ByteOrder, flags byte) ([]byte, byte) {
	if a.FinalFlag {
		flags |= flagAckNackFinal
	}
	buf := make([]byte, 0, 32)
	buf = encodeEntityId(buf, order, a.ReaderId)
	buf = encodeEntityId(buf, order, a.WriterId)
	buf = appendSequenceNumberSet(buf, order, a.ReaderSNState)
	tmp := make([]byte, 4)
	order.PutUint32(tmp, uint32(a.Count))
	buf = append(buf, tmp...)
	return buf, flags
}

func decodeAckNackBody(flags byte, order binary.ByteOrder, body []byte) (AckNackSubmessage, error) {
	if len(body) < 8+12+4 {
		return AckNackSubmessage{}, fmt.Errorf("wire: ACKNACK body too short (%d bytes)", len(body))
	}
	var a AckNackSubmessage
	a.FinalFlag = flags&flagAckNackFinal != 0
	offset := 0
	a.ReaderId = decodeEntityId(order, body[offset:offset+4])
	offset += 4
	a.WriterId = decodeEntityId(order, body[offset:offset+4])
	offset += 4

	set, n, err := readSequenceNumberSet(order, body[offset:])
	if err != nil {
		return AckNackSubmessage{}, err
	}
	a.ReaderSNState = set
	offset += n

	if offset+4 > len(body) {
		return AckNackSubmessage{}, fmt.Errorf("wire: ACKNACK missing count field")
	}
	a.Count = int32(order.Uint32(body[offset : offset+4]))
	return a, nil
}
