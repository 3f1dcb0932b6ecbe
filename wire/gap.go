// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// GapSubmessage informs a reader that a range of sequence numbers will never
// be received and should be marked irrelevant.
type GapSubmessage struct {
	ReaderId guid.EntityId
	WriterId guid.EntityId
	GapStart rtpstypes.SequenceNumber
	GapList  rtpstypes.SequenceNumberSet
}

func (GapSubmessage) SubmessageKind() byte { return SubmessageKindGap }

func (g GapSubmessage) encodeBody(order binary.ByteOrder) []byte {
	buf := make([]byte, 0, 32)
	buf = encodeEntityId(buf, order, g.ReaderId)
	buf = encodeEntityId(buf, order, g.WriterId)
	buf = appendSequenceNumber(buf, order, g.GapStart)
	buf = appendSequenceNumberSet(buf, order, g.GapList)
	return buf
}

func decodeGapBody(order binary.ByteOrder, body []byte) (GapSubmessage, error) {
	if len(body) < 8+8 {
		return GapSubmessage{}, fmt.Errorf("wire: GAP body too short (%d bytes)", len(body))
	}
	var g GapSubmessage
	offset := 0
	g.ReaderId = decodeEntityId(order, body[offset:offset+4])
	offset += 4
	g.WriterId = decodeEntityId(order, body[offset:offset+4])
	offset += 4

	sn, n := readSequenceNumber(order, body[offset:])
	g.GapStart = sn
	offset += n

	set, _, err := readSequenceNumberSet(order, body[offset:])
	if err != nil {
		return GapSubmessage{}, err
	}
	g.GapList = set
	return g, nil
}

func appendSequenceNumber(buf []byte, order binary.ByteOrder, sn rtpstypes.SequenceNumber) []byte {
	tmp := make([]byte, 8)
	order.PutUint32(tmp[0:4], uint32(sn.High()))
	order.PutUint32(tmp[4:8], sn.Low())
	return append(buf, tmp...)
}

func readSequenceNumber(order binary.ByteOrder, data []byte) (rtpstypes.SequenceNumber, int) {
	high := int32(order.Uint32(data[0:4]))
	low := order.Uint32(data[4:8])
	return rtpstypes.SequenceNumberFromParts(high, low), 8
}

// appendSequenceNumberSet appends the wire encoding of a SequenceNumberSet:
// base (8 bytes) + numBits (4 bytes) + ceil(numBits/32) bitmap words
// (RTPS 2.3 §9.4.2.6).
func appendSequenceNumberSet(buf []byte, order binary.ByteOrder, set rtpstypes.SequenceNumberSet) []byte {
	buf = appendSequenceNumber(buf, order, set.Base)
	tmp := make([]byte, 4)
	order.PutUint32(tmp, set.NumBits)
	buf = append(buf, tmp...)
	for _, w := range set.Bitmap {
		order.PutUint32(tmp, w)
		buf = append(buf, tmp...)
	}
	return buf
}

func readSequenceNumberSet(order binary.ByteOrder, data []byte) (rtpstypes.SequenceNumberSet, int, error) {
	if len(data) < 12 {
		return rtpstypes.SequenceNumberSet{}, 0, fmt.Errorf("wire: truncated sequence number set")
	}
	base, n := readSequenceNumber(order, data)
	numBits := order.Uint32(data[n : n+4])
	offset := n + 4
	words := int((numBits + 31) / 32)
	if offset+words*4 > len(data) {
		return rtpstypes.SequenceNumberSet{}, 0, fmt.Errorf("wire: sequence number set bitmap truncated")
	}
	bitmap := make([]uint32, words)
	for i := 0; i < words; i++ {
		bitmap[i] = order.Uint32(data[offset+i*4 : offset+i*4+4])
	}
	offset += words * 4
	return rtpstypes.SequenceNumberSet{Base: base, NumBits: numBits, Bitmap: bitmap}, offset, nil
}
