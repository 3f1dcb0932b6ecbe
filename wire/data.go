// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// DATA submessage flag bits, beyond the shared endianness bit.
const (
	flagInlineQos   byte = 0x02 // Q
	flagDataPresent byte = 0x04 // D
	flagKeyPresent  byte = 0x08 // K
)

// octetsToInlineQosFixed is the byte count of reader_id+writer_id+writer_sn,
// the fixed portion of the DATA body preceding any inline QoS.
const octetsToInlineQosFixed = 4 + 4 + 8

// DataSubmessage carries a single CacheChange's wire representation.
type DataSubmessage struct {
	ReaderId  guid.EntityId
	WriterId  guid.EntityId
	WriterSN  rtpstypes.SequenceNumber
	InlineQos ParameterList // only meaningful when InlineQosFlag is true

	InlineQosFlag bool
	DataFlag      bool // D: SerializedPayload carries serialized data
	KeyFlag       bool // K: SerializedPayload carries a serialized key

	SerializedPayload []byte
}

func (DataSubmessage) SubmessageKind() byte { return SubmessageKindData }

func (d DataSubmessage) encodeBody(order binary.ByteOrder, flags byte) ([]byte, byte) {
	if d.InlineQosFlag {
		flags |= flagInlineQos
	}
	if d.DataFlag {
		flags |= flagDataPresent
	}
	if d.KeyFlag {
		flags |= flagKeyPresent
	}

	buf := make([]byte, 0, 16+len(d.SerializedPayload)+8)
	extraFlags := make([]byte, 2)
	buf = append(buf, extraFlags...)

	octetsField := make([]byte, 2)
	order.PutUint16(octetsField, octetsToInlineQosFixed)
	buf = append(buf, octetsField...)

	buf = encodeEntityId(buf, order, d.ReaderId)
	buf = encodeEntityId(buf, order, d.WriterId)

	snBuf := make([]byte, 8)
	order.PutUint32(snBuf[0:4], uint32(d.WriterSN.High()))
	order.PutUint32(snBuf[4:8], d.WriterSN.Low())
	buf = append(buf, snBuf...)

	if d.InlineQosFlag {
		buf = d.InlineQos.Encode(buf, order)
	}
	if d.DataFlag || d.KeyFlag {
		buf = append(buf, d.SerializedPayload...)
		for i := 0; i < pad4(len(d.SerializedPayload)); i++ {
			buf = append(buf, 0)
		}
	}
	return buf, flags
}

func decodeDataBody(flags byte, order binary.ByteOrder, body []byte) (DataSubmessage, error) {
	if len(body) < 4+octetsToInlineQosFixed {
		return DataSubmessage{}, fmt.Errorf("wire: DATA body too short (%d bytes)", len(body))
	}
	var d DataSubmessage
	d.InlineQosFlag = flags&flagInlineQos != 0
	d.DataFlag = flags&flagDataPresent != 0
	d.KeyFlag = flags&flagKeyPresent != 0

	offset := 2 // skip extra_flags
	octetsToInline := int(order.Uint16(body[offset : offset+2]))
	offset += 2

	d.ReaderId = decodeEntityId(order, body[offset:offset+4])
	offset += 4
	d.WriterId = decodeEntityId(order, body[offset:offset+4])
	offset += 4

	high := int32(order.Uint32(body[offset : offset+4]))
	low := order.Uint32(body[offset+4 : offset+8])
	d.WriterSN = rtpstypes.SequenceNumberFromParts(high, low)
	offset += 8

	// octetsToInline is measured from right after the octets_to_inline_qos
	// field itself; anything beyond the fixed reader/writer/sn triple (rare,
	// vendor extensions) is skipped.
	fixedEnd := 4 + octetsToInlineQosFixed
	if inlineStart := 4 + octetsToInline; inlineStart > offset && inlineStart <= len(body) {
		offset = inlineStart
	} else if fixedEnd != offset {
		offset = fixedEnd
	}

	if d.InlineQosFlag {
		pl, consumed, err := DecodeParameterList(order, body[offset:])
		if err != nil {
			return DataSubmessage{}, fmt.Errorf("inline qos: %w", err)
		}
		d.InlineQos = pl
		offset += consumed
	}

	if d.DataFlag || d.KeyFlag {
		// The DATA submessage carries no explicit payload length; it runs to
		// the end of the submessage body, padded to 4 bytes. Callers
		// whose payload length isn't itself a multiple of 4 must carry their
		// own length inside the payload (e.g. via inline QoS or a length-
		// prefixed encoding) to strip the trailing pad on decode.
		d.SerializedPayload = append([]byte(nil), body[offset:]...)
	}
	return d, nil
}
