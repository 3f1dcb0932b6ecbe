// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"
)

// Submessage kind codes.
const (
	SubmessageKindAckNack         byte = 0x06
	SubmessageKindHeartbeat       byte = 0x07
	SubmessageKindGap             byte = 0x08
	SubmessageKindInfoTimestamp   byte = 0x09
	SubmessageKindInfoSource      byte = 0x0C
	SubmessageKindInfoDestination byte = 0x0E
	SubmessageKindData            byte = 0x15
)

// Flag bit 0 on every submessage header selects little-endian (1) vs
// big-endian (0) encoding of the submessage body.
const flagEndianness byte = 0x01

// SubmessageHeader is the 4-byte header preceding every submessage body:
// 1-byte kind, 1-byte flags, 2-byte length.
type SubmessageHeader struct {
	Kind   byte
	Flags  byte
	Length uint16
}

func byteOrder(flags byte) binary.ByteOrder {
	if flags&flagEndianness != 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func encodeSubmessageHeader(buf []byte, kind, flags byte, length uint16) []byte {
	order := byteOrder(flags)
	buf = append(buf, kind, flags)
	tmp := make([]byte, 2)
	order.PutUint16(tmp, length)
	return append(buf, tmp...)
}

func decodeSubmessageHeader(data []byte) (SubmessageHeader, error) {
	if len(data) < 4 {
		return SubmessageHeader{}, fmt.Errorf("wire: short submessage header (%d bytes)", len(data))
	}
	kind, flags := data[0], data[1]
	order := byteOrder(flags)
	length := order.Uint16(data[2:4])
	return SubmessageHeader{Kind: kind, Flags: flags, Length: length}, nil
}

// pad4 returns the number of padding bytes needed to bring n up to the next
// multiple of 4.
func pad4(n int) int {
	if r := n % 4; r != 0 {
		return 4 - r
	}
	return 0
}

// Submessage is any of the seven required submessage bodies. Byte order is
// not part of a Submessage: EncodeSubmessage and Message.Encode take it as
// their littleEndian argument.
type Submessage interface {
	SubmessageKind() byte
}

// EncodeSubmessage appends the full wire encoding (header + body) of sub to
// buf, using little-endian body encoding if littleEndian is true.
func EncodeSubmessage(buf []byte, sub Submessage, littleEndian bool) []byte {
	var flags byte
	if littleEndian {
		flags = flagEndianness
	}
	order := byteOrder(flags)

	var body []byte
	switch s := sub.(type) {
	case DataSubmessage:
		body, flags = s.encodeBody(order, flags)
	case GapSubmessage:
		body = s.encodeBody(order)
	case HeartbeatSubmessage:
		body, flags = s.encodeBody(order, flags)
	case AckNackSubmessage:
		body, flags = s.encodeBody(order, flags)
	case InfoTimestampSubmessage:
		body, flags = s.encodeBody(order, flags)
	case InfoDestinationSubmessage:
		body = s.encodeBody(order)
	case InfoSourceSubmessage:
		body = s.encodeBody(order)
	default:
		panic(fmt.Sprintf("wire: unknown submessage type %T", sub))
	}

	buf = encodeSubmessageHeader(buf, sub.SubmessageKind(), flags, uint16(len(body)))
	buf = append(buf, body...)
	return buf
}

// DecodeSubmessages parses every submessage out of data (the bytes following
// the message header). Unknown submessage kinds or malformed bodies are
// skipped so the remainder of the message is still processed; this function
// returns the successfully decoded submessages plus a slice of non-fatal
// decode errors encountered for skipped submessages.
func DecodeSubmessages(data []byte) ([]Submessage, []error) {
	var subs []Submessage
	var errs []error
	for len(data) > 0 {
		hdr, err := decodeSubmessageHeader(data)
		if err != nil {
			errs = append(errs, err)
			return subs, errs
		}
		total := 4 + int(hdr.Length)
		if total > len(data) {
			errs = append(errs, fmt.Errorf("wire: submessage kind=0x%02x claims length %d beyond buffer", hdr.Kind, hdr.Length))
			return subs, errs
		}
		body := data[4:total]
		order := byteOrder(hdr.Flags)

		sub, decErr := decodeSubmessageBody(hdr, order, body)
		if decErr != nil {
			errs = append(errs, fmt.Errorf("wire: kind=0x%02x: %w", hdr.Kind, decErr))
		} else if sub != nil {
			subs = append(subs, sub)
		}
		data = data[total:]
	}
	return subs, errs
}

func decodeSubmessageBody(hdr SubmessageHeader, order binary.ByteOrder, body []byte) (Submessage, error) {
	switch hdr.Kind {
	case SubmessageKindData:
		return decodeDataBody(hdr.Flags, order, body)
	case SubmessageKindGap:
		return decodeGapBody(order, body)
	case SubmessageKindHeartbeat:
		return decodeHeartbeatBody(hdr.Flags, order, body)
	case SubmessageKindAckNack:
		return decodeAckNackBody(hdr.Flags, order, body)
	case SubmessageKindInfoTimestamp:
		return decodeInfoTimestampBody(hdr.Flags, order, body)
	case SubmessageKindInfoDestination:
		return decodeInfoDestinationBody(order, body)
	case SubmessageKindInfoSource:
		return decodeInfoSourceBody(order, body)
	default:
		// Unknown submessage kind: skipped, not an error (forward compatible).
		return nil, nil
	}
}
