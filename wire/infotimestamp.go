// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"
	"time"
)

// INFO_TIMESTAMP flag bits.
const flagInfoTimestampInvalidate byte = 0x02 // I: timestamp absent

// InfoTimestampSubmessage carries the source timestamp applied to subsequent
// submessages in the message, RTPS 2.3 §9.4.5.9.
type InfoTimestampSubmessage struct {
	Timestamp time.Time
	// InvalidateFlag true means no timestamp applies (body is empty).
	InvalidateFlag bool
}

func (InfoTimestampSubmessage) SubmessageKind() byte { return SubmessageKindInfoTimestamp }

// encodeRTPSTime encodes t as an RTPS Time_t: seconds and 2^-32 fractions
// since 1970-01-01, the Unix epoch.
func encodeRTPSTime(order binary.ByteOrder, t time.Time) []byte {
	sec := uint32(t.Unix())
	frac := uint32((uint64(t.Nanosecond()) << 32) / 1e9)
	buf := make([]byte, 8)
	order.PutUint32(buf[0:4], sec)
	order.PutUint32(buf[4:8], frac)
	return buf
}

func decodeRTPSTime(order binary.ByteOrder, data []byte) time.Time {
	sec := order.Uint32(data[0:4])
	frac := order.Uint32(data[4:8])
	nsec := (uint64(frac) * 1e9) >> 32
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

func (i InfoTimestampSubmessage) encodeBody(order binary.ByteOrder, flags byte) ([]byte, byte) {
	if i.InvalidateFlag {
		flags |= flagInfoTimestampInvalidate
		return nil, flags
	}
	return encodeRTPSTime(order, i.Timestamp), flags
}

func decodeInfoTimestampBody(flags byte, order binary.ByteOrder, body []byte) (InfoTimestampSubmessage, error) {
	var i InfoTimestampSubmessage
	if flags&flagInfoTimestampInvalidate != 0 {
		i.InvalidateFlag = true
		return i, nil
	}
	if len(body) < 8 {
		return InfoTimestampSubmessage{}, fmt.Errorf("wire: INFO_TIMESTAMP body too short (%d bytes)", len(body))
	}
	i.Timestamp = decodeRTPSTime(order, body)
	return i, nil
}
