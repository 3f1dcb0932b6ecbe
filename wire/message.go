// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

// Message is a full RTPS message: header plus an ordered sequence of
// submessages.
type Message struct {
	Header      MessageHeader
	Submessages []Submessage
}

// Encode renders m to wire bytes. All submessages in a message share the
// little-endian/big-endian choice (mirroring every real RTPS implementation,
// which always emits little-endian on little-endian hosts).
func (m Message) Encode(littleEndian bool) []byte {
	buf := EncodeHeader(nil, m.Header)
	for _, sub := range m.Submessages {
		buf = EncodeSubmessage(buf, sub, littleEndian)
	}
	return buf
}

// DecodeMessage parses a full RTPS message from data. A malformed header
// drops the whole datagram (returns an error); malformed or unknown
// submessages are individually skipped and reported back via the returned
// error slice without aborting the rest of the message.
func DecodeMessage(data []byte) (Message, []error, error) {
	header, rest, err := DecodeHeader(data)
	if err != nil {
		return Message{}, nil, err
	}
	subs, errs := DecodeSubmessages(rest)
	return Message{Header: header, Submessages: subs}, errs, nil
}
