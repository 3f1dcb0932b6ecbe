// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
)

// InfoSourceSubmessage overrides the source GuidPrefix, protocol version and
// vendor id for subsequent submessages (RTPS 2.3 §9.4.5.7); used by relays
// that forward submessages on behalf of another participant.
type InfoSourceSubmessage struct {
	ProtocolVersion ProtocolVersion
	VendorId        VendorId
	GuidPrefix      guid.GuidPrefix
}

func (InfoSourceSubmessage) SubmessageKind() byte { return SubmessageKindInfoSource }

func (i InfoSourceSubmessage) encodeBody(order binary.ByteOrder) []byte {
	buf := make([]byte, 0, 4+2+2+guid.GuidPrefixLength)
	buf = append(buf, 0, 0, 0, 0) // unused (RTPS 2.3 §9.4.5.7)
	buf = append(buf, i.ProtocolVersion.Major, i.ProtocolVersion.Minor)
	buf = append(buf, i.VendorId[:]...)
	buf = append(buf, i.GuidPrefix[:]...)
	return buf
}

func decodeInfoSourceBody(order binary.ByteOrder, body []byte) (InfoSourceSubmessage, error) {
	const fixedLen = 4 + 2 + 2 + guid.GuidPrefixLength
	if len(body) < fixedLen {
		return InfoSourceSubmessage{}, fmt.Errorf("wire: INFO_SOURCE body too short (%d bytes)", len(body))
	}
	var i InfoSourceSubmessage
	i.ProtocolVersion = ProtocolVersion{Major: body[4], Minor: body[5]}
	i.VendorId = VendorId{body[6], body[7]}
	copy(i.GuidPrefix[:], body[8:8+guid.GuidPrefixLength])
	return i, nil
}
