// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/rtpstypes"
)

// LocatorWireLength is the fixed size of a Locator on the wire: kind (4) +
// port (4) + address (16), RTPS 2.3 §9.4.2.11.
const LocatorWireLength = 4 + 4 + rtpstypes.LocatorAddressLength

// EncodeLocator appends loc's wire representation to buf.
func EncodeLocator(buf []byte, order binary.ByteOrder, loc rtpstypes.Locator) []byte {
	tmp := make([]byte, 8)
	order.PutUint32(tmp[0:4], uint32(loc.Kind))
	order.PutUint32(tmp[4:8], loc.Port)
	buf = append(buf, tmp...)
	return append(buf, loc.Address[:]...)
}

// DecodeLocator reads a Locator from the front of data.
func DecodeLocator(order binary.ByteOrder, data []byte) (rtpstypes.Locator, error) {
	if len(data) < LocatorWireLength {
		return rtpstypes.Locator{}, fmt.Errorf("wire: locator body too short (%d bytes)", len(data))
	}
	var loc rtpstypes.Locator
	loc.Kind = rtpstypes.LocatorKind(order.Uint32(data[0:4]))
	loc.Port = order.Uint32(data[4:8])
	copy(loc.Address[:], data[8:8+rtpstypes.LocatorAddressLength])
	return loc, nil
}
