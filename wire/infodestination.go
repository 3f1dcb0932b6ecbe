// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/go-dds/rtps/guid"
)

// InfoDestinationSubmessage tells a receiver which participant GuidPrefix the
// following submessages are destined for (RTPS 2.3 §9.4.5.8), used to
// disambiguate when multiple participants share one transport endpoint.
type InfoDestinationSubmessage struct {
	GuidPrefix guid.GuidPrefix
}

func (InfoDestinationSubmessage) SubmessageKind() byte { return SubmessageKindInfoDestination }

func (i InfoDestinationSubmessage) encodeBody(order binary.ByteOrder) []byte {
	return append([]byte(nil), i.GuidPrefix[:]...)
}

func decodeInfoDestinationBody(order binary.ByteOrder, body []byte) (InfoDestinationSubmessage, error) {
	if len(body) < guid.GuidPrefixLength {
		return InfoDestinationSubmessage{}, fmt.Errorf("wire: INFO_DESTINATION body too short (%d bytes)", len(body))
	}
	var i InfoDestinationSubmessage
	copy(i.GuidPrefix[:], body[:guid.GuidPrefixLength])
	return i, nil
}
