// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnicastSendReceiveRoundTrip(t *testing.T) {
	a, err := NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)
	defer a.Close()

	b, err := NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Send(b.LocalLocator(), []byte("hello")))

	buf := make([]byte, 64)
	b.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, src, err := b.Receive(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
	assert.Equal(t, a.LocalLocator().Port, src.Port)
}

func TestLocalLocatorReflectsBoundPort(t *testing.T) {
	tr, err := NewUnicastUDPTransport(net.IPv4(127, 0, 0, 1), 0)
	require.NoError(t, err)
	defer tr.Close()

	loc := tr.LocalLocator()
	assert.NotZero(t, loc.Port)
	addr, err := loc.UDPAddr()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", addr.IP.String())
}
