// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

// Package transport implements the RTPS UDP transport: unicast sockets for
// metatraffic/user-data and multicast sockets for SPDP/SEDP discovery.
package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-dds/rtps/rtpstypes"
	"golang.org/x/net/ipv4"
)

// Transport is the send/receive contract a Stateful Writer/Reader's I/O loop
// is driven through; RTPS core code depends on this interface, never on
// *UDPTransport directly, so tests can substitute an in-memory transport.
type Transport interface {
	LocalLocator() rtpstypes.Locator
	Send(dst rtpstypes.Locator, data []byte) error
	Receive(buf []byte) (n int, src rtpstypes.Locator, err error)
	Close() error
}

// UDPTransport is a single UDP socket, unicast or multicast, bound to one
// well-known or ephemeral RTPS port. Grounded on the teacher's
// media.MediaSession socket pair (net.ListenUDP, ReadFrom/WriteTo with a
// caller-owned buffer) generalized from a fixed RTP/RTCP port pair to a
// single arbitrary RTPS port, with multicast group join modeled on the
// mDNS responder's ipv4.PacketConn wrapping.
type UDPTransport struct {
	mu        sync.Mutex
	conn      *net.UDPConn
	laddr     *net.UDPAddr
	multicast bool
	log       zerolog.Logger
}

// NewUnicastUDPTransport binds a unicast socket to ip:port. port == 0 picks
// an ephemeral port, as with the teacher's RTP_PORT_START/END fallback.
func NewUnicastUDPTransport(ip net.IP, port int) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: ip, Port: port})
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp %s:%d: %w", ip, port, err)
	}
	return &UDPTransport{
		conn:  conn,
		laddr: conn.LocalAddr().(*net.UDPAddr),
		log:   log.With().Str("component", "transport").Str("laddr", conn.LocalAddr().String()).Logger(),
	}, nil
}

// NewMulticastUDPTransport binds to group:port and joins the multicast
// group on every usable interface, the same ListenMulticastUDP pattern the
// mDNS-style discovery reference wraps in ipv4.PacketConn.
func NewMulticastUDPTransport(group net.IP, port int) (*UDPTransport, error) {
	addr := &net.UDPAddr{IP: group, Port: port}
	conn, err := net.ListenMulticastUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen multicast udp %s:%d: %w", group, port, err)
	}

	pconn := ipv4.NewPacketConn(conn)
	ifaces, ierr := net.Interfaces()
	if ierr == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagMulticast == 0 || iface.Flags&net.FlagUp == 0 {
				continue
			}
			_ = pconn.JoinGroup(&iface, &net.UDPAddr{IP: group})
		}
	}

	return &UDPTransport{
		conn:      conn,
		laddr:     &net.UDPAddr{IP: group, Port: port},
		multicast: true,
		log:       log.With().Str("component", "transport").Str("group", group.String()).Int("port", port).Logger(),
	}, nil
}

func (t *UDPTransport) LocalLocator() rtpstypes.Locator {
	if ip4 := t.laddr.IP.To4(); ip4 != nil {
		return rtpstypes.NewUDPv4Locator(ip4, uint16(t.laddr.Port))
	}
	return rtpstypes.NewUDPv4Locator(t.laddr.IP, uint16(t.laddr.Port))
}

// Send writes data to dst, which must be a UDPv4 or UDPv6 locator.
func (t *UDPTransport) Send(dst rtpstypes.Locator, data []byte) error {
	addr, err := dst.UDPAddr()
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if _, err := t.conn.WriteToUDP(data, addr); err != nil {
		t.log.Debug().Str("dst", addr.String()).Err(err).Msg("send failed")
		return err
	}
	return nil
}

// Receive reads one datagram into buf and reports its sender as a Locator.
func (t *UDPTransport) Receive(buf []byte) (int, rtpstypes.Locator, error) {
	n, from, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, rtpstypes.LocatorInvalid, err
	}
	src := rtpstypes.LocatorInvalid
	if ip4 := from.IP.To4(); ip4 != nil {
		src = rtpstypes.NewUDPv4Locator(ip4, uint16(from.Port))
	}
	return n, src, nil
}

func (t *UDPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.Close()
}
