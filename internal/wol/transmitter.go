package wol

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/go-logr/logr"
)

type listenFunc func(ctx context.Context, network, address string) (net.PacketConn, error)

// Transmitter sends magic packets over UDP. It keeps no state between calls
// and is safe for concurrent use.
type Transmitter struct {
	log    logr.Logger
	listen listenFunc
}

// NewTransmitter returns a Transmitter whose sockets have SO_BROADCAST set.
func NewTransmitter(log logr.Logger) *Transmitter {
	lc := net.ListenConfig{Control: enableBroadcast}
	return &Transmitter{
		log:    log.WithName("wol"),
		listen: lc.ListenPacket,
	}
}

// Wake sends one magic packet for mac to destination:port.
// A nil error only means the local stack accepted the datagram.
func (t *Transmitter) Wake(mac string, port int, destination string) error {
	hw, err := ParseMAC(mac)
	if err != nil {
		return err
	}
	payload, err := MagicPacket(hw)
	if err != nil {
		return err
	}
	if !ValidPort(port) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	raddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(destination, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %v", ErrSend, destination, err)
	}

	conn, err := t.listen(context.Background(), "udp4", ":0")
	if err != nil {
		return fmt.Errorf("%w: opening socket: %v", ErrSend, err)
	}
	defer conn.Close()

	n, err := conn.WriteTo(payload, raddr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	if n != len(payload) {
		return fmt.Errorf("%w: short write (%d of %d bytes)", ErrSend, n, len(payload))
	}

	t.log.V(1).Info("Sent magic packet", "mac", hw.String(), "to", raddr.String())
	return nil
}
