package wol

import (
	"fmt"
	"net"

	"github.com/go-logr/logr"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// EthernetTypeWakeOnLAN is the EtherType reserved for raw Wake-on-LAN frames.
const EthernetTypeWakeOnLAN layers.EthernetType = 0x0842

var broadcastMAC = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// EthernetTransmitter sends the magic packet as a raw Ethernet broadcast frame
// on one interface. Port and destination are not used on this path.
type EthernetTransmitter struct {
	log           logr.Logger
	interfaceName string
}

func NewEthernetTransmitter(log logr.Logger, interfaceName string) *EthernetTransmitter {
	return &EthernetTransmitter{
		log:           log.WithName("wol-ether"),
		interfaceName: interfaceName,
	}
}

// Wake writes a single 0x0842 frame carrying the magic packet for mac.
func (t *EthernetTransmitter) Wake(mac string, port int, destination string) error {
	hw, err := ParseMAC(mac)
	if err != nil {
		return err
	}

	iface, err := net.InterfaceByName(t.interfaceName)
	if err != nil {
		return fmt.Errorf("%w: failed to get interface %s: %v", ErrSend, t.interfaceName, err)
	}

	frame, err := EthernetFrame(iface.HardwareAddr, hw)
	if err != nil {
		return err
	}

	handle, err := pcap.OpenLive(t.interfaceName, 65536, false, pcap.BlockForever)
	if err != nil {
		return fmt.Errorf("%w: failed to open handle: %v", ErrSend, err)
	}
	defer handle.Close()

	if err := handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("%w: failed to write frame: %v", ErrSend, err)
	}

	t.log.V(1).Info("Sent magic frame", "mac", hw.String(), "interface", t.interfaceName)
	return nil
}

// EthernetFrame serializes a broadcast frame from src carrying the magic packet for target.
func EthernetFrame(src, target net.HardwareAddr) ([]byte, error) {
	payload, err := MagicPacket(target)
	if err != nil {
		return nil, err
	}

	eth := layers.Ethernet{
		SrcMAC:       src,
		DstMAC:       broadcastMAC,
		EthernetType: EthernetTypeWakeOnLAN,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, &eth, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("failed to serialize frame: %v", err)
	}
	return buf.Bytes(), nil
}
