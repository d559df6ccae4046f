package arp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ResolveTimeout bounds how long Resolve waits for a reply.
const ResolveTimeout = 3 * time.Second

// Resolve asks the network for the MAC address of ip with a single ARP request.
func Resolve(ctx context.Context, ipStr string, interfaceName string) (net.HardwareAddr, error) {
	targetIP := net.ParseIP(ipStr).To4()
	if targetIP == nil {
		return nil, fmt.Errorf("invalid IPv4 address: %s", ipStr)
	}

	iface, err := net.InterfaceByName(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get interface %s: %v", interfaceName, err)
	}
	srcIP, _, err := interfaceIPv4(iface)
	if err != nil {
		return nil, err
	}

	handle, err := pcap.OpenLive(interfaceName, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("failed to open handle: %v", err)
	}
	defer handle.Close()

	if err := handle.SetBPFFilter("arp"); err != nil {
		return nil, fmt.Errorf("could not set BPF filter: %v", err)
	}
	if err := sendRequest(handle, iface.HardwareAddr, srcIP, targetIP); err != nil {
		return nil, fmt.Errorf("failed to write packet: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ResolveTimeout)
	defer cancel()

	packets := gopacket.NewPacketSource(handle, handle.LinkType()).Packets()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no ARP reply from %s: %w", ipStr, ctx.Err())
		case packet, ok := <-packets:
			if !ok {
				return nil, fmt.Errorf("capture closed before ARP reply from %s", ipStr)
			}
			arpLayer := packet.Layer(layers.LayerTypeARP)
			if arpLayer == nil {
				continue
			}
			reply := arpLayer.(*layers.ARP)
			if reply.Operation == layers.ARPReply && net.IP(reply.SourceProtAddress).Equal(targetIP) {
				return append(net.HardwareAddr(nil), reply.SourceHwAddress...), nil
			}
		}
	}
}
