package arp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ScanConfig controls the active ARP sweep.
type ScanConfig struct {
	// RateLimit is the delay between ARP requests. Defaults to 50µs if unset or <= 0.
	RateLimit time.Duration
	// IdleWait is how long to wait for late replies after the last probe.
	// Defaults to 500ms if unset or <= 0.
	IdleWait time.Duration
	// MaxHosts caps how many addresses are probed in large subnets.
	// Zero or negative disables the cap; positive values below 512 are raised to 512.
	MaxHosts int
}

func applyDefaults(cfg ScanConfig) ScanConfig {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 50 * time.Microsecond
	}
	if cfg.IdleWait <= 0 {
		cfg.IdleWait = 500 * time.Millisecond
	}
	if cfg.MaxHosts <= 0 {
		cfg.MaxHosts = -1
	} else if cfg.MaxHosts < 512 {
		cfg.MaxHosts = 512
	}
	return cfg
}

// ScanSource sweeps the IPv4 subnet of an interface with ARP requests and
// reports every host that answered. An empty Interface picks the one facing
// the default gateway.
type ScanSource struct {
	Log       logr.Logger
	Interface string
	Config    ScanConfig
}

func (s ScanSource) Entries(ctx context.Context) ([]Entry, error) {
	name := s.Interface
	if name == "" {
		var err error
		if name, err = DefaultInterface(s.Log); err != nil {
			return nil, err
		}
	}
	return Scan(ctx, s.Log, name, s.Config)
}

// Scan performs an ARP sweep on the named interface.
func Scan(ctx context.Context, log logr.Logger, interfaceName string, cfg ScanConfig) ([]Entry, error) {
	config := applyDefaults(cfg)
	log = log.WithName("arp-scan").WithValues("interface", interfaceName)

	iface, err := net.InterfaceByName(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("could not get interface: %v", err)
	}
	localIP, localNet, err := interfaceIPv4(iface)
	if err != nil {
		return nil, err
	}

	handle, err := pcap.OpenLive(interfaceName, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("could not open handle: %v", err)
	}
	defer handle.Close()

	if err := handle.SetBPFFilter("arp"); err != nil {
		return nil, fmt.Errorf("could not set BPF filter: %v", err)
	}

	discovered := make(map[string]Entry)
	var mu sync.Mutex
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		in := gopacket.NewPacketSource(handle, layers.LayerTypeEthernet).Packets()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case packet, ok := <-in:
				if !ok {
					return
				}
				arpLayer := packet.Layer(layers.LayerTypeARP)
				if arpLayer == nil {
					continue
				}
				reply := arpLayer.(*layers.ARP)
				if reply.Operation != layers.ARPReply {
					continue
				}
				ip := net.IP(reply.SourceProtAddress).To4()
				if ip == nil || !localNet.Contains(ip) || ip.Equal(localIP) {
					continue
				}

				mu.Lock()
				if _, exists := discovered[ip.String()]; !exists {
					discovered[ip.String()] = Entry{
						IP:     ip,
						MAC:    append(net.HardwareAddr(nil), reply.SourceHwAddress...),
						Device: interfaceName,
					}
				}
				mu.Unlock()
			}
		}
	}()

	network, broadcast := subnetBounds(localIP, localNet.Mask)

	ticker := time.NewTicker(config.RateLimit)
	defer ticker.Stop()

	scanned := 0
	current := make(net.IP, len(network))
	copy(current, network)
	for inc(current); localNet.Contains(current) && !current.Equal(broadcast); inc(current) {
		if config.MaxHosts > 0 && scanned >= config.MaxHosts {
			log.Info("Reached scan cap", "max_hosts", config.MaxHosts)
			break
		}

		select {
		case <-ctx.Done():
			close(done)
			wg.Wait()
			return nil, ctx.Err()
		case <-ticker.C:
		}

		if current.Equal(localIP) {
			continue
		}
		if err := sendRequest(handle, iface.HardwareAddr, localIP, current); err != nil {
			log.V(1).Info("Failed to send ARP request", "ip", current.String(), "error", err.Error())
			continue
		}
		scanned++
	}

	wait := time.NewTimer(config.IdleWait)
	defer wait.Stop()
	select {
	case <-ctx.Done():
	case <-wait.C:
	}
	close(done)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	result := make([]Entry, 0, len(discovered))
	for _, e := range discovered {
		result = append(result, e)
	}
	sortByIP(result)

	log.Info("ARP scan complete", "probed", scanned, "found", len(result))
	return result, nil
}

func interfaceIPv4(iface *net.Interface) (net.IP, *net.IPNet, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, nil, fmt.Errorf("could not get interface addresses: %v", err)
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				return ip4, ipnet, nil
			}
		}
	}
	return nil, nil, errors.New("no IPv4 address found on interface")
}

// subnetBounds returns the network and broadcast addresses of ip/mask as 4-byte IPs.
func subnetBounds(ip net.IP, mask net.IPMask) (net.IP, net.IP) {
	network := ip.To4().Mask(mask)
	broadcast := make(net.IP, len(network))
	offset := len(mask) - len(network)
	for i := range network {
		broadcast[i] = network[i] | ^mask[offset+i]
	}
	return network, broadcast
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

func sendRequest(handle *pcap.Handle, srcMAC net.HardwareAddr, srcIP, dstIP net.IP) error {
	eth := layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(srcMAC),
		SourceProtAddress: []byte(srcIP.To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(dstIP.To4()),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &arp); err != nil {
		return err
	}
	return handle.WritePacketData(buf.Bytes())
}
