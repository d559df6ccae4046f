package arp

import (
	"fmt"
	"net"

	"github.com/go-logr/logr"
	"github.com/jackpal/gateway"
)

// DefaultInterface returns the name of the interface whose subnet contains
// the default gateway.
func DefaultInterface(log logr.Logger) (string, error) {
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		return "", fmt.Errorf("finding network gateway: %w", err)
	}
	log.V(1).Info("Discovered gateway", "ip", gw.String())

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("listing interfaces: %w", err)
	}
	name, ok := interfaceContaining(ifaces, gw, log)
	if !ok {
		return "", fmt.Errorf("no interface on the same network as gateway %v", gw)
	}
	return name, nil
}

func interfaceContaining(ifaces []net.Interface, ip net.IP, log logr.Logger) (string, bool) {
	for _, i := range ifaces {
		addrs, err := i.Addrs()
		if err != nil {
			log.V(1).Info("Skipping interface", "interface", i.Name, "error", err.Error())
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ipnet.Contains(ip) {
				log.V(1).Info("Selected interface", "interface", i.Name, "addr", ipnet.String())
				return i.Name, true
			}
		}
	}
	return "", false
}
