package arp

import (
	"context"
	"net"
)

// Entry is one IP to MAC mapping taken from the ARP table.
type Entry struct {
	IP     net.IP
	MAC    net.HardwareAddr
	Device string // Interface the entry was seen on, when known
}

// Source produces a snapshot of ARP entries.
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
}
