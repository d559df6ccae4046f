package arp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
)

// DefaultCachePath is where Linux exposes the kernel neighbour table.
const DefaultCachePath = "/proc/net/arp"

// flagComplete is ATF_COM, set on resolved entries.
const flagComplete = 0x2

// CacheSource reads entries from a /proc/net/arp formatted file.
type CacheSource struct {
	Path string
}

func (c CacheSource) Entries(ctx context.Context) ([]Entry, error) {
	path := c.Path
	if path == "" {
		path = DefaultCachePath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ARP cache: %w", err)
	}
	defer f.Close()
	return ParseCache(f)
}

// ParseCache parses the /proc/net/arp table. Incomplete entries and
// all-zero hardware addresses are skipped. The result is sorted by IP.
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         00:11:22:33:44:55     *        eth0
func ParseCache(r io.Reader) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		ip := net.ParseIP(fields[0]).To4()
		if ip == nil {
			continue
		}
		flags, err := strconv.ParseUint(fields[2], 0, 32)
		if err != nil || flags&flagComplete == 0 {
			continue
		}
		mac, err := net.ParseMAC(fields[3])
		if err != nil || len(mac) != 6 || isZero(mac) {
			continue
		}
		if seen[ip.String()] {
			continue
		}
		seen[ip.String()] = true

		e := Entry{IP: ip, MAC: mac}
		if len(fields) >= 6 {
			e.Device = fields[5]
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ARP cache: %w", err)
	}

	sortByIP(entries)
	return entries, nil
}

func isZero(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}

func sortByIP(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].IP, entries[j].IP) < 0
	})
}
