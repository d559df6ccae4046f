// Package wol builds Wake-on-LAN magic packets and sends them.
package wol

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
)

const (
	headerLen = 6
	macLen    = 6
	macRepeat = 16

	// PacketLen is the size of a magic packet payload.
	PacketLen = headerLen + macLen*macRepeat
)

var (
	ErrInvalidMacAddress = errors.New("invalid MAC address")
	ErrInvalidPort       = errors.New("invalid port")
	ErrSend              = errors.New("failed to send magic packet")
)

var separators = strings.NewReplacer(":", "", "-", "")

// ParseMAC accepts twelve hex digits with colon, dash or no separators.
func ParseMAC(s string) (net.HardwareAddr, error) {
	digits := separators.Replace(strings.TrimSpace(s))
	if len(digits) != 2*macLen {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMacAddress, s)
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMacAddress, s)
	}
	return net.HardwareAddr(raw), nil
}

// NormalizeMAC returns the canonical AA:BB:CC:DD:EE:FF form.
func NormalizeMAC(s string) (string, error) {
	hw, err := ParseMAC(s)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hw.String()), nil
}

// MagicPacket returns six 0xFF bytes followed by mac repeated sixteen times.
func MagicPacket(mac net.HardwareAddr) ([]byte, error) {
	if len(mac) != macLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidMacAddress, len(mac))
	}
	buf := make([]byte, 0, PacketLen)
	buf = append(buf, bytes.Repeat([]byte{0xff}, headerLen)...)
	buf = append(buf, bytes.Repeat(mac, macRepeat)...)
	return buf, nil
}

// ValidPort reports whether port is a usable UDP destination port.
func ValidPort(port int) bool {
	return port >= 1 && port <= 65535
}
