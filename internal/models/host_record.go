package models

// Well-known Wake-on-LAN UDP ports and the default destination.
const (
	EchoPort         = 7
	DefaultPort      = 9
	BroadcastAddress = "255.255.255.255"
)

// HostRecord describes one machine that can be woken up.
type HostRecord struct {
	Selected    bool   `json:"selected" yaml:"selected" db:"selected"`
	Name        string `json:"name" yaml:"name" db:"name"`
	MACAddress  string `json:"mac_address" yaml:"mac_address" db:"mac_address" validate:"required,wolmac"`
	Port        int    `json:"port" yaml:"port" db:"port" validate:"min=1,max=65535"`
	Destination string `json:"destination" yaml:"destination" db:"destination" validate:"required,ip4_addr|hostname_rfc1123"`
}

// NewHostRecord returns an unselected record pointing at the broadcast address.
func NewHostRecord(name, mac string) HostRecord {
	return HostRecord{
		Name:        name,
		MACAddress:  mac,
		Port:        DefaultPort,
		Destination: BroadcastAddress,
	}
}
