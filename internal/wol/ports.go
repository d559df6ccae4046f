package wol

import "strconv"

var wakePorts = map[int]string{
	0: "reserved",
	7: "echo",
	9: "discard",
}

// PortName returns the conventional name of a Wake-on-LAN port, or the number as a string.
func PortName(port int) string {
	if name, ok := wakePorts[port]; ok {
		return name
	}
	return strconv.Itoa(port)
}
