package rtnl

import (
	"net"
)

// NeighEntry is one flattened neighbor (ARP/NDP) table entry, resolving
// the raw NeighMessage's IfIndex into a *net.Interface the way callers
// generally want it.
type NeighEntry struct {
	IP        net.IP
	HwAddr    net.HardwareAddr
	State     uint16
	Interface *net.Interface
}

// Neighbours lists neighbor table entries, optionally filtered by
// destination address and/or interface index (zero values match
// anything).
func (c *Conn) Neighbours(ip net.IP, ifindex int) ([]NeighEntry, error) {
	msgs, err := c.Conn.Neigh.List()
	if err != nil {
		return nil, err
	}

	var out []NeighEntry
	for _, m := range msgs {
		if ifindex != 0 && int(m.Index) != ifindex {
			continue
		}
		var addr net.IP
		var hw net.HardwareAddr
		if m.Attributes != nil {
			addr, hw = m.Attributes.Address, m.Attributes.LLAddress
		}
		if ip != nil && !ip.Equal(addr) {
			continue
		}

		var ifc *net.Interface
		if i, err := net.InterfaceByIndex(int(m.Index)); err == nil {
			ifc = i
		}

		out = append(out, NeighEntry{
			IP:        addr,
			HwAddr:    hw,
			State:     m.State,
			Interface: ifc,
		})
	}
	return out, nil
}

// hardwareAddrIsUnspecified reports whether hw is nil or all-zero, the
// "no link-layer address known yet" sentinel neighbor entries use.
func hardwareAddrIsUnspecified(hw net.HardwareAddr) bool {
	if len(hw) == 0 {
		return true
	}
	for _, b := range hw {
		if b != 0 {
			return false
		}
	}
	return true
}
