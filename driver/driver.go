// Package driver provides link type specific decoding and encoding types
// for use with the netlinklib library.
package driver

import (
	"github.com/ionos-cloud/netlinklib"
)

// init registers predefined drivers with the netlinklib package.
//
// Currently, registering driver implementations that conflict with existing ones isn't supported.
// Since most users don't need this feature, we'll keep it as is.
// If required, we could consider implementing netlinklib.UnregisterDriver to address this.
func init() {
	for _, drv := range []netlinklib.LinkDriver{
		&Netkit{},
		&Veth{},
		&Vlan{},
		&Macvlan{},
		&Bond{},
		&Vxlan{},
		&Dummy{},
		&Vrf{},
		&Erspan{},
		&Ip6erspan{},
	} {
		_ = netlinklib.RegisterDriver(drv)
	}
}
