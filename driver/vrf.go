package driver

import (
	"github.com/ionos-cloud/netlinklib"
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// Vrf implements LinkDriver for the vrf driver: a VRF device carries a
// single attribute, the kernel routing table it binds to.
type Vrf struct {
	Table *uint32
}

var _ netlinklib.LinkDriver = &Vrf{}

func (v *Vrf) New() netlinklib.LinkDriver { return &Vrf{} }

func (v *Vrf) Encode(ae *nl.AttributeEncoder) error {
	if v.Table != nil {
		ae.Uint32(unix.IFLA_VRF_TABLE, *v.Table)
	}
	return nil
}

func (v *Vrf) Decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		if ad.Type() == unix.IFLA_VRF_TABLE {
			table := ad.Uint32()
			v.Table = &table
		}
	}
	return ad.Err()
}

func (*Vrf) Kind() string { return "vrf" }
