package tc

import (
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// Flow filter hashing modes, named the way <linux/pkt_cls.h> names them.
const (
	FlowModeMap  = unix.TCA_FLOW_MODE_MAP
	FlowModeHash = unix.TCA_FLOW_MODE_HASH
)

// FlowOptions is the TCA_OPTIONS payload for a flow filter: classifies
// packets into a class range by hashing or mapping selected packet
// fields (Keys, a bitmask of FLOW_KEY_* values the kernel defines).
type FlowOptions struct {
	Keys      uint32
	Mode      uint32
	BaseClass uint32
	RShift    uint32
	Addend    uint32
	Mask      uint32
	XOR       uint32
	Divisor   uint32
	Actions   []Action
}

func (o *FlowOptions) New() FilterOptions { return &FlowOptions{} }

func (*FlowOptions) Kind() string { return "flow" }

func (o *FlowOptions) Encode() ([]byte, error) {
	ae := nl.NewAttributeEncoder()
	ae.Uint32(unix.TCA_FLOW_KEYS, o.Keys)
	ae.Uint32(unix.TCA_FLOW_MODE, o.Mode)
	if o.BaseClass != 0 {
		ae.Uint32(unix.TCA_FLOW_BASECLASS, o.BaseClass)
	}
	if o.RShift != 0 {
		ae.Uint32(unix.TCA_FLOW_RSHIFT, o.RShift)
	}
	if o.Addend != 0 {
		ae.Uint32(unix.TCA_FLOW_ADDEND, o.Addend)
	}
	if o.Mask != 0 {
		ae.Uint32(unix.TCA_FLOW_MASK, o.Mask)
	}
	if o.XOR != 0 {
		ae.Uint32(unix.TCA_FLOW_XOR, o.XOR)
	}
	if o.Divisor != 0 {
		ae.Uint32(unix.TCA_FLOW_DIVISOR, o.Divisor)
	}
	if len(o.Actions) > 0 {
		b, err := encodeActions(o.Actions)
		if err != nil {
			return nil, err
		}
		ae.Bytes(unix.TCA_FLOW_ACT, b)
	}
	return ae.Encode()
}

func (o *FlowOptions) Decode(b []byte) error {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return err
	}
	for ad.Next() {
		switch ad.Type() {
		case unix.TCA_FLOW_KEYS:
			o.Keys = ad.Uint32()
		case unix.TCA_FLOW_MODE:
			o.Mode = ad.Uint32()
		case unix.TCA_FLOW_BASECLASS:
			o.BaseClass = ad.Uint32()
		case unix.TCA_FLOW_RSHIFT:
			o.RShift = ad.Uint32()
		case unix.TCA_FLOW_ADDEND:
			o.Addend = ad.Uint32()
		case unix.TCA_FLOW_MASK:
			o.Mask = ad.Uint32()
		case unix.TCA_FLOW_XOR:
			o.XOR = ad.Uint32()
		case unix.TCA_FLOW_DIVISOR:
			o.Divisor = ad.Uint32()
		case unix.TCA_FLOW_ACT:
			actions, err := decodeActions(ad.Bytes())
			if err != nil {
				return err
			}
			o.Actions = actions
		}
	}
	return ad.Err()
}
