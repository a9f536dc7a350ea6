package tc

import (
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// U32Options is the TCA_OPTIONS payload for a u32 filter: a selector
// (TCA_U32_SEL, tc_u32_sel plus its trailing key array), an optional
// target classid, and an optional action list run on match. A bare
// Selector with Nkeys == 1 and Flags == TC_U32_TERMINAL (what MatchAll
// returns) matches every packet, the "match all, then
// act" shape vishvananda/netlink's filter_linux.go builds for a
// redirect-everything u32 filter.
type U32Options struct {
	Selector nl.TcU32Sel
	ClassID  uint32
	Actions  []Action
}

func (o *U32Options) New() FilterOptions { return &U32Options{} }

func (*U32Options) Kind() string { return "u32" }

// MatchAll returns the U32Options selecting every packet, the baseline
// a mirred redirect/mirror filter is built on.
func MatchAll() U32Options {
	return U32Options{
		Selector: nl.TcU32Sel{
			Flags: unix.TC_U32_TERMINAL,
			Keys:  []nl.TcU32Key{{}},
		},
	}
}

func (o *U32Options) Encode() ([]byte, error) {
	ae := nl.NewAttributeEncoder()
	ae.Bytes(unix.TCA_U32_SEL, o.Selector.Bytes())
	if o.ClassID != 0 {
		ae.Uint32(unix.TCA_U32_CLASSID, o.ClassID)
	}
	if len(o.Actions) > 0 {
		b, err := encodeActions(o.Actions)
		if err != nil {
			return nil, err
		}
		ae.Bytes(unix.TCA_U32_ACT, b)
	}
	return ae.Encode()
}

func (o *U32Options) Decode(b []byte) error {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return err
	}
	for ad.Next() {
		switch ad.Type() {
		case unix.TCA_U32_SEL:
			sel, err := nl.ParseTcU32Sel(ad.Bytes())
			if err != nil {
				return err
			}
			o.Selector = sel
		case unix.TCA_U32_CLASSID:
			o.ClassID = ad.Uint32()
		case unix.TCA_U32_ACT:
			actions, err := decodeActions(ad.Bytes())
			if err != nil {
				return err
			}
			o.Actions = actions
		}
	}
	return ad.Err()
}
