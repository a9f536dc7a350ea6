package netlinklib

import (
	"errors"
	"net"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var (
	// errInvalidRuleMessage is returned when a RuleMessage is malformed.
	errInvalidRuleMessage = errors.New("netlinklib: RuleMessage is invalid or too short")

	// errInvalidRuleMessageAttr is returned when rule attributes are malformed.
	errInvalidRuleMessageAttr = errors.New("netlinklib: RuleMessage has a wrong attribute data length")
)

var _ Message = &RuleMessage{}

// A RuleMessage is a route netlink fib rule message (struct fib_rule_hdr
// plus attributes), one entry of `ip rule show`.
type RuleMessage struct {
	Family uint8 // Address family
	DstLen uint8 // Length of destination prefix
	SrcLen uint8 // Length of source prefix
	Tos    uint8
	Table  uint8 // Routing table ID this rule points at, if it fits in a byte
	Action uint8 // FR_ACT_*
	Flags  uint32

	Attributes *RuleAttributes
}

// MarshalBinary marshals a RuleMessage into a byte slice.
func (m *RuleMessage) MarshalBinary() ([]byte, error) {
	hdr := nl.RuleMsg{
		Family: m.Family,
		DstLen: m.DstLen,
		SrcLen: m.SrcLen,
		Tos:    m.Tos,
		Table:  m.Table,
		Action: m.Action,
		Flags:  m.Flags,
	}

	var a []byte
	if m.Attributes != nil {
		ae := nl.NewAttributeEncoder()
		if err := m.Attributes.encode(ae); err != nil {
			return nil, err
		}
		var err error
		a, err = ae.Encode()
		if err != nil {
			return nil, err
		}
	}

	return append(hdr.Bytes(), a...), nil
}

// UnmarshalBinary unmarshals the contents of a byte slice into a RuleMessage.
func (m *RuleMessage) UnmarshalBinary(b []byte) error {
	if len(b) < nl.SizeofRuleMsg {
		return errInvalidRuleMessage
	}

	hdr, err := nl.ParseRuleMsg(b)
	if err != nil {
		return errInvalidRuleMessage
	}
	m.Family = hdr.Family
	m.DstLen = hdr.DstLen
	m.SrcLen = hdr.SrcLen
	m.Tos = hdr.Tos
	m.Table = hdr.Table
	m.Action = hdr.Action
	m.Flags = hdr.Flags

	if len(b) > nl.SizeofRuleMsg {
		ad, err := nl.NewAttributeDecoder(b[nl.SizeofRuleMsg:])
		if err != nil {
			return err
		}
		m.Attributes = &RuleAttributes{}
		if err := m.Attributes.decode(ad); err != nil {
			return err
		}
	}

	return nil
}

// rtMessage satisfies the Message interface.
func (*RuleMessage) rtMessage() {}

// RuleService is used to query and modify fib rules.
type RuleService struct {
	c *Conn
}

// New creates a new fib rule.
func (r *RuleService) New(req *RuleMessage) error {
	flags := nl.Request | nl.Create | nl.Acknowledge | nl.Excl
	_, err := r.c.Execute(req, unix.RTM_NEWRULE, flags)
	return err
}

// Delete removes a fib rule.
func (r *RuleService) Delete(req *RuleMessage) error {
	flags := nl.Request | nl.Acknowledge
	_, err := r.c.Execute(req, unix.RTM_DELRULE, flags)
	return err
}

// List retrieves all fib rules.
func (r *RuleService) List() ([]RuleMessage, error) {
	req := &RuleMessage{}
	flags := nl.Request | nl.Dump
	msgs, err := r.c.Execute(req, unix.RTM_GETRULE, flags)
	if err != nil {
		return nil, err
	}

	rules := make([]RuleMessage, 0, len(msgs))
	for _, m := range msgs {
		rules = append(rules, *(m).(*RuleMessage))
	}
	return rules, nil
}

// RuleUIDRange mirrors struct fib_rule_uid_range, carried in FRA_UID_RANGE.
type RuleUIDRange struct {
	Start uint32
	End   uint32
}

// RulePortRange mirrors struct fib_rule_port_range, carried in
// FRA_SPORT_RANGE / FRA_DPORT_RANGE.
type RulePortRange struct {
	Start uint16
	End   uint16
}

// RuleAttributes contains all FRA_* attributes for a fib rule.
type RuleAttributes struct {
	Src     *net.IP
	Dst     *net.IP
	IIfname *string
	OIfname *string

	Goto     *uint32
	Priority *uint32
	FwMark   *uint32
	FwMask   *uint32

	L3MDev *uint8

	TunID *uint64

	Protocol *uint8
	IPProto  *uint8

	Table             *uint32
	SuppressPrefixLen *uint32
	SuppressIFGroup   *uint32

	UIDRange   *RuleUIDRange
	SPortRange *RulePortRange
	DPortRange *RulePortRange
}

func (a *RuleAttributes) encode(ae *nl.AttributeEncoder) error {
	if a.Dst != nil {
		ae.IP(unix.FRA_DST, *a.Dst)
	}
	if a.Src != nil {
		ae.IP(unix.FRA_SRC, *a.Src)
	}
	if a.IIfname != nil {
		ae.String(unix.FRA_IIFNAME, *a.IIfname)
	}
	if a.OIfname != nil {
		ae.String(unix.FRA_OIFNAME, *a.OIfname)
	}
	if a.Goto != nil {
		ae.Uint32(unix.FRA_GOTO, *a.Goto)
	}
	if a.Priority != nil {
		ae.Uint32(unix.FRA_PRIORITY, *a.Priority)
	}
	if a.FwMark != nil {
		ae.Uint32(unix.FRA_FWMARK, *a.FwMark)
	}
	if a.FwMask != nil {
		ae.Uint32(unix.FRA_FWMASK, *a.FwMask)
	}
	if a.L3MDev != nil {
		ae.Uint8(unix.FRA_L3MDEV, *a.L3MDev)
	}
	if a.TunID != nil {
		ae.Uint64(unix.FRA_TUN_ID, *a.TunID)
	}
	if a.Protocol != nil {
		ae.Uint8(unix.FRA_PROTOCOL, *a.Protocol)
	}
	if a.IPProto != nil {
		ae.Uint8(unix.FRA_IP_PROTO, *a.IPProto)
	}
	if a.Table != nil {
		ae.Uint32(unix.FRA_TABLE, *a.Table)
	}
	if a.SuppressPrefixLen != nil {
		ae.Uint32(unix.FRA_SUPPRESS_PREFIXLEN, *a.SuppressPrefixLen)
	}
	if a.SuppressIFGroup != nil {
		ae.Uint32(unix.FRA_SUPPRESS_IFGROUP, *a.SuppressIFGroup)
	}
	if a.UIDRange != nil {
		b := make([]byte, 8)
		nl.NativePutUint32(b[0:4], a.UIDRange.Start)
		nl.NativePutUint32(b[4:8], a.UIDRange.End)
		ae.Bytes(unix.FRA_UID_RANGE, b)
	}
	if a.SPortRange != nil {
		ae.Bytes(unix.FRA_SPORT_RANGE, portRangeBytes(a.SPortRange))
	}
	if a.DPortRange != nil {
		ae.Bytes(unix.FRA_DPORT_RANGE, portRangeBytes(a.DPortRange))
	}

	return nil
}

func portRangeBytes(r *RulePortRange) []byte {
	b := make([]byte, 4)
	nl.NativePutUint16(b[0:2], r.Start)
	nl.NativePutUint16(b[2:4], r.End)
	return b
}

func (a *RuleAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.FRA_DST:
			ip := ipFromAttr(ad)
			a.Dst = &ip
		case unix.FRA_SRC:
			ip := ipFromAttr(ad)
			a.Src = &ip
		case unix.FRA_IIFNAME:
			v := ad.String()
			a.IIfname = &v
		case unix.FRA_OIFNAME:
			v := ad.String()
			a.OIfname = &v
		case unix.FRA_GOTO:
			v := ad.Uint32()
			a.Goto = &v
		case unix.FRA_PRIORITY:
			v := ad.Uint32()
			a.Priority = &v
		case unix.FRA_FWMARK:
			v := ad.Uint32()
			a.FwMark = &v
		case unix.FRA_FWMASK:
			v := ad.Uint32()
			a.FwMask = &v
		case unix.FRA_L3MDEV:
			v := ad.Uint8()
			a.L3MDev = &v
		case unix.FRA_TUN_ID:
			v := ad.Uint64()
			a.TunID = &v
		case unix.FRA_PROTOCOL:
			v := ad.Uint8()
			a.Protocol = &v
		case unix.FRA_IP_PROTO:
			v := ad.Uint8()
			a.IPProto = &v
		case unix.FRA_TABLE:
			v := ad.Uint32()
			a.Table = &v
		case unix.FRA_SUPPRESS_PREFIXLEN:
			v := ad.Uint32()
			a.SuppressPrefixLen = &v
		case unix.FRA_SUPPRESS_IFGROUP:
			v := ad.Uint32()
			a.SuppressIFGroup = &v
		case unix.FRA_UID_RANGE:
			b := ad.Bytes()
			if len(b) != 8 {
				return errInvalidRuleMessageAttr
			}
			a.UIDRange = &RuleUIDRange{Start: nl.NativeUint32(b[0:4]), End: nl.NativeUint32(b[4:8])}
		case unix.FRA_SPORT_RANGE:
			r, err := decodePortRange(ad.Bytes())
			if err != nil {
				return err
			}
			a.SPortRange = r
		case unix.FRA_DPORT_RANGE:
			r, err := decodePortRange(ad.Bytes())
			if err != nil {
				return err
			}
			a.DPortRange = r
		}
	}
	return ad.Err()
}

func decodePortRange(b []byte) (*RulePortRange, error) {
	if len(b) != 4 {
		return nil, errInvalidRuleMessageAttr
	}
	return &RulePortRange{Start: nl.NativeUint16(b[0:2]), End: nl.NativeUint16(b[2:4])}, nil
}
