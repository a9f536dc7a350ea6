package tc

import (
	"errors"
	"sync"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var errInvalidFilterMessage = errors.New("tc: FilterMessage is invalid or too short")

// FilterOptions implements the TCA_OPTIONS payload for one filter kind
// (u32, flow). See QdiscOptions for the payload-shape rationale.
type FilterOptions interface {
	New() FilterOptions
	Kind() string
	Encode() ([]byte, error)
	Decode(b []byte) error
}

var (
	filterKindsMu sync.RWMutex
	filterKinds   = map[string]FilterOptions{}
)

// RegisterFilterKind makes a filter kind's TCA_OPTIONS codec available to
// FilterAttributes.decode when that kind's name is seen in TCA_KIND.
func RegisterFilterKind(opts FilterOptions) error {
	filterKindsMu.Lock()
	defer filterKindsMu.Unlock()
	kind := opts.Kind()
	if _, ok := filterKinds[kind]; ok {
		return errors.New("tc: filter kind " + kind + " already registered")
	}
	filterKinds[kind] = opts
	return nil
}

func lookupFilterKind(kind string) FilterOptions {
	filterKindsMu.RLock()
	defer filterKindsMu.RUnlock()
	return filterKinds[kind]
}

func init() {
	for _, o := range []FilterOptions{
		&U32Options{},
		&FlowOptions{},
	} {
		_ = RegisterFilterKind(o)
	}
}

// FilterAttributes carries TCA_KIND plus the kind-specific TCA_OPTIONS
// payload for a filter.
type FilterAttributes struct {
	Kind    string
	Options FilterOptions
}

func (a *FilterAttributes) encode(ae *nl.AttributeEncoder) error {
	kind := a.Kind
	if kind == "" && a.Options != nil {
		kind = a.Options.Kind()
	}
	if kind != "" {
		ae.String(unix.TCA_KIND, kind)
	}
	if a.Options != nil {
		b, err := a.Options.Encode()
		if err != nil {
			return err
		}
		ae.Bytes(unix.TCA_OPTIONS, b)
	}
	return nil
}

func (a *FilterAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.TCA_KIND:
			a.Kind = ad.String()
		case unix.TCA_OPTIONS:
			if opts := lookupFilterKind(a.Kind); opts != nil {
				a.Options = opts.New()
				if err := a.Options.Decode(ad.Bytes()); err != nil {
					return err
				}
			}
		}
	}
	return ad.Err()
}

// swap16 flips the byte order of a uint16, converting an EtherType
// between host order and the big-endian order the kernel packs into
// tcmsg.tcm_info alongside the filter's priority.
func swap16(v uint16) uint16 { return v<<8 | v>>8 }

// MakeHandle packs a filter's priority and protocol into the tcm_info
// field the way every tc filter message does: priority in the upper 16
// bits, the protocol in network byte order in the lower 16.
func MakeHandle(priority uint16, protocol uint16) uint32 {
	return uint32(priority)<<16 | uint32(swap16(protocol))
}

// splitHandle is the inverse of MakeHandle.
func splitHandle(info uint32) (priority uint16, protocol uint16) {
	priority = uint16(info >> 16)
	protocol = swap16(uint16(info & 0xffff))
	return
}

// FilterMessage is a route netlink filter message, carried by RTM_*TFILTER.
// Priority and Protocol are packed into the wire tcm_info field alongside
// Parent/Handle the way every tc filter implementation does it.
type FilterMessage struct {
	Family   uint8
	IfIndex  int32
	Handle   uint32
	Parent   uint32
	Priority uint16
	Protocol uint16

	Attributes FilterAttributes
}

func (m *FilterMessage) MarshalBinary() ([]byte, error) {
	hdr := nl.TcMsg{
		Family:  m.Family,
		IfIndex: m.IfIndex,
		Handle:  m.Handle,
		Parent:  m.Parent,
		Info:    MakeHandle(m.Priority, m.Protocol),
	}
	ae := nl.NewAttributeEncoder()
	if err := m.Attributes.encode(ae); err != nil {
		return nil, err
	}
	a, err := ae.Encode()
	if err != nil {
		return nil, err
	}
	return append(hdr.Bytes(), a...), nil
}

func (m *FilterMessage) UnmarshalBinary(b []byte) error {
	if len(b) < nl.SizeofTcMsg {
		return errInvalidFilterMessage
	}
	hdr, err := nl.ParseTcMsg(b)
	if err != nil {
		return errInvalidFilterMessage
	}
	m.Family, m.IfIndex, m.Handle, m.Parent = hdr.Family, hdr.IfIndex, hdr.Handle, hdr.Parent
	m.Priority, m.Protocol = splitHandle(hdr.Info)

	m.Attributes = FilterAttributes{}
	if len(b) > nl.SizeofTcMsg {
		ad, err := nl.NewAttributeDecoder(b[nl.SizeofTcMsg:])
		if err != nil {
			return err
		}
		if err := m.Attributes.decode(ad); err != nil {
			return err
		}
	}
	return nil
}

func (*FilterMessage) tcMessage() {}

// FilterService manages filters: List, Add, Replace, Delete.
type FilterService struct {
	c *Conn
}

func (s *FilterService) Add(req *FilterMessage) error {
	flags := nl.Request | nl.Create | nl.Excl | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_NEWTFILTER, flags)
	return err
}

func (s *FilterService) Replace(req *FilterMessage) error {
	flags := nl.Request | nl.Create | nl.Replace | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_NEWTFILTER, flags)
	return err
}

func (s *FilterService) Delete(req *FilterMessage) error {
	flags := nl.Request | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_DELTFILTER, flags)
	return err
}

// List returns the filters attached to ifIndex under parent.
func (s *FilterService) List(ifIndex int32, parent uint32) ([]FilterMessage, error) {
	req := &FilterMessage{IfIndex: ifIndex, Parent: parent}
	flags := nl.Request | nl.Dump
	msgs, err := s.c.Execute(req, unix.RTM_GETTFILTER, flags)
	if err != nil {
		return nil, err
	}
	out := make([]FilterMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *(m).(*FilterMessage))
	}
	return out, nil
}
