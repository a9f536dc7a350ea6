package netlinklib

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var (
	// errInvalidLinkMessage is returned when a LinkMessage is malformed.
	errInvalidLinkMessage = errors.New("netlinklib: LinkMessage is invalid or too short")

	// errInvalidLinkMessageAttr is returned when link attributes are malformed.
	errInvalidLinkMessageAttr = errors.New("netlinklib: LinkMessage has a wrong attribute data length")
)

var _ Message = &LinkMessage{}

// OperationalState represents an interface's RFC 2863 operational state,
// carried in IFLA_OPERSTATE.
type OperationalState uint8

const (
	OperStateUnknown OperationalState = iota
	OperStateNotPresent
	OperStateDown
	OperStateLowerLayerDown
	OperStateTesting
	OperStateDormant
	OperStateUp
)

// A LinkMessage is a route netlink link message (struct ifinfomsg plus
// attributes).
type LinkMessage struct {
	// Always set to AF_UNSPEC (0) except for VF port operations.
	Family uint8

	// ARPHRD_* device type.
	Type uint16

	// Unique interface index. A nonzero value on New instructs the
	// kernel to create a device with the given index (kernel 3.7+).
	Index uint32

	// Device flags, see netdevice(7).
	Flags uint32

	// Change is a mask of which Flags bits the kernel should apply on a
	// Set request; callers of New/List/Get leave it zero.
	Change uint32

	// Attributes list, always present on decode.
	Attributes LinkAttributes
}

const linkMessageLength = 16

// MarshalBinary marshals a LinkMessage into a byte slice.
func (m *LinkMessage) MarshalBinary() ([]byte, error) {
	hdr := nl.IfInfoMsg{
		Family: m.Family,
		Type:   m.Type,
		Index:  int32(m.Index),
		Flags:  m.Flags,
		Change: m.Change,
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

// UnmarshalBinary unmarshals the contents of a byte slice into a LinkMessage.
func (m *LinkMessage) UnmarshalBinary(b []byte) error {
	if len(b) < linkMessageLength {
		return errInvalidLinkMessage
	}

	hdr, err := nl.ParseIfInfoMsg(b)
	if err != nil {
		return errInvalidLinkMessage
	}
	m.Family = hdr.Family
	m.Type = hdr.Type
	m.Index = uint32(hdr.Index)
	m.Flags = hdr.Flags
	m.Change = hdr.Change

	m.Attributes = LinkAttributes{}
	if len(b) > linkMessageLength {
		ad, err := nl.NewAttributeDecoder(b[linkMessageLength:])
		if err != nil {
			return err
		}
		if err := m.Attributes.decode(ad); err != nil {
			return err
		}
	}

	return nil
}

// rtMessage satisfies the Message interface.
func (*LinkMessage) rtMessage() {}

// LinkService is used to query and modify network interfaces.
type LinkService struct {
	c *Conn
}

// New creates a new interface using the LinkMessage information.
func (l *LinkService) New(m *LinkMessage) error {
	if err := verifyLinkDriver(m); err != nil {
		return err
	}
	flags := nl.Request | nl.Create | nl.Acknowledge | nl.Excl
	_, err := l.c.Execute(m, unix.RTM_NEWLINK, flags)
	return err
}

// Delete removes an interface by index.
func (l *LinkService) Delete(ifIndex uint32) error {
	req := &LinkMessage{Index: ifIndex}
	flags := nl.Request | nl.Acknowledge
	_, err := l.c.Execute(req, unix.RTM_DELLINK, flags)
	return err
}

// Get retrieves interface information by index. The dump is filtered by
// rejecting every reply whose ifinfomsg.index doesn't match before its
// (potentially expensive, driver-dispatching) attribute list is decoded at
// all — the same header-short-circuit-before-attributes rule route.go's
// tree-based dump applies, done by hand here since LinkAttributes.decode's
// IFLA_LINKINFO union dispatches through the public LinkDriver registry
// rather than through an nl.Union node.
func (l *LinkService) Get(ifIndex uint32) (LinkMessage, error) {
	body, err := (&LinkMessage{}).MarshalBinary()
	if err != nil {
		return LinkMessage{}, err
	}

	parse := func(payload []byte) (nl.Accumulator, error) {
		hdr, err := nl.ParseIfInfoMsg(payload)
		if err != nil {
			return nil, err
		}
		if uint32(hdr.Index) != ifIndex {
			return nil, nl.ErrStopParsing
		}
		var m LinkMessage
		if err := m.UnmarshalBinary(payload); err != nil {
			return nil, err
		}
		return nl.Accumulator{"msg": &m}, nil
	}

	it, err := nl.Dump(unix.RTM_GETLINK, unix.RTM_GETLINK, body, parse, l.c.c)
	if err != nil {
		return LinkMessage{}, err
	}

	var out []LinkMessage
	for it.Next() {
		out = append(out, *(it.Accum()["msg"].(*LinkMessage)))
	}
	if err := it.Err(); err != nil {
		return LinkMessage{}, err
	}
	if len(out) != 1 {
		return LinkMessage{}, requestError(len(out))
	}
	return out[0], nil
}

// List retrieves all interfaces.
func (l *LinkService) List() ([]LinkMessage, error) {
	req := &LinkMessage{}
	flags := nl.Request | nl.Dump
	msgs, err := l.c.Execute(req, unix.RTM_GETLINK, flags)
	if err != nil {
		return nil, err
	}

	links := make([]LinkMessage, 0, len(msgs))
	for _, m := range msgs {
		links = append(links, *(m).(*LinkMessage))
	}
	return links, nil
}

// Set sets interface attributes according to the LinkMessage information.
func (l *LinkService) Set(m *LinkMessage) error {
	if err := verifyLinkDriver(m); err != nil {
		return err
	}
	flags := nl.Request | nl.Acknowledge
	_, err := l.c.Execute(m, unix.RTM_SETLINK, flags)
	return err
}

// verifyLinkDriver runs the LinkDriverVerifier check for m's IFLA_INFO_DATA
// driver, if any, before the request reaches the kernel.
func verifyLinkDriver(m *LinkMessage) error {
	if m.Attributes.Info == nil || m.Attributes.Info.Data == nil {
		return nil
	}
	if v, ok := m.Attributes.Info.Data.(LinkDriverVerifier); ok {
		return v.Verify(m)
	}
	return nil
}

// A LinkDriver implements the IFLA_INFO_DATA payload for one IFLA_INFO_KIND
// value. New returns a fresh zero value of the concrete driver type, used
// by LinkInfo.decode to construct the right type once Kind is known.
type LinkDriver interface {
	New() LinkDriver
	Kind() string
	Encode(ae *nl.AttributeEncoder) error
	Decode(ad *nl.AttributeDecoder) error
}

// A LinkDriverVerifier additionally validates a LinkMessage before it is
// sent to the kernel, for drivers with constraints the wire format itself
// doesn't express (e.g. netkit rejecting a MAC address).
type LinkDriverVerifier interface {
	LinkDriver
	Verify(msg *LinkMessage) error
}

// A LinkSlaveDriver implements IFLA_INFO_SLAVE_DATA, the per-slave-kind
// payload carried alongside IFLA_INFO_SLAVE_KIND (e.g. a bond or bridge
// port's own attributes, distinct from the master device's IFLA_INFO_DATA).
// Slave is a marker method only, distinguishing slave drivers from regular
// ones at compile time; LinkInfo.decode dispatches both through the same
// LinkDriver registry.
type LinkSlaveDriver interface {
	LinkDriver
	Slave()
}

var (
	driversMu sync.RWMutex
	drivers   = map[string]LinkDriver{}
)

// RegisterDriver makes a LinkDriver available for IFLA_INFO_DATA decoding
// under its Kind. Registering two drivers for the same kind is an error.
func RegisterDriver(d LinkDriver) error {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, ok := drivers[d.Kind()]; ok {
		return fmt.Errorf("netlinklib: driver already registered for kind %q", d.Kind())
	}
	drivers[d.Kind()] = d
	return nil
}

func lookupDriver(kind string) LinkDriver {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return drivers[kind]
}

// LinkInfo carries the IFLA_LINKINFO payload: the driver kind plus its
// decoded, driver-specific data when a LinkDriver is registered for that
// kind. Data is nil when the kind is unrecognized.
type LinkInfo struct {
	Kind      string
	Data      LinkDriver
	SlaveKind string
	SlaveData LinkDriver
}

func (i *LinkInfo) encode(ae *nl.AttributeEncoder) error {
	return ae.Nested(unix.IFLA_LINKINFO, func(nae *nl.AttributeEncoder) error {
		kind := i.Kind
		if kind == "" && i.Data != nil {
			kind = i.Data.Kind()
		}
		if kind != "" {
			nae.String(unix.IFLA_INFO_KIND, kind)
		}
		if i.Data != nil {
			if err := nae.Nested(unix.IFLA_INFO_DATA, i.Data.Encode); err != nil {
				return err
			}
		}
		slaveKind := i.SlaveKind
		if slaveKind == "" && i.SlaveData != nil {
			slaveKind = i.SlaveData.Kind()
		}
		if slaveKind != "" {
			nae.String(unix.IFLA_INFO_SLAVE_KIND, slaveKind)
		}
		if i.SlaveData != nil {
			if err := nae.Nested(unix.IFLA_INFO_SLAVE_DATA, i.SlaveData.Encode); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i *LinkInfo) decode(ad *nl.AttributeDecoder) error {
	return ad.Nested(func(nad *nl.AttributeDecoder) error {
		for nad.Next() {
			switch nad.Type() {
			case unix.IFLA_INFO_KIND:
				i.Kind = nad.String()
			case unix.IFLA_INFO_DATA:
				if drv := lookupDriver(i.Kind); drv != nil {
					i.Data = drv.New()
					if err := nad.Nested(i.Data.Decode); err != nil {
						return err
					}
				}
			case unix.IFLA_INFO_SLAVE_KIND:
				i.SlaveKind = nad.String()
			case unix.IFLA_INFO_SLAVE_DATA:
				if drv := lookupDriver(i.SlaveKind); drv != nil {
					i.SlaveData = drv.New()
					if err := nad.Nested(i.SlaveData.Decode); err != nil {
						return err
					}
				}
			}
		}
		return nad.Err()
	})
}

// LinkStats holds the subset of struct rtnl_link_stats64 carried in
// IFLA_STATS64.
type LinkStats struct {
	RxPackets uint64
	TxPackets uint64
	RxBytes   uint64
	TxBytes   uint64
	RxErrors  uint64
	TxErrors  uint64
	RxDropped  uint64
	TxDropped  uint64
	Multicast  uint64
	Collisions uint64
}

func (s *LinkStats) decode(b []byte) error {
	if len(b) < 80 {
		return errInvalidLinkMessageAttr
	}
	s.RxPackets = nl.NativeUint64(b[0:8])
	s.TxPackets = nl.NativeUint64(b[8:16])
	s.RxBytes = nl.NativeUint64(b[16:24])
	s.TxBytes = nl.NativeUint64(b[24:32])
	s.RxErrors = nl.NativeUint64(b[32:40])
	s.TxErrors = nl.NativeUint64(b[40:48])
	s.RxDropped = nl.NativeUint64(b[48:56])
	s.TxDropped = nl.NativeUint64(b[56:64])
	s.Multicast = nl.NativeUint64(b[64:72])
	s.Collisions = nl.NativeUint64(b[72:80])
	return nil
}

// LinkAttributes contains all IFLA_* attributes for an interface. A
// nil/zero field is omitted from the wire encoding.
type LinkAttributes struct {
	Address          net.HardwareAddr
	Broadcast        net.HardwareAddr
	Name             string
	MTU              uint32
	Link             uint32
	Master           uint32
	QueueDisc        string
	OperationalState OperationalState
	Info             *LinkInfo
	Stats            *LinkStats
}

func (a *LinkAttributes) encode(ae *nl.AttributeEncoder) error {
	if len(a.Address) != 0 {
		ae.Bytes(unix.IFLA_ADDRESS, a.Address)
	}
	if len(a.Broadcast) != 0 {
		ae.Bytes(unix.IFLA_BROADCAST, a.Broadcast)
	}
	if a.Name != "" {
		ae.String(unix.IFLA_IFNAME, a.Name)
	}
	if a.MTU != 0 {
		ae.Uint32(unix.IFLA_MTU, a.MTU)
	}
	if a.Link != 0 {
		ae.Uint32(unix.IFLA_LINK, a.Link)
	}
	if a.Master != 0 {
		ae.Uint32(unix.IFLA_MASTER, a.Master)
	}
	if a.QueueDisc != "" {
		ae.String(unix.IFLA_QDISC, a.QueueDisc)
	}
	if a.OperationalState != OperStateUnknown {
		ae.Uint8(unix.IFLA_OPERSTATE, uint8(a.OperationalState))
	}
	if a.Info != nil {
		if err := a.Info.encode(ae); err != nil {
			return err
		}
	}

	return nil
}

func (a *LinkAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.IFLA_ADDRESS, unix.IFLA_BROADCAST:
			l := len(ad.Bytes())
			if l != 4 && l != 6 {
				return errInvalidLinkMessageAttr
			}
			hw := append(net.HardwareAddr(nil), ad.Bytes()...)
			if ad.Type() == unix.IFLA_ADDRESS {
				a.Address = hw
			} else {
				a.Broadcast = hw
			}
		case unix.IFLA_IFNAME:
			a.Name = ad.String()
		case unix.IFLA_MTU:
			a.MTU = ad.Uint32()
		case unix.IFLA_LINK:
			a.Link = ad.Uint32()
		case unix.IFLA_MASTER:
			a.Master = ad.Uint32()
		case unix.IFLA_QDISC:
			a.QueueDisc = ad.String()
		case unix.IFLA_OPERSTATE:
			a.OperationalState = OperationalState(ad.Uint8())
		case unix.IFLA_LINKINFO:
			a.Info = &LinkInfo{}
			if err := a.Info.decode(ad); err != nil {
				return err
			}
		case unix.IFLA_STATS64:
			a.Stats = &LinkStats{}
			if err := a.Stats.decode(ad.Bytes()); err != nil {
				return err
			}
		}
	}
	return ad.Err()
}
