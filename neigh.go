package netlinklib

import (
	"errors"
	"net"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var (
	// errInvalidNeighMessage is returned when a NeighMessage is malformed.
	errInvalidNeighMessage = errors.New("netlinklib: NeighMessage is invalid or too short")

	// errInvalidNeighMessageAttr is returned when neighbor attributes are malformed.
	errInvalidNeighMessageAttr = errors.New("netlinklib: NeighMessage has a wrong attribute data length")
)

var _ Message = &NeighMessage{}

// A NeighMessage is a route netlink neighbor message.
type NeighMessage struct {
	// Address family of the neighbor entry (for example AF_INET or AF_INET6).
	Family uint16

	// Unique interface index.
	Index uint32

	// Neighbor state, a bitmask of NUD_* states (see rtnetlink(7)).
	State uint16

	// Neighbor flags (NTF_*).
	Flags uint8

	// Neighbor type.
	Type uint8

	// Attributes list.
	Attributes *NeighAttributes
}

const (
	NTF_USE         = 0x01
	NTF_SELF        = 0x02
	NTF_MASTER      = 0x04
	NTF_PROXY       = 0x08
	NTF_EXT_LEARNED = 0x10
	NTF_OFFLOADED   = 0x20
	NTF_ROUTER      = 0x80
)

const neighMsgLen = 12

// MarshalBinary marshals a NeighMessage into a byte slice.
func (m *NeighMessage) MarshalBinary() ([]byte, error) {
	b := make([]byte, neighMsgLen)

	nl.NativePutUint16(b[0:2], m.Family)
	nl.NativePutUint32(b[4:8], m.Index)
	nl.NativePutUint16(b[8:10], m.State)
	b[10] = m.Flags
	b[11] = m.Type

	if m.Attributes != nil {
		a, err := m.Attributes.encode()
		if err != nil {
			return nil, err
		}
		return append(b, a...), nil
	}
	return b, nil
}

// UnmarshalBinary unmarshals the contents of a byte slice into a NeighMessage.
func (m *NeighMessage) UnmarshalBinary(b []byte) error {
	if len(b) < neighMsgLen {
		return errInvalidNeighMessage
	}

	m.Family = nl.NativeUint16(b[0:2])
	m.Index = nl.NativeUint32(b[4:8])
	m.State = nl.NativeUint16(b[8:10])
	m.Flags = b[10]
	m.Type = b[11]

	if len(b) > neighMsgLen {
		m.Attributes = &NeighAttributes{}
		if err := m.Attributes.decode(b[neighMsgLen:]); err != nil {
			return err
		}
	}

	return nil
}

// rtMessage satisfies the Message interface.
func (*NeighMessage) rtMessage() {}

// NeighService is used to query and modify neighbor (ARP/NDP) entries.
type NeighService struct {
	c *Conn
}

// New creates a new neighbor entry.
func (l *NeighService) New(req *NeighMessage) error {
	flags := nl.Request | nl.Create | nl.Acknowledge | nl.Excl
	_, err := l.c.Execute(req, unix.RTM_NEWNEIGH, flags)
	return err
}

// Delete removes a neighbor entry on the given interface.
func (l *NeighService) Delete(index uint32) error {
	req := &NeighMessage{Index: index}
	flags := nl.Request | nl.Acknowledge
	_, err := l.c.Execute(req, unix.RTM_DELNEIGH, flags)
	return err
}

// List retrieves all neighbors.
func (l *NeighService) List() ([]NeighMessage, error) {
	req := &NeighMessage{}
	flags := nl.Request | nl.Dump
	msgs, err := l.c.Execute(req, unix.RTM_GETNEIGH, flags)
	if err != nil {
		return nil, err
	}

	neighs := make([]NeighMessage, 0, len(msgs))
	for _, m := range msgs {
		neighs = append(neighs, *(m).(*NeighMessage))
	}
	return neighs, nil
}

// NeighCacheInfo mirrors struct nda_cacheinfo, carried in NDA_CACHEINFO.
type NeighCacheInfo struct {
	Confirmed uint32
	Used      uint32
	Updated   uint32
	RefCount  uint32
}

func (n *NeighCacheInfo) decode(b []byte) error {
	if len(b) != 16 {
		return errInvalidNeighMessageAttr
	}
	n.Confirmed = nl.NativeUint32(b[0:4])
	n.Used = nl.NativeUint32(b[4:8])
	n.Updated = nl.NativeUint32(b[8:12])
	n.RefCount = nl.NativeUint32(b[12:16])
	return nil
}

// NeighAttributes contains all NDA_* attributes for a neighbor.
type NeighAttributes struct {
	Address   net.IP           // NDA_DST: neighbor cache network layer destination address
	LLAddress net.HardwareAddr // NDA_LLADDR: neighbor cache link layer address
	CacheInfo *NeighCacheInfo  // NDA_CACHEINFO: cache statistics
	IfIndex   uint32           // NDA_IFINDEX
}

func (a *NeighAttributes) decode(b []byte) error {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return err
	}

	for ad.Next() {
		switch ad.Type() {
		case unix.NDA_UNSPEC:
			// unused attribute
		case unix.NDA_DST:
			if l := len(ad.Bytes()); l != 4 && l != 16 {
				return errInvalidNeighMessageAttr
			}
			a.Address = append(net.IP(nil), ad.Bytes()...)
		case unix.NDA_LLADDR:
			if len(ad.Bytes()) != 6 {
				return errInvalidNeighMessageAttr
			}
			a.LLAddress = append(net.HardwareAddr(nil), ad.Bytes()...)
		case unix.NDA_CACHEINFO:
			a.CacheInfo = &NeighCacheInfo{}
			if err := a.CacheInfo.decode(ad.Bytes()); err != nil {
				return err
			}
		case unix.NDA_IFINDEX:
			a.IfIndex = ad.Uint32()
		}
	}
	return ad.Err()
}

// encode marshals a NeighAttributes into a byte slice. Only non-zero
// fields are emitted.
func (a *NeighAttributes) encode() ([]byte, error) {
	ae := nl.NewAttributeEncoder()
	if a.Address != nil {
		ae.IP(unix.NDA_DST, a.Address)
	}
	if a.LLAddress != nil {
		ae.Bytes(unix.NDA_LLADDR, a.LLAddress)
	}
	if a.IfIndex != 0 {
		ae.Uint32(unix.NDA_IFINDEX, a.IfIndex)
	}
	return ae.Encode()
}
