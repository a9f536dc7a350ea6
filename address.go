package netlinklib

import (
	"errors"
	"net"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var (
	// errInvalidAddressMessage is returned when an AddressMessage is malformed.
	errInvalidAddressMessage = errors.New("netlinklib: AddressMessage is invalid or too short")

	// errInvalidAddressMessageAttr is returned when address attributes are malformed.
	errInvalidAddressMessageAttr = errors.New("netlinklib: AddressMessage has a wrong attribute data length")
)

var _ Message = &AddressMessage{}

// An AddressMessage is a route netlink address message (struct ifaddrmsg
// plus attributes).
type AddressMessage struct {
	// Address family (unix.AF_INET or unix.AF_INET6).
	Family uint8

	// Prefix length.
	PrefixLength uint8

	// Address flags.
	Flags uint8

	// Address scope (RT_SCOPE_*).
	Scope uint8

	// Interface index.
	Index uint32

	// Attributes list.
	Attributes AddressAttributes
}

const addressMessageLength = 8

// MarshalBinary marshals an AddressMessage into a byte slice.
func (m *AddressMessage) MarshalBinary() ([]byte, error) {
	b := make([]byte, addressMessageLength)
	b[0] = m.Family
	b[1] = m.PrefixLength
	b[2] = m.Flags
	b[3] = m.Scope
	nl.NativePutUint32(b[4:8], m.Index)

	ae := nl.NewAttributeEncoder()
	if err := m.Attributes.encode(ae); err != nil {
		return nil, err
	}
	a, err := ae.Encode()
	if err != nil {
		return nil, err
	}

	return append(b, a...), nil
}

// UnmarshalBinary unmarshals the contents of a byte slice into an AddressMessage.
func (m *AddressMessage) UnmarshalBinary(b []byte) error {
	if len(b) < addressMessageLength {
		return errInvalidAddressMessage
	}

	m.Family = b[0]
	m.PrefixLength = b[1]
	m.Flags = b[2]
	m.Scope = b[3]
	m.Index = nl.NativeUint32(b[4:8])

	m.Attributes = AddressAttributes{}
	if len(b) > addressMessageLength {
		ad, err := nl.NewAttributeDecoder(b[addressMessageLength:])
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
func (*AddressMessage) rtMessage() {}

// AddressService is used to query and modify interface addresses.
type AddressService struct {
	c *Conn
}

// New creates a new address using the AddressMessage information.
func (a *AddressService) New(req *AddressMessage) error {
	flags := nl.Request | nl.Create | nl.Acknowledge | nl.Excl
	_, err := a.c.Execute(req, unix.RTM_NEWADDR, flags)
	return err
}

// Delete removes an address.
func (a *AddressService) Delete(req *AddressMessage) error {
	flags := nl.Request | nl.Acknowledge
	_, err := a.c.Execute(req, unix.RTM_DELADDR, flags)
	return err
}

// Get retrieves address information for a single interface index.
func (a *AddressService) Get(index uint32) (AddressMessage, error) {
	req := &AddressMessage{Index: index}
	flags := nl.Request | nl.DumpFiltered
	msgs, err := a.c.Execute(req, unix.RTM_GETADDR, flags)
	if err != nil {
		return AddressMessage{}, err
	}
	if len(msgs) != 1 {
		return AddressMessage{}, requestError(len(msgs))
	}
	return *(msgs[0]).(*AddressMessage), nil
}

// List retrieves all addresses.
func (a *AddressService) List() ([]AddressMessage, error) {
	req := &AddressMessage{}
	flags := nl.Request | nl.Dump
	msgs, err := a.c.Execute(req, unix.RTM_GETADDR, flags)
	if err != nil {
		return nil, err
	}

	addresses := make([]AddressMessage, 0, len(msgs))
	for _, m := range msgs {
		addresses = append(addresses, *(m).(*AddressMessage))
	}
	return addresses, nil
}

// AddressCacheInfo mirrors struct ifa_cacheinfo, carried in IFA_CACHEINFO.
type AddressCacheInfo struct {
	Prefered uint32
	Valid    uint32
	Created  uint32 // centiseconds since boot
	Updated  uint32 // centiseconds since boot
}

func (c *AddressCacheInfo) decode(b []byte) error {
	if len(b) != 16 {
		return errInvalidAddressMessageAttr
	}
	c.Prefered = nl.NativeUint32(b[0:4])
	c.Valid = nl.NativeUint32(b[4:8])
	c.Created = nl.NativeUint32(b[8:12])
	c.Updated = nl.NativeUint32(b[12:16])
	return nil
}

// AddressAttributes contains all IFA_* attributes for an address. A
// nil/zero field is omitted from the wire encoding.
type AddressAttributes struct {
	Address   net.IP // prefix address, IFA_ADDRESS
	Local     net.IP // local address, IFA_LOCAL
	Broadcast net.IP
	Anycast   net.IP
	Multicast net.IP
	Label     string
	Flags     uint32
	CacheInfo *AddressCacheInfo
}

func (a *AddressAttributes) encode(ae *nl.AttributeEncoder) error {
	if a.Address != nil {
		ae.IP(unix.IFA_ADDRESS, a.Address)
	}
	if a.Local != nil {
		ae.IP(unix.IFA_LOCAL, a.Local)
	}
	if a.Broadcast != nil {
		ae.IP(unix.IFA_BROADCAST, a.Broadcast)
	}
	if a.Anycast != nil {
		ae.IP(unix.IFA_ANYCAST, a.Anycast)
	}
	if a.Multicast != nil {
		ae.IP(unix.IFA_MULTICAST, a.Multicast)
	}
	if a.Label != "" {
		ae.String(unix.IFA_LABEL, a.Label)
	}
	if a.Flags != 0 {
		ae.Uint32(unix.IFA_FLAGS, a.Flags)
	}
	return nil
}

func (a *AddressAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.IFA_ADDRESS:
			a.Address = ipFromAttr(ad)
		case unix.IFA_LOCAL:
			a.Local = ipFromAttr(ad)
		case unix.IFA_BROADCAST:
			a.Broadcast = ipFromAttr(ad)
		case unix.IFA_ANYCAST:
			a.Anycast = ipFromAttr(ad)
		case unix.IFA_MULTICAST:
			a.Multicast = ipFromAttr(ad)
		case unix.IFA_LABEL:
			a.Label = ad.String()
		case unix.IFA_FLAGS:
			a.Flags = ad.Uint32()
		case unix.IFA_CACHEINFO:
			a.CacheInfo = &AddressCacheInfo{}
			if err := a.CacheInfo.decode(ad.Bytes()); err != nil {
				return err
			}
		}
	}
	return ad.Err()
}

func ipFromAttr(ad *nl.AttributeDecoder) net.IP {
	b := ad.Bytes()
	if len(b) != 4 && len(b) != 16 {
		return nil
	}
	return append(net.IP(nil), b...)
}
