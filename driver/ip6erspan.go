package driver

import (
	"net"

	"github.com/ionos-cloud/netlinklib"
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// Ip6erspan implements LinkDriver for the ip6erspan driver: the same
// IFLA_GRE_* attribute namespace as Erspan, but Local/Remote carry 16-byte
// IPv6 addresses instead of IPv4 ones.
type Ip6erspan struct {
	Link       uint32
	IKey       *uint32
	OKey       *uint32
	Local      net.IP
	Remote     net.IP
	TTL        *uint8
	ErspanVer  *uint32
	ErspanDir  *uint8
	ErspanHwID *uint16
}

var _ netlinklib.LinkDriver = &Ip6erspan{}

func (e *Ip6erspan) New() netlinklib.LinkDriver { return &Ip6erspan{} }

func (e *Ip6erspan) Encode(ae *nl.AttributeEncoder) error {
	if e.Link != 0 {
		ae.Uint32(unix.IFLA_GRE_LINK, e.Link)
	}
	if e.IKey != nil {
		ae.Uint32BE(unix.IFLA_GRE_IKEY, *e.IKey)
	}
	if e.OKey != nil {
		ae.Uint32BE(unix.IFLA_GRE_OKEY, *e.OKey)
	}
	if len(e.Local) != 0 {
		ae.Bytes(unix.IFLA_GRE_LOCAL, e.Local.To16())
	}
	if len(e.Remote) != 0 {
		ae.Bytes(unix.IFLA_GRE_REMOTE, e.Remote.To16())
	}
	if e.TTL != nil {
		ae.Uint8(unix.IFLA_GRE_TTL, *e.TTL)
	}
	if e.ErspanVer != nil {
		ae.Uint32(unix.IFLA_GRE_ERSPAN_VER, *e.ErspanVer)
	}
	if e.ErspanDir != nil {
		ae.Uint8(unix.IFLA_GRE_ERSPAN_DIR, *e.ErspanDir)
	}
	if e.ErspanHwID != nil {
		ae.Uint16(unix.IFLA_GRE_ERSPAN_HWID, *e.ErspanHwID)
	}
	return nil
}

func (e *Ip6erspan) Decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.IFLA_GRE_LINK:
			e.Link = ad.Uint32()
		case unix.IFLA_GRE_IKEY:
			v := ad.Uint32BE()
			e.IKey = &v
		case unix.IFLA_GRE_OKEY:
			v := ad.Uint32BE()
			e.OKey = &v
		case unix.IFLA_GRE_LOCAL:
			e.Local = append(net.IP(nil), ad.Bytes()...)
		case unix.IFLA_GRE_REMOTE:
			e.Remote = append(net.IP(nil), ad.Bytes()...)
		case unix.IFLA_GRE_TTL:
			v := ad.Uint8()
			e.TTL = &v
		case unix.IFLA_GRE_ERSPAN_VER:
			v := ad.Uint32()
			e.ErspanVer = &v
		case unix.IFLA_GRE_ERSPAN_DIR:
			v := ad.Uint8()
			e.ErspanDir = &v
		case unix.IFLA_GRE_ERSPAN_HWID:
			v := ad.Uint16()
			e.ErspanHwID = &v
		}
	}
	return ad.Err()
}

func (*Ip6erspan) Kind() string { return "ip6erspan" }
