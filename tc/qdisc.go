package tc

import (
	"errors"
	"sync"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var errInvalidQdiscMessage = errors.New("tc: QdiscMessage is invalid or too short")

// QdiscOptions implements the TCA_OPTIONS payload for one qdisc kind
// (htb, pfifo, bfifo, prio, multiq). The payload format is kind-specific:
// some kinds (htb) nest a further TLV inside TCA_OPTIONS, others (fifo,
// prio, multiq) put a flat kernel struct there directly — Encode/Decode
// work on the raw TCA_OPTIONS bytes so each kind picks its own shape.
// New returns a zero-valued instance of the same concrete type, the way
// netlinklib.LinkDriver.New does for link kinds.
type QdiscOptions interface {
	New() QdiscOptions
	Kind() string
	Encode() ([]byte, error)
	Decode(b []byte) error
}

var (
	qdiscKindsMu sync.RWMutex
	qdiscKinds   = map[string]QdiscOptions{}
)

// RegisterQdiscKind makes a qdisc kind's TCA_OPTIONS codec available to
// QdiscAttributes.decode when that kind's name is seen in TCA_KIND.
func RegisterQdiscKind(opts QdiscOptions) error {
	qdiscKindsMu.Lock()
	defer qdiscKindsMu.Unlock()
	kind := opts.Kind()
	if _, ok := qdiscKinds[kind]; ok {
		return errors.New("tc: qdisc kind " + kind + " already registered")
	}
	qdiscKinds[kind] = opts
	return nil
}

func lookupQdiscKind(kind string) QdiscOptions {
	qdiscKindsMu.RLock()
	defer qdiscKindsMu.RUnlock()
	return qdiscKinds[kind]
}

func init() {
	for _, o := range []QdiscOptions{
		&HtbQdiscOptions{},
		&PfifoOptions{},
		&BfifoOptions{},
		&PrioOptions{},
		&MultiqOptions{},
	} {
		_ = RegisterQdiscKind(o)
	}
}

// QdiscAttributes carries TCA_KIND plus the kind-specific TCA_OPTIONS
// payload, the union-by-kind dispatch spec.md mandates applied to the TC
// subsystem the way LinkInfo applies it to IFLA_LINKINFO.
type QdiscAttributes struct {
	Kind    string
	Options QdiscOptions
}

func (a *QdiscAttributes) encode(ae *nl.AttributeEncoder) error {
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

func (a *QdiscAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.TCA_KIND:
			a.Kind = ad.String()
		case unix.TCA_OPTIONS:
			if opts := lookupQdiscKind(a.Kind); opts != nil {
				a.Options = opts.New()
				if err := a.Options.Decode(ad.Bytes()); err != nil {
					return err
				}
			}
		}
	}
	return ad.Err()
}

// QdiscMessage is a route netlink qdisc message (struct tcmsg plus
// attributes), carried by RTM_*QDISC.
type QdiscMessage struct {
	Family  uint8
	IfIndex int32
	Handle  uint32
	Parent  uint32
	Info    uint32

	Attributes QdiscAttributes
}

func (m *QdiscMessage) MarshalBinary() ([]byte, error) {
	hdr := nl.TcMsg{
		Family:  m.Family,
		IfIndex: m.IfIndex,
		Handle:  m.Handle,
		Parent:  m.Parent,
		Info:    m.Info,
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

func (m *QdiscMessage) UnmarshalBinary(b []byte) error {
	if len(b) < nl.SizeofTcMsg {
		return errInvalidQdiscMessage
	}
	hdr, err := nl.ParseTcMsg(b)
	if err != nil {
		return errInvalidQdiscMessage
	}
	m.Family, m.IfIndex, m.Handle, m.Parent, m.Info = hdr.Family, hdr.IfIndex, hdr.Handle, hdr.Parent, hdr.Info

	m.Attributes = QdiscAttributes{}
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

func (*QdiscMessage) tcMessage() {}

// QdiscService manages qdiscs: List, Add, Replace, Delete, mirroring
// netlinklib.RouteService's shape.
type QdiscService struct {
	c *Conn
}

func (s *QdiscService) Add(req *QdiscMessage) error {
	flags := nl.Request | nl.Create | nl.Excl | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_NEWQDISC, flags)
	return err
}

func (s *QdiscService) Replace(req *QdiscMessage) error {
	flags := nl.Request | nl.Create | nl.Replace | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_NEWQDISC, flags)
	return err
}

func (s *QdiscService) Delete(req *QdiscMessage) error {
	flags := nl.Request | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_DELQDISC, flags)
	return err
}

// List returns the qdiscs attached to ifIndex (0 lists every interface).
func (s *QdiscService) List(ifIndex int32) ([]QdiscMessage, error) {
	req := &QdiscMessage{IfIndex: ifIndex}
	flags := nl.Request | nl.Dump
	msgs, err := s.c.Execute(req, unix.RTM_GETQDISC, flags)
	if err != nil {
		return nil, err
	}
	out := make([]QdiscMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *(m).(*QdiscMessage))
	}
	return out, nil
}
