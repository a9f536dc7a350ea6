package tc

import (
	"errors"
	"sync"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var errInvalidClassMessage = errors.New("tc: ClassMessage is invalid or too short")

// ClassOptions implements the TCA_OPTIONS payload for one class kind
// (htb, at minimum). See QdiscOptions for the payload-shape rationale.
type ClassOptions interface {
	New() ClassOptions
	Kind() string
	Encode() ([]byte, error)
	Decode(b []byte) error
}

var (
	classKindsMu sync.RWMutex
	classKinds   = map[string]ClassOptions{}
)

// RegisterClassKind makes a class kind's TCA_OPTIONS codec available to
// ClassAttributes.decode when that kind's name is seen in TCA_KIND.
func RegisterClassKind(opts ClassOptions) error {
	classKindsMu.Lock()
	defer classKindsMu.Unlock()
	kind := opts.Kind()
	if _, ok := classKinds[kind]; ok {
		return errors.New("tc: class kind " + kind + " already registered")
	}
	classKinds[kind] = opts
	return nil
}

func lookupClassKind(kind string) ClassOptions {
	classKindsMu.RLock()
	defer classKindsMu.RUnlock()
	return classKinds[kind]
}

func init() {
	_ = RegisterClassKind(&HtbClassOptions{})
}

// ClassAttributes carries TCA_KIND plus the kind-specific TCA_OPTIONS
// payload for a class.
type ClassAttributes struct {
	Kind    string
	Options ClassOptions
}

func (a *ClassAttributes) encode(ae *nl.AttributeEncoder) error {
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

func (a *ClassAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.TCA_KIND:
			a.Kind = ad.String()
		case unix.TCA_OPTIONS:
			if opts := lookupClassKind(a.Kind); opts != nil {
				a.Options = opts.New()
				if err := a.Options.Decode(ad.Bytes()); err != nil {
					return err
				}
			}
		}
	}
	return ad.Err()
}

// ClassMessage is a route netlink class message, carried by RTM_*TCLASS.
type ClassMessage struct {
	Family  uint8
	IfIndex int32
	Handle  uint32
	Parent  uint32
	Info    uint32

	Attributes ClassAttributes
}

func (m *ClassMessage) MarshalBinary() ([]byte, error) {
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

func (m *ClassMessage) UnmarshalBinary(b []byte) error {
	if len(b) < nl.SizeofTcMsg {
		return errInvalidClassMessage
	}
	hdr, err := nl.ParseTcMsg(b)
	if err != nil {
		return errInvalidClassMessage
	}
	m.Family, m.IfIndex, m.Handle, m.Parent, m.Info = hdr.Family, hdr.IfIndex, hdr.Handle, hdr.Parent, hdr.Info

	m.Attributes = ClassAttributes{}
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

func (*ClassMessage) tcMessage() {}

// ClassService manages classes: List, Add, Replace, Delete.
type ClassService struct {
	c *Conn
}

func (s *ClassService) Add(req *ClassMessage) error {
	flags := nl.Request | nl.Create | nl.Excl | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_NEWTCLASS, flags)
	return err
}

func (s *ClassService) Replace(req *ClassMessage) error {
	flags := nl.Request | nl.Create | nl.Replace | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_NEWTCLASS, flags)
	return err
}

func (s *ClassService) Delete(req *ClassMessage) error {
	flags := nl.Request | nl.Acknowledge
	_, err := s.c.Execute(req, unix.RTM_DELTCLASS, flags)
	return err
}

// List returns the classes attached to ifIndex.
func (s *ClassService) List(ifIndex int32) ([]ClassMessage, error) {
	req := &ClassMessage{IfIndex: ifIndex}
	flags := nl.Request | nl.Dump
	msgs, err := s.c.Execute(req, unix.RTM_GETTCLASS, flags)
	if err != nil {
		return nil, err
	}
	out := make([]ClassMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *(m).(*ClassMessage))
	}
	return out, nil
}
