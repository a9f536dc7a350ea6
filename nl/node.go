package nl

import (
	"fmt"
	"net"
)

// Accumulator is the mutable, caller-shaped record populated incrementally
// by decode callbacks; one is created fresh per top-level response message
// and handed back to the caller on a successful parse. The tree itself
// does not prescribe its shape, so a generic open map is used here; typed
// per-object parsers (link.go, route.go, tc/*.go) read named keys out of it.
type Accumulator map[string]any

// ScalarKind is the variant over scalar wire representations a Scalar
// node may carry: String, sized/ordered integers, IPv4, IPv6, MAC.
type ScalarKind int

const (
	KindString ScalarKind = iota
	KindUint8
	KindUint16
	KindUint16BE
	KindUint32
	KindUint32BE
	KindUint64
	KindUint64BE
	KindInt32
	KindIPv4
	KindIPv6
	KindMAC

	// KindIP accepts either a 4- or 16-byte wire value and reports the
	// matching net.IP, for attributes whose address family is not known
	// until the enclosing message's header has been decoded (RTA_DST,
	// RTA_GATEWAY, ...). Mirrors AttributeDecoder.IP/AttributeEncoder.IP.
	KindIP
)

func encodeScalarValue(kind ScalarKind, v any) ([]byte, error) {
	switch kind {
	case KindString:
		s, _ := v.(string)
		return append([]byte(s), 0), nil
	case KindUint8:
		return []byte{v.(uint8)}, nil
	case KindUint16:
		b := make([]byte, 2)
		native.PutUint16(b, v.(uint16))
		return b, nil
	case KindUint16BE:
		x := v.(uint16)
		return []byte{byte(x >> 8), byte(x)}, nil
	case KindUint32, KindInt32:
		b := make([]byte, 4)
		var x uint32
		if kind == KindInt32 {
			x = uint32(v.(int32))
		} else {
			x = v.(uint32)
		}
		native.PutUint32(b, x)
		return b, nil
	case KindUint32BE:
		x := v.(uint32)
		return []byte{byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x)}, nil
	case KindUint64:
		b := make([]byte, 8)
		native.PutUint64(b, v.(uint64))
		return b, nil
	case KindUint64BE:
		x := v.(uint64)
		b := make([]byte, 8)
		for i := 0; i < 8; i++ {
			b[i] = byte(x >> (56 - 8*i))
		}
		return b, nil
	case KindIPv4:
		ip := v.(net.IP).To4()
		if ip == nil {
			return nil, newProtocolError("value is not an IPv4 address", nil)
		}
		return []byte(ip), nil
	case KindIPv6:
		ip := v.(net.IP).To16()
		if ip == nil {
			return nil, newProtocolError("value is not an IPv6 address", nil)
		}
		return []byte(ip), nil
	case KindMAC:
		mac := v.(net.HardwareAddr)
		return []byte(mac), nil
	case KindIP:
		ip := v.(net.IP)
		if v4 := ip.To4(); v4 != nil {
			return []byte(v4), nil
		}
		v6 := ip.To16()
		if v6 == nil {
			return nil, newProtocolError("value is not an IP address", nil)
		}
		return []byte(v6), nil
	default:
		return nil, fmt.Errorf("netlink: unknown scalar kind %d", kind)
	}
}

func decodeScalarValue(kind ScalarKind, b []byte) (any, error) {
	switch kind {
	case KindString:
		if n := len(b); n > 0 && b[n-1] == 0 {
			b = b[:n-1]
		}
		return string(b), nil
	case KindUint8:
		if len(b) < 1 {
			return nil, newProtocolError("short uint8 scalar", nil)
		}
		return b[0], nil
	case KindUint16:
		if len(b) < 2 {
			return nil, newProtocolError("short uint16 scalar", nil)
		}
		return native.Uint16(b), nil
	case KindUint16BE:
		if len(b) < 2 {
			return nil, newProtocolError("short uint16 scalar", nil)
		}
		return uint16(b[0])<<8 | uint16(b[1]), nil
	case KindUint32:
		if len(b) < 4 {
			return nil, newProtocolError("short uint32 scalar", nil)
		}
		return native.Uint32(b), nil
	case KindInt32:
		if len(b) < 4 {
			return nil, newProtocolError("short int32 scalar", nil)
		}
		return int32(native.Uint32(b)), nil
	case KindUint32BE:
		if len(b) < 4 {
			return nil, newProtocolError("short uint32 scalar", nil)
		}
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
	case KindUint64:
		if len(b) < 8 {
			return nil, newProtocolError("short uint64 scalar", nil)
		}
		return native.Uint64(b), nil
	case KindUint64BE:
		if len(b) < 8 {
			return nil, newProtocolError("short uint64 scalar", nil)
		}
		var x uint64
		for i := 0; i < 8; i++ {
			x = x<<8 | uint64(b[i])
		}
		return x, nil
	case KindIPv4:
		if len(b) != 4 {
			return nil, newProtocolError("bad IPv4 scalar length", nil)
		}
		return net.IP(append([]byte(nil), b...)), nil
	case KindIPv6:
		if len(b) != 16 {
			return nil, newProtocolError("bad IPv6 scalar length", nil)
		}
		return net.IP(append([]byte(nil), b...)), nil
	case KindMAC:
		if len(b) != 6 {
			return nil, newProtocolError("bad MAC scalar length", nil)
		}
		return net.HardwareAddr(append([]byte(nil), b...)), nil
	case KindIP:
		switch len(b) {
		case 4, 16:
			return net.IP(append([]byte(nil), b...)), nil
		default:
			return nil, newProtocolError(fmt.Sprintf("bad IP scalar length %d", len(b)), nil)
		}
	default:
		return nil, fmt.Errorf("netlink: unknown scalar kind %d", kind)
	}
}

// decode-ordering classes, per the rule that filters resolve first,
// context-setting nodes next, and union nodes (which consume context set
// by earlier siblings) last — independent of wire transmission order.
const (
	classFilter = iota
	classPlain
	classUnion
)

// node is the common interface of every NlaNode variant: Scalar, Nested,
// Union, StructWithTail, ListOfStruct.
type node interface {
	tag() uint16
	required() bool
	orderClass() int
	hasValue() bool
	encode(buf []byte) ([]byte, error)
	decode(accum Accumulator, payload []byte) error
}

// Scalar is a leaf NLA node: String, sized/ordered integer, IPv4, IPv6 or
// MAC. Val, if non-nil, is emitted on encode. OnDecode, if set, receives
// the decoded value and may mutate accum or return ErrStopParsing.
type Scalar struct {
	Tag      uint16
	Kind     ScalarKind
	Val      any
	OnDecode func(accum Accumulator, v any) error
	Req      bool
}

func (s *Scalar) tag() uint16    { return s.Tag }
func (s *Scalar) required() bool { return s.Req }
func (s *Scalar) hasValue() bool { return s.Val != nil }

// orderClass: a Scalar with a serialize value set doubles as an equality
// filter (e.g. table/protocol/scope checks applied before the rest of an
// attribute list is even walked), so it resolves first.
func (s *Scalar) orderClass() int {
	if s.Val != nil {
		return classFilter
	}
	return classPlain
}

func (s *Scalar) encode(buf []byte) ([]byte, error) {
	if s.Val == nil {
		return buf, nil
	}
	payload, err := encodeScalarValue(s.Kind, s.Val)
	if err != nil {
		return buf, err
	}
	return appendAttr(buf, s.Tag, payload), nil
}

func (s *Scalar) decode(accum Accumulator, payload []byte) error {
	v, err := decodeScalarValue(s.Kind, payload)
	if err != nil {
		return err
	}
	if s.OnDecode != nil {
		return s.OnDecode(accum, v)
	}
	return nil
}

// Nested is a tag plus an ordered set of child nodes serialized into, and
// parsed out of, an inner TLV buffer.
type Nested struct {
	Tag      uint16
	Children []node
	Req      bool
}

func (n *Nested) tag() uint16    { return n.Tag }
func (n *Nested) required() bool { return n.Req }
func (n *Nested) orderClass() int { return classPlain }

func (n *Nested) hasValue() bool {
	for _, c := range n.Children {
		if c.hasValue() {
			return true
		}
	}
	return false
}

func (n *Nested) encode(buf []byte) ([]byte, error) {
	if !n.hasValue() {
		return buf, nil
	}
	var body []byte
	var err error
	for _, c := range n.Children {
		if body, err = c.encode(body); err != nil {
			return buf, err
		}
	}
	return appendAttr(buf, n.Tag, body), nil
}

func (n *Nested) decode(accum Accumulator, payload []byte) error {
	return decodeChildren(accum, n.Children, payload)
}

// Union resolves its concrete child at decode time by inspecting the
// accumulator populated by earlier siblings (IFLA_INFO_DATA dispatched on
// the IFLA_INFO_KIND observed moments before, for example). A resolver
// returning nil means the union could not be resolved (e.g. unknown kind):
// the attribute is then treated as if it were absent.
type Union struct {
	Tag     uint16
	Resolve func(accum Accumulator) node
	Req     bool
}

func (u *Union) tag() uint16     { return u.Tag }
func (u *Union) required() bool  { return u.Req }
func (u *Union) orderClass() int { return classUnion }
func (u *Union) hasValue() bool  { return false }
func (u *Union) encode(buf []byte) ([]byte, error) { return buf, nil }

func (u *Union) decode(accum Accumulator, payload []byte) error {
	child := u.Resolve(accum)
	if child == nil {
		return nil
	}
	return child.decode(accum, payload)
}

// StructWithTail is a fixed struct followed by a nested attribute list:
// the shape of every root message body (ifinfomsg+attrs, rtmsg+attrs, ...)
// and of one entry inside a ListOfStruct (rtnexthop+attrs).
type StructWithTail struct {
	Size         int
	DecodeStruct func(accum Accumulator, b []byte) error
	Children     []node
}

func (t *StructWithTail) tag() uint16     { return 0 }
func (t *StructWithTail) required() bool  { return false }
func (t *StructWithTail) orderClass() int { return classPlain }
func (t *StructWithTail) hasValue() bool  { return true }
func (t *StructWithTail) encode(buf []byte) ([]byte, error) { return buf, nil }

func (t *StructWithTail) decode(accum Accumulator, payload []byte) error {
	if len(payload) < t.Size {
		return newProtocolError("payload shorter than struct header", nil)
	}
	if t.DecodeStruct != nil {
		if err := t.DecodeStruct(accum, payload[:t.Size]); err != nil {
			return err
		}
	}
	return decodeChildren(accum, t.Children, payload[t.Size:])
}

// Parse runs this node (typically a root StructWithTail) against a fresh
// accumulator, the entry point per-object dump/transact parsers use.
func (t *StructWithTail) Parse(payload []byte) (Accumulator, error) {
	accum := Accumulator{}
	if err := t.decode(accum, payload); err != nil {
		return nil, err
	}
	return accum, nil
}

// ListOfStruct is a tag plus a repeated sequence of StructWithTail entries
// of the same kind (RTA_MULTIPATH's array of rtnexthop+attrs). EntryLen
// inspects the still-unconsumed payload to find the length of the next
// entry (the struct's own length field, for rtnexthop). Decoded entries
// are collected as a []Accumulator under accum[Key]; the per-object parser
// (route.go) is responsible for any further flattening semantics.
type ListOfStruct struct {
	Tag       uint16
	Key       string
	NewEntry  func() *StructWithTail
	EntryLen  func(b []byte) (int, error)
	Req       bool
}

func (l *ListOfStruct) tag() uint16     { return l.Tag }
func (l *ListOfStruct) required() bool  { return l.Req }
func (l *ListOfStruct) orderClass() int { return classPlain }
func (l *ListOfStruct) hasValue() bool  { return false }
func (l *ListOfStruct) encode(buf []byte) ([]byte, error) { return buf, nil }

func (l *ListOfStruct) decode(accum Accumulator, payload []byte) error {
	var entries []Accumulator
	for len(payload) > 0 {
		n, err := l.EntryLen(payload)
		if err != nil {
			return err
		}
		if n <= 0 || n > len(payload) {
			return newProtocolError("list-of-struct entry length out of range", nil)
		}
		sub := Accumulator{}
		entry := l.NewEntry()
		switch err := entry.decode(sub, payload[:n]); {
		case err == nil:
			entries = append(entries, sub)
		case IsStopParsing(err):
			// filtered out: drop this entry, keep walking siblings.
		default:
			return err
		}
		payload = payload[n:]
	}
	accum[l.Key] = entries
	return nil
}

// decodeChildren walks payload as a flat TLV list, then dispatches each
// child in classification order (filters, then plain/context-carrying
// nodes, then unions) regardless of the order attributes arrived on the
// wire. Any required child never observed raises StopParsing.
func decodeChildren(accum Accumulator, children []node, payload []byte) error {
	raw := map[uint16][]byte{}
	for len(payload) >= 4 {
		l := int(native.Uint16(payload[0:2]))
		typ := native.Uint16(payload[2:4])
		if l < 4 || l > len(payload) {
			return newProtocolError("rtattr length out of range", nil)
		}
		if _, ok := raw[typ]; !ok {
			raw[typ] = payload[4:l]
		}
		payload = payload[nlmsgAlign(l):]
	}

	var byClass [3][]node
	for _, c := range children {
		byClass[c.orderClass()] = append(byClass[c.orderClass()], c)
	}
	for _, group := range byClass {
		for _, c := range group {
			data, ok := raw[c.tag()]
			if !ok {
				if c.required() {
					return ErrStopParsing
				}
				continue
			}
			if err := c.decode(accum, data); err != nil {
				return err
			}
		}
	}
	return nil
}
