package netlinklib

import (
	"errors"
	"net"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

var (
	// errInvalidRouteMessage is returned when a RouteMessage is malformed.
	errInvalidRouteMessage = errors.New("netlinklib: RouteMessage is invalid or too short")

	// errInvalidRouteMessageAttr is returned when route attributes are malformed.
	errInvalidRouteMessageAttr = errors.New("netlinklib: RouteMessage has a wrong attribute data length")
)

var _ Message = &RouteMessage{}

type RouteMessage struct {
	Family    uint8 // Address family (unix.AF_INET or unix.AF_INET6)
	DstLength uint8 // Length of destination prefix
	SrcLength uint8 // Length of source prefix
	Tos       uint8 // TOS filter
	Table     uint8 // Routing table ID
	Protocol  uint8 // Routing protocol
	Scope     uint8 // Distance to the destination
	Type      uint8 // Route type
	Flags     uint32

	Attributes RouteAttributes
}

func (m *RouteMessage) MarshalBinary() ([]byte, error) {
	hdr := nl.RtMsg{
		Family:   m.Family,
		DstLen:   m.DstLength,
		SrcLen:   m.SrcLength,
		Tos:      m.Tos,
		Table:    m.Table,
		Protocol: m.Protocol,
		Scope:    m.Scope,
		Type:     m.Type,
		Flags:    m.Flags,
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

func (m *RouteMessage) UnmarshalBinary(b []byte) error {
	if len(b) < nl.SizeofRtMsg {
		return errInvalidRouteMessage
	}

	hdr, err := nl.ParseRtMsg(b)
	if err != nil {
		return errInvalidRouteMessage
	}
	m.Family = hdr.Family
	m.DstLength = hdr.DstLen
	m.SrcLength = hdr.SrcLen
	m.Tos = hdr.Tos
	m.Table = hdr.Table
	m.Protocol = hdr.Protocol
	m.Scope = hdr.Scope
	m.Type = hdr.Type
	m.Flags = hdr.Flags

	m.Attributes = RouteAttributes{}
	if len(b) > nl.SizeofRtMsg {
		ad, err := nl.NewAttributeDecoder(b[nl.SizeofRtMsg:])
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
func (*RouteMessage) rtMessage() {}

type RouteService struct {
	c *Conn
}

// Add a new route.
func (r *RouteService) Add(req *RouteMessage) error {
	flags := nl.Request | nl.Create | nl.Acknowledge | nl.Excl
	_, err := r.c.Execute(req, unix.RTM_NEWROUTE, flags)
	return err
}

// Replace or add a new route.
func (r *RouteService) Replace(req *RouteMessage) error {
	flags := nl.Request | nl.Create | nl.Replace | nl.Acknowledge
	_, err := r.c.Execute(req, unix.RTM_NEWROUTE, flags)
	return err
}

// Delete an existing route.
func (r *RouteService) Delete(req *RouteMessage) error {
	flags := nl.Request | nl.Acknowledge
	_, err := r.c.Execute(req, unix.RTM_DELROUTE, flags)
	return err
}

// Get matching route(s), filtered by the non-zero Table/Protocol/Scope/Type
// fields of req against the rtmsg header of each dumped route, and with
// RTA_MULTIPATH flattened into one result per nexthop.
func (r *RouteService) Get(req *RouteMessage) ([]RouteMessage, error) {
	return r.dump(req)
}

// List all routes, with RTA_MULTIPATH flattened into one result per nexthop.
func (r *RouteService) List() ([]RouteMessage, error) {
	return r.dump(&RouteMessage{})
}

// dump issues RTM_GETROUTE as a dump and runs each reply through the NLA
// tree built by routeTree(filter): the tree rejects non-matching messages
// against the rtmsg header before any attribute is parsed, and collects
// RTA_MULTIPATH entries for expandRouteAccum to flatten afterward.
func (r *RouteService) dump(filter *RouteMessage) ([]RouteMessage, error) {
	body, err := filter.MarshalBinary()
	if err != nil {
		return nil, err
	}

	tree := routeTree(filter)
	parse := func(payload []byte) (nl.Accumulator, error) {
		return tree.Parse(payload)
	}

	it, err := nl.Dump(unix.RTM_GETROUTE, unix.RTM_GETROUTE, body, parse, r.c.c)
	if err != nil {
		return nil, err
	}

	var routes []RouteMessage
	for it.Next() {
		routes = append(routes, expandRouteAccum(it.Accum())...)
	}
	return routes, it.Err()
}

type RouteAttributes struct {
	Dst       net.IP
	Src       net.IP
	Gateway   net.IP
	OutIface  uint32
	Priority  uint32
	Table     uint32
	Mark      uint32
	Expires   *uint32
	Metrics   *RouteMetrics
	Multipath []NextHop
}

func (a *RouteAttributes) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.RTA_UNSPEC:
			// unused attribute
		case unix.RTA_DST:
			if l := len(ad.Bytes()); l != 4 && l != 16 {
				return errInvalidRouteMessageAttr
			}
			a.Dst = append(net.IP(nil), ad.Bytes()...)
		case unix.RTA_PREFSRC:
			if l := len(ad.Bytes()); l != 4 && l != 16 {
				return errInvalidRouteMessageAttr
			}
			a.Src = append(net.IP(nil), ad.Bytes()...)
		case unix.RTA_GATEWAY:
			if l := len(ad.Bytes()); l != 4 && l != 16 {
				return errInvalidRouteMessageAttr
			}
			a.Gateway = append(net.IP(nil), ad.Bytes()...)
		case unix.RTA_OIF:
			a.OutIface = ad.Uint32()
		case unix.RTA_PRIORITY:
			a.Priority = ad.Uint32()
		case unix.RTA_TABLE:
			a.Table = ad.Uint32()
		case unix.RTA_MARK:
			a.Mark = ad.Uint32()
		case unix.RTA_EXPIRES:
			timeout := ad.Uint32()
			a.Expires = &timeout
		case unix.RTA_METRICS:
			a.Metrics = &RouteMetrics{}
			if err := ad.Nested(a.Metrics.decode); err != nil {
				return err
			}
		case unix.RTA_MULTIPATH:
			mp, err := decodeMultipath(ad.Bytes())
			if err != nil {
				return err
			}
			a.Multipath = mp
		}
	}
	return ad.Err()
}

func (a *RouteAttributes) encode(ae *nl.AttributeEncoder) error {
	if a.Dst != nil {
		ae.IP(unix.RTA_DST, a.Dst)
	}
	if a.Src != nil {
		ae.IP(unix.RTA_PREFSRC, a.Src)
	}
	if a.Gateway != nil {
		ae.IP(unix.RTA_GATEWAY, a.Gateway)
	}
	if a.OutIface != 0 {
		ae.Uint32(unix.RTA_OIF, a.OutIface)
	}
	if a.Priority != 0 {
		ae.Uint32(unix.RTA_PRIORITY, a.Priority)
	}
	if a.Table != 0 {
		ae.Uint32(unix.RTA_TABLE, a.Table)
	}
	if a.Mark != 0 {
		ae.Uint32(unix.RTA_MARK, a.Mark)
	}
	if a.Expires != nil {
		ae.Uint32(unix.RTA_EXPIRES, *a.Expires)
	}
	if a.Metrics != nil {
		ae.Nested(unix.RTA_METRICS, a.Metrics.encode)
	}
	if len(a.Multipath) != 0 {
		b, err := encodeMultipath(a.Multipath)
		if err != nil {
			return err
		}
		ae.Bytes(unix.RTA_MULTIPATH, b)
	}

	return nil
}

// RouteMetrics holds advanced metrics for a route (RTA_METRICS).
type RouteMetrics struct {
	AdvMSS   uint32
	Features uint32
	InitCwnd uint32
	MTU      uint32
}

func (rm *RouteMetrics) decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		switch ad.Type() {
		case unix.RTAX_ADVMSS:
			rm.AdvMSS = ad.Uint32()
		case unix.RTAX_FEATURES:
			rm.Features = ad.Uint32()
		case unix.RTAX_INITCWND:
			rm.InitCwnd = ad.Uint32()
		case unix.RTAX_MTU:
			rm.MTU = ad.Uint32()
		}
	}
	// ad.Err is surfaced by the calling Nested call.
	return nil
}

func (rm *RouteMetrics) encode(ae *nl.AttributeEncoder) error {
	if rm.AdvMSS != 0 {
		ae.Uint32(unix.RTAX_ADVMSS, rm.AdvMSS)
	}
	if rm.Features != 0 {
		ae.Uint32(unix.RTAX_FEATURES, rm.Features)
	}
	if rm.InitCwnd != 0 {
		ae.Uint32(unix.RTAX_INITCWND, rm.InitCwnd)
	}
	if rm.MTU != 0 {
		ae.Uint32(unix.RTAX_MTU, rm.MTU)
	}
	return nil
}

// NextHop is one entry of RTA_MULTIPATH: a struct rtnexthop plus its
// nested per-hop attributes.
type NextHop struct {
	IfIndex int32
	Hops    uint8
	Flags   uint8
	Gateway net.IP
}

// decodeMultipath parses the RTA_MULTIPATH payload: a back-to-back array
// of struct rtnexthop, each possibly followed by nested attributes
// (typically RTA_GATEWAY), with rtnexthop.rtnh_len covering both.
func decodeMultipath(b []byte) ([]NextHop, error) {
	var hops []NextHop
	for len(b) > 0 {
		if len(b) < nl.SizeofRtNexthop {
			return nil, errInvalidRouteMessageAttr
		}
		h, err := nl.ParseRtNexthop(b)
		if err != nil {
			return nil, err
		}
		if int(h.Len) < nl.SizeofRtNexthop || int(h.Len) > len(b) {
			return nil, errInvalidRouteMessageAttr
		}

		nh := NextHop{IfIndex: h.IfIndex, Hops: h.Hops, Flags: h.Flags}
		if int(h.Len) > nl.SizeofRtNexthop {
			ad, err := nl.NewAttributeDecoder(b[nl.SizeofRtNexthop:h.Len])
			if err != nil {
				return nil, err
			}
			for ad.Next() {
				if ad.Type() == unix.RTA_GATEWAY {
					if l := len(ad.Bytes()); l != 4 && l != 16 {
						return nil, errInvalidRouteMessageAttr
					}
					nh.Gateway = append(net.IP(nil), ad.Bytes()...)
				}
			}
			if err := ad.Err(); err != nil {
				return nil, err
			}
		}

		hops = append(hops, nh)
		b = b[(int(h.Len)+3)&^3:]
	}
	return hops, nil
}

func encodeMultipath(hops []NextHop) ([]byte, error) {
	var buf []byte
	for _, nh := range hops {
		var gw []byte
		if nh.Gateway != nil {
			gae := nl.NewAttributeEncoder()
			gae.IP(unix.RTA_GATEWAY, nh.Gateway)
			var err error
			gw, err = gae.Encode()
			if err != nil {
				return nil, err
			}
		}

		h := nl.RtNexthop{
			Len:     uint16(nl.SizeofRtNexthop + len(gw)),
			Flags:   nh.Flags,
			Hops:    nh.Hops,
			IfIndex: nh.IfIndex,
		}
		buf = append(buf, h.Bytes()...)
		buf = append(buf, gw...)
	}
	return buf, nil
}

// routeTree builds the NLA tree describing one RTM_NEWROUTE reply: the
// rtmsg header (with the dump filter short-circuit, if filter is non-nil
// and sets any of Table/Protocol/Scope/Type) followed by the RTA_* children
// a RouteAttributes needs, including RTA_MULTIPATH as a ListOfStruct of
// rtnexthop entries. Parse on the returned node is the real decode path for
// RouteService.List/Get; RouteMessage.UnmarshalBinary keeps the simpler
// flat decode for the single-object transact echo (Add/Replace/Delete),
// which has no filter or multipath-flattening concern of its own.
func routeTree(filter *RouteMessage) *nl.StructWithTail {
	root := &nl.StructWithTail{
		Size:         nl.SizeofRtMsg,
		DecodeStruct: routeHeaderDecode(filter),
	}
	root.Children = append(root.Children,
		&nl.Scalar{Tag: unix.RTA_DST, Kind: nl.KindIP, OnDecode: setAccum("dst")},
		&nl.Scalar{Tag: unix.RTA_PREFSRC, Kind: nl.KindIP, OnDecode: setAccum("src")},
		&nl.Scalar{Tag: unix.RTA_GATEWAY, Kind: nl.KindIP, OnDecode: setAccum("gateway")},
		&nl.Scalar{Tag: unix.RTA_OIF, Kind: nl.KindUint32, OnDecode: setAccum("oif")},
		&nl.Scalar{Tag: unix.RTA_PRIORITY, Kind: nl.KindUint32, OnDecode: setAccum("priority")},
		&nl.Scalar{Tag: unix.RTA_TABLE, Kind: nl.KindUint32, OnDecode: setAccum("table_attr")},
		&nl.Scalar{Tag: unix.RTA_MARK, Kind: nl.KindUint32, OnDecode: setAccum("mark")},
		&nl.Scalar{Tag: unix.RTA_EXPIRES, Kind: nl.KindUint32, OnDecode: setAccum("expires")},
		routeMetricsNested(),
		&nl.ListOfStruct{
			Tag:      unix.RTA_MULTIPATH,
			Key:      "hops",
			NewEntry: newNextHopEntry,
			EntryLen: nextHopEntryLen,
		},
	)
	return root
}

// routeHeaderDecode parses the rtmsg header into the accumulator and, when
// filter requests it, rejects the message before decodeChildren ever walks
// an attribute: StructWithTail.decode always runs DecodeStruct before
// Children, so this is the "short-circuit rejections applied against the
// rtmsg header before the attribute walk" spec.md describes. A filter field
// left zero is treated as unset (RT_TABLE_UNSPEC/RTPROT_UNSPEC/etc. are all
// zero, so a caller never legitimately filters for the zero value).
func routeHeaderDecode(filter *RouteMessage) func(accum nl.Accumulator, b []byte) error {
	return func(accum nl.Accumulator, b []byte) error {
		hdr, err := nl.ParseRtMsg(b)
		if err != nil {
			return err
		}
		if filter != nil {
			if filter.Table != 0 && hdr.Table != filter.Table {
				return nl.ErrStopParsing
			}
			if filter.Protocol != 0 && hdr.Protocol != filter.Protocol {
				return nl.ErrStopParsing
			}
			if filter.Scope != 0 && hdr.Scope != filter.Scope {
				return nl.ErrStopParsing
			}
			if filter.Type != 0 && hdr.Type != filter.Type {
				return nl.ErrStopParsing
			}
		}
		accum["family"] = hdr.Family
		accum["dst_len"] = hdr.DstLen
		accum["src_len"] = hdr.SrcLen
		accum["tos"] = hdr.Tos
		accum["table"] = hdr.Table
		accum["protocol"] = hdr.Protocol
		accum["scope"] = hdr.Scope
		accum["type"] = hdr.Type
		accum["flags"] = hdr.Flags
		return nil
	}
}

// setAccum returns a Scalar OnDecode callback that stores the decoded value
// under key, the shape every plain (non-filtering) route attribute uses.
func setAccum(key string) func(nl.Accumulator, any) error {
	return func(accum nl.Accumulator, v any) error {
		accum[key] = v
		return nil
	}
}

func routeMetricsNested() *nl.Nested {
	n := &nl.Nested{Tag: unix.RTA_METRICS}
	n.Children = append(n.Children,
		&nl.Scalar{Tag: unix.RTAX_ADVMSS, Kind: nl.KindUint32, OnDecode: setAccum("advmss")},
		&nl.Scalar{Tag: unix.RTAX_FEATURES, Kind: nl.KindUint32, OnDecode: setAccum("features")},
		&nl.Scalar{Tag: unix.RTAX_INITCWND, Kind: nl.KindUint32, OnDecode: setAccum("initcwnd")},
		&nl.Scalar{Tag: unix.RTAX_MTU, Kind: nl.KindUint32, OnDecode: setAccum("mtu")},
	)
	return n
}

// newNextHopEntry builds the StructWithTail for one RTA_MULTIPATH entry: a
// fixed rtnexthop header (ifindex/hops/flags) plus its own RTA_GATEWAY.
func newNextHopEntry() *nl.StructWithTail {
	t := &nl.StructWithTail{Size: nl.SizeofRtNexthop}
	t.DecodeStruct = func(accum nl.Accumulator, b []byte) error {
		h, err := nl.ParseRtNexthop(b)
		if err != nil {
			return err
		}
		accum["nh_ifindex"] = h.IfIndex
		accum["nh_hops"] = h.Hops
		accum["nh_flags"] = h.Flags
		return nil
	}
	t.Children = append(t.Children,
		&nl.Scalar{Tag: unix.RTA_GATEWAY, Kind: nl.KindIP, OnDecode: setAccum("nh_gateway")},
	)
	return t
}

// nextHopEntryLen reads one entry's own rtnh_len to find where it ends,
// rounded up to the 4-byte boundary separating back-to-back rtnexthop
// entries (mirrors the advance decodeMultipath used to perform by hand).
func nextHopEntryLen(b []byte) (int, error) {
	if len(b) < nl.SizeofRtNexthop {
		return 0, errInvalidRouteMessageAttr
	}
	h, err := nl.ParseRtNexthop(b)
	if err != nil {
		return 0, err
	}
	if int(h.Len) < nl.SizeofRtNexthop || int(h.Len) > len(b) {
		return 0, errInvalidRouteMessageAttr
	}
	n := (int(h.Len) + 3) &^ 3
	if n > len(b) {
		n = len(b)
	}
	return n, nil
}

// expandRouteAccum turns one routeTree accumulator into one or more
// RouteMessage values: one per RTA_MULTIPATH nexthop, each the route-level
// fields merged with that nexthop's gateway/ifindex, or a single value
// carrying the route's own attributes when there is no multipath.
func expandRouteAccum(a nl.Accumulator) []RouteMessage {
	base := RouteMessage{
		Family:    accumUint8(a, "family"),
		DstLength: accumUint8(a, "dst_len"),
		SrcLength: accumUint8(a, "src_len"),
		Tos:       accumUint8(a, "tos"),
		Table:     accumUint8(a, "table"),
		Protocol:  accumUint8(a, "protocol"),
		Scope:     accumUint8(a, "scope"),
		Type:      accumUint8(a, "type"),
		Flags:     accumUint32(a, "flags"),
	}
	base.Attributes = RouteAttributes{
		Dst:      accumIP(a, "dst"),
		Src:      accumIP(a, "src"),
		Gateway:  accumIP(a, "gateway"),
		OutIface: accumUint32(a, "oif"),
		Priority: accumUint32(a, "priority"),
		Table:    accumUint32(a, "table_attr"),
		Mark:     accumUint32(a, "mark"),
	}
	if v, ok := a["expires"]; ok {
		e := v.(uint32)
		base.Attributes.Expires = &e
	}
	_, hasAdvMSS := a["advmss"]
	_, hasFeatures := a["features"]
	_, hasInitCwnd := a["initcwnd"]
	_, hasMTU := a["mtu"]
	if hasAdvMSS || hasFeatures || hasInitCwnd || hasMTU {
		base.Attributes.Metrics = &RouteMetrics{
			AdvMSS:   accumUint32(a, "advmss"),
			Features: accumUint32(a, "features"),
			InitCwnd: accumUint32(a, "initcwnd"),
			MTU:      accumUint32(a, "mtu"),
		}
	}

	hopsVal, ok := a["hops"]
	if !ok {
		return []RouteMessage{base}
	}
	hops, _ := hopsVal.([]nl.Accumulator)
	if len(hops) == 0 {
		return []RouteMessage{base}
	}

	out := make([]RouteMessage, 0, len(hops))
	for _, h := range hops {
		rm := base
		rm.Attributes.Gateway = accumIP(h, "nh_gateway")
		rm.Attributes.OutIface = uint32(accumInt32(h, "nh_ifindex"))
		out = append(out, rm)
	}
	return out
}

func accumUint8(a nl.Accumulator, key string) uint8 {
	v, _ := a[key].(uint8)
	return v
}

func accumUint32(a nl.Accumulator, key string) uint32 {
	v, _ := a[key].(uint32)
	return v
}

func accumInt32(a nl.Accumulator, key string) int32 {
	v, _ := a[key].(int32)
	return v
}

func accumIP(a nl.Accumulator, key string) net.IP {
	v, _ := a[key].(net.IP)
	return v
}
