package rtnl

import (
	"fmt"
	"net"

	"github.com/ionos-cloud/netlinklib"
	"github.com/ionos-cloud/netlinklib/internal/unix"
)

// routeOptions carries the mutable state RouteOption functions adjust
// before genRouteMessage builds the wire request.
type routeOptions struct {
	Src   *net.IPNet
	Attrs netlinklib.RouteAttributes
}

// RouteOption customizes a route add/replace request built by RouteAdd or
// RouteReplace, in the functional-options idiom the rest of this package's
// callers already expect.
type RouteOption func(*routeOptions)

// WithSource sets the preferred source address for the route.
func WithSource(src *net.IPNet) RouteOption {
	return func(o *routeOptions) { o.Src = src }
}

// WithTable overrides the routing table (default: RT_TABLE_MAIN).
func WithTable(table uint32) RouteOption {
	return func(o *routeOptions) { o.Attrs.Table = table }
}

// WithPriority sets the route's metric/priority.
func WithPriority(prio uint32) RouteOption {
	return func(o *routeOptions) { o.Attrs.Priority = prio }
}

// DefaultRouteOptions returns the base set of route attributes shared by
// RouteAdd and RouteReplace before any RouteOption is applied: destination,
// gateway and outgoing interface.
func DefaultRouteOptions(ifc *net.Interface, dst net.IPNet, gw net.IP) *routeOptions {
	return &routeOptions{
		Attrs: netlinklib.RouteAttributes{
			Dst:      dst.IP,
			Gateway:  gw,
			OutIface: uint32(ifc.Index),
		},
	}
}

// addrFamily returns AF_INET or AF_INET6 for ip, or an error if ip is
// neither.
func addrFamily(ip net.IP) (int, error) {
	switch {
	case ip.To4() != nil:
		return unix.AF_INET, nil
	case len(ip) == net.IPv6len:
		return unix.AF_INET6, nil
	default:
		return 0, fmt.Errorf("rtnl: address %v is neither IPv4 nor IPv6", ip)
	}
}

func genRouteMessage(ifc *net.Interface, dst net.IPNet, gw net.IP, options ...RouteOption) (*netlinklib.RouteMessage, error) {
	opts := DefaultRouteOptions(ifc, dst, gw)
	for _, option := range options {
		option(opts)
	}

	af, err := addrFamily(dst.IP)
	if err != nil {
		return nil, err
	}

	var scope uint8
	switch {
	case gw != nil:
		scope = unix.RT_SCOPE_UNIVERSE
	case len(dst.IP) == net.IPv6len && dst.IP.To4() == nil:
		scope = unix.RT_SCOPE_UNIVERSE
	default:
		scope = unix.RT_SCOPE_LINK
	}

	var srclen int
	if opts.Src != nil {
		srclen, _ = opts.Src.Mask.Size()
		opts.Attrs.Src = opts.Src.IP
	}

	table := opts.Attrs.Table
	if table == 0 {
		table = unix.RT_TABLE_MAIN
	}

	dstlen, _ := dst.Mask.Size()

	return &netlinklib.RouteMessage{
		Family:     uint8(af),
		Table:      uint8(table),
		Protocol:   unix.RTPROT_BOOT,
		Type:       unix.RTN_UNICAST,
		Scope:      scope,
		DstLength:  uint8(dstlen),
		SrcLength:  uint8(srclen),
		Attributes: opts.Attrs,
	}, nil
}

// RouteAdd adds information about a network route.
func (c *Conn) RouteAdd(ifc *net.Interface, dst net.IPNet, gw net.IP, options ...RouteOption) error {
	rm, err := genRouteMessage(ifc, dst, gw, options...)
	if err != nil {
		return err
	}
	return c.Conn.Route.Add(rm)
}

// RouteReplace adds or replaces information about a network route.
func (c *Conn) RouteReplace(ifc *net.Interface, dst net.IPNet, gw net.IP, options ...RouteOption) error {
	rm, err := genRouteMessage(ifc, dst, gw, options...)
	if err != nil {
		return err
	}
	return c.Conn.Route.Replace(rm)
}

// RouteDel deletes the route to the given destination.
func (c *Conn) RouteDel(ifc *net.Interface, dst net.IPNet) error {
	af, err := addrFamily(dst.IP)
	if err != nil {
		return err
	}
	prefixlen, _ := dst.Mask.Size()
	tx := &netlinklib.RouteMessage{
		Family:    uint8(af),
		Table:     unix.RT_TABLE_MAIN,
		DstLength: uint8(prefixlen),
		Attributes: netlinklib.RouteAttributes{
			Dst:      dst.IP,
			OutIface: uint32(ifc.Index),
		},
	}
	return c.Conn.Route.Delete(tx)
}

// Route is the resolved result of RouteGet: the gateway and egress
// interface the kernel's routing table picks for a destination.
type Route struct {
	Gateway   net.IP
	Interface *net.Interface
}

// RouteGet resolves the route the kernel would use to reach dst, by
// listing the main table and picking the longest matching prefix — the
// same best-match semantics RTM_GETROUTE's single-destination form
// applies, without requiring a second round trip to resolve the cache
// entry it would otherwise create.
func (c *Conn) RouteGet(dst net.IP) (Route, error) {
	routes, err := c.Conn.Route.List()
	if err != nil {
		return Route{}, err
	}

	var best *netlinklib.RouteMessage
	bestLen := -1
	for i := range routes {
		r := &routes[i]
		if r.Table != unix.RT_TABLE_MAIN {
			continue
		}
		if r.Attributes.Dst == nil {
			// default route: matches everything at prefix length 0.
			if bestLen < 0 {
				best, bestLen = r, 0
			}
			continue
		}
		mask := net.CIDRMask(int(r.DstLength), len(r.Attributes.Dst)*8)
		if !r.Attributes.Dst.Mask(mask).Equal(dst.Mask(mask)) {
			continue
		}
		if int(r.DstLength) > bestLen {
			best, bestLen = r, int(r.DstLength)
		}
	}
	if best == nil {
		return Route{}, fmt.Errorf("rtnl: no route to %v", dst)
	}

	ifc, err := net.InterfaceByIndex(int(best.Attributes.OutIface))
	if err != nil {
		return Route{}, err
	}
	return Route{Gateway: best.Attributes.Gateway, Interface: ifc}, nil
}
