package rtnl

import (
	"reflect"

	"github.com/ionos-cloud/netlinklib"
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// newMessageLike allocates a fresh zero-valued Message of the same
// concrete type as template, mirroring netlinklib's own unexported
// newMessage helper since Monitor sits outside that package.
func newMessageLike(template netlinklib.Message) netlinklib.Message {
	t := reflect.TypeOf(template).Elem()
	return reflect.New(t).Interface().(netlinklib.Message)
}

// MonitorEvent is one decoded multicast notification: the message kind and
// the parsed netlinklib message, whichever type the kind implies.
type MonitorEvent struct {
	Type    uint16
	Message netlinklib.Message
}

// Monitor is a live feed of rtnetlink multicast notifications (link, route,
// neighbor and address changes), wrapping nl's event listener the way the
// Python package's nll_make_event_listener/nll_get_events pair did, but
// decoded into the same typed Message values List()/Get() return.
type Monitor struct {
	conn *nl.Conn
}

// defaultMonitorGroups joins the six groups a general-purpose network
// state monitor cares about; callers after a narrower feed should dial
// nl.MakeEventListener directly.
const defaultMonitorGroups = unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR |
	unix.RTMGRP_IPV6_IFADDR | unix.RTMGRP_IPV4_ROUTE | unix.RTMGRP_IPV6_ROUTE | unix.RTMGRP_NEIGH

// NewMonitor opens a multicast listener socket. block selects blocking vs.
// non-blocking GetEvents semantics (see nl.MakeEventListener).
func NewMonitor(block bool) (*Monitor, error) {
	conn, err := nl.MakeEventListener(defaultMonitorGroups, block)
	if err != nil {
		return nil, err
	}
	return &Monitor{conn: conn}, nil
}

// Close releases the monitor's socket.
func (m *Monitor) Close() error { return m.conn.Close() }

func parseInto(template netlinklib.Message) nl.ParseFunc {
	return func(payload []byte) (nl.Accumulator, error) {
		msg := newMessageLike(template)
		if err := msg.UnmarshalBinary(payload); err != nil {
			return nil, err
		}
		return nl.Accumulator{"msg": msg}, nil
	}
}

var monitorTable = nl.ParserTable{
	unix.RTM_NEWLINK:  parseInto(&netlinklib.LinkMessage{}),
	unix.RTM_DELLINK:  parseInto(&netlinklib.LinkMessage{}),
	unix.RTM_NEWROUTE: parseInto(&netlinklib.RouteMessage{}),
	unix.RTM_DELROUTE: parseInto(&netlinklib.RouteMessage{}),
	unix.RTM_NEWNEIGH: parseInto(&netlinklib.NeighMessage{}),
	unix.RTM_DELNEIGH: parseInto(&netlinklib.NeighMessage{}),
	unix.RTM_NEWADDR:  parseInto(&netlinklib.AddressMessage{}),
	unix.RTM_DELADDR:  parseInto(&netlinklib.AddressMessage{}),
}

// Events drains whatever notifications are currently available. In
// blocking mode it blocks until at least one arrives; in non-blocking mode
// a call with nothing ready returns (nil, nil).
func (m *Monitor) Events() ([]MonitorEvent, error) {
	raw, err := nl.GetEvents(monitorTable, m.conn)
	out := make([]MonitorEvent, 0, len(raw))
	for _, e := range raw {
		out = append(out, MonitorEvent{Type: e.Type, Message: e.Accum["msg"].(netlinklib.Message)})
	}
	return out, err
}
