// Package netlinklib implements the rtnetlink family of route netlink
// objects (links, addresses, routes, neighbors, rules) on top of the
// from-scratch NETLINK_ROUTE transport in package nl.
package netlinklib

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/ionos-cloud/netlinklib/nl"
	"github.com/ionos-cloud/netlinklib/tc"
)

// Config carries optional Dial parameters, mirroring nl.Config.
type Config struct {
	// Groups is a bitwise-OR of RTMGRP_* multicast groups to join at bind
	// time.
	Groups uint32
}

// A Conn is a route netlink connection. A Conn can be used to send and
// receive route netlink messages to and from the kernel.
type Conn struct {
	c *nl.Conn

	Link    *LinkService
	Address *AddressService
	Route   *RouteService
	Neigh   *NeighService
	Rule    *RuleService
}

// Dial dials a route netlink connection. config specifies optional
// configuration for the underlying socket; if nil, a default
// configuration is used.
func Dial(config *Config) (*Conn, error) {
	var nc nl.Config
	if config != nil {
		nc.Groups = config.Groups
	}

	c, err := nl.Dial(&nc)
	if err != nil {
		return nil, err
	}

	return newConn(c), nil
}

func newConn(c *nl.Conn) *Conn {
	rtc := &Conn{c: c}

	rtc.Link = &LinkService{c: rtc}
	rtc.Address = &AddressService{c: rtc}
	rtc.Route = &RouteService{c: rtc}
	rtc.Neigh = &NeighService{c: rtc}
	rtc.Rule = &RuleService{c: rtc}

	return rtc
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.c.Close()
}

// TC returns a traffic-control connection sharing this Conn's underlying
// socket, so qdisc/class/filter calls don't need a second Dial.
func (c *Conn) TC() *tc.Conn {
	return tc.NewConn(c.c)
}

// Message is the interface used for passing around different kinds of
// rtnetlink messages.
type Message interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	rtMessage()
}

// newMessage allocates a new, zero-valued Message of the same concrete
// type as template.
func newMessage(template Message) Message {
	t := reflect.TypeOf(template).Elem()
	return reflect.New(t).Interface().(Message)
}

// Execute sends m to the kernel as msgType with the given flags and
// returns the decoded replies.
//
//   - NLM_F_DUMP set: the request is a multi-part dump; every reply of
//     msgType is decoded into a fresh Message of m's concrete type.
//   - NLM_F_DUMP unset: the request is a single transaction; an
//     NLM_F_ECHO reply is decoded the same way, a bare acknowledgement
//     yields no messages.
func (c *Conn) Execute(m Message, msgType uint16, flags nl.HeaderFlags) ([]Message, error) {
	body, err := m.MarshalBinary()
	if err != nil {
		return nil, err
	}

	parse := func(payload []byte) (nl.Accumulator, error) {
		out := newMessage(m)
		if err := out.UnmarshalBinary(payload); err != nil {
			return nil, err
		}
		return nl.Accumulator{"msg": out}, nil
	}

	if flags&nl.Dump != 0 {
		it, err := nl.Dump(msgType, msgType, body, parse, c.c)
		if err != nil {
			return nil, err
		}
		var out []Message
		for it.Next() {
			out = append(out, it.Accum()["msg"].(Message))
		}
		return out, it.Err()
	}

	reply, err := nl.Transact(msgType, msgType, body, flags, c.c)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, nil
	}

	accum, err := parse(reply)
	if err != nil {
		return nil, err
	}
	return []Message{accum["msg"].(Message)}, nil
}

// requestError wraps an unexpected reply count for a request expecting
// exactly one message.
func requestError(n int) error {
	return fmt.Errorf("netlinklib: expected exactly one reply, got %d", n)
}
