// Package tc implements the traffic-control subsystem (qdiscs, classes,
// filters) on top of the NETLINK_ROUTE transport in package nl, mirroring
// the root netlinklib package's per-object service shape.
package tc

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/ionos-cloud/netlinklib/nl"
)

// Conn is a route netlink connection scoped to traffic-control messages.
// It wraps the same *nl.Conn a netlinklib.Conn would, so callers that
// already dialed one for link/route/neighbor work can share the socket by
// constructing a Conn around the underlying nl.Conn rather than dialing a
// second one.
type Conn struct {
	c *nl.Conn

	Qdisc  *QdiscService
	Class  *ClassService
	Filter *FilterService
}

// Dial dials a connection dedicated to traffic-control messages. config
// specifies optional configuration for the underlying socket; if nil, a
// default configuration is used.
func Dial(config *nl.Config) (*Conn, error) {
	c, err := nl.Dial(config)
	if err != nil {
		return nil, err
	}
	return newConn(c), nil
}

// NewConn wraps an already-dialed *nl.Conn (e.g. one a netlinklib.Conn
// also holds) for traffic-control use, avoiding a second socket.
func NewConn(c *nl.Conn) *Conn {
	return newConn(c)
}

func newConn(c *nl.Conn) *Conn {
	tc := &Conn{c: c}
	tc.Qdisc = &QdiscService{c: tc}
	tc.Class = &ClassService{c: tc}
	tc.Filter = &FilterService{c: tc}
	return tc
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.c.Close()
}

// Message is the interface used for passing around qdisc/class/filter
// messages, mirroring netlinklib.Message.
type Message interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	tcMessage()
}

func newMessage(template Message) Message {
	t := reflect.TypeOf(template).Elem()
	return reflect.New(t).Interface().(Message)
}

// Execute sends m to the kernel as msgType with the given flags and
// returns the decoded replies, the same Dump-vs-Transact dispatch
// netlinklib.Conn.Execute uses.
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

func requestError(n int) error {
	return fmt.Errorf("tc: expected exactly one reply, got %d", n)
}
