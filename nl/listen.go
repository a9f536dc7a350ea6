package nl

import (
	"errors"

	"golang.org/x/sys/unix"

	localunix "github.com/ionos-cloud/netlinklib/internal/unix"
)

// ParserTable indexes per-message-type parsers for the event listener,
// mirroring the per-object dump/transact parser contract: a message type
// not present in the table fails the iteration.
type ParserTable map[uint16]ParseFunc

// Event is one decoded multicast notification.
type Event struct {
	Type  uint16
	Accum Accumulator
}

// MakeEventListener opens a socket bound to the bitwise-OR of the given
// multicast groups. In blocking mode GetEvents blocks until a message
// arrives; in non-blocking mode it returns immediately with no events
// when none are ready, suitable for driving from an external poll loop.
func MakeEventListener(groups uint32, block bool) (*Conn, error) {
	conn, err := Dial(&Config{Groups: groups})
	if err != nil {
		return nil, err
	}
	if !block {
		if err := unix.SetNonblock(conn.fd, true); err != nil {
			conn.Close()
			return nil, newProtocolError("set non-blocking", err)
		}
	}
	return conn, nil
}

// GetEvents reads and parses whatever the socket currently has available.
// In non-blocking mode, EAGAIN/EWOULDBLOCK yields (nil, nil): no message
// was ready, call again later. An unrecognized message type fails the
// call; events already decoded are still returned alongside the error.
func GetEvents(table ParserTable, conn *Conn) ([]Event, error) {
	buf := make([]byte, 65536)
	n, _, err := unix.Recvfrom(conn.fd, buf, 0)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return nil, nil
		}
		return nil, newProtocolError("recvfrom", err)
	}

	msgs, err := splitMessages(buf[:n])
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, m := range msgs {
		switch m.Header.Type {
		case localunix.NLMSG_NOOP:
			continue
		case localunix.NLMSG_ERROR:
			e, perr := ParseNlMsgErr(m.Data)
			if perr != nil {
				return events, perr
			}
			if e.Error != 0 {
				errno := int(-e.Error)
				return events, &NetlinkError{Errno: errno, Message: errnoMessage(errno)}
			}
			continue
		}

		parse, ok := table[m.Header.Type]
		if !ok {
			return events, newProtocolError("unrecognized event message type", nil)
		}
		accum, err := parse(m.Data)
		if err != nil {
			if IsStopParsing(err) {
				continue
			}
			return events, err
		}
		events = append(events, Event{Type: m.Header.Type, Accum: accum})
	}
	return events, nil
}
