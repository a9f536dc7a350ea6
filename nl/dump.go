package nl

import localunix "github.com/ionos-cloud/netlinklib/internal/unix"

func errnoMessage(errno int) string {
	if errno == 0 {
		return ""
	}
	return errnoError(errno).Error()
}

// ParseFunc turns the payload of one reply message (past the nlmsghdr)
// into an Accumulator, or returns ErrStopParsing to drop the message.
type ParseFunc func(payload []byte) (Accumulator, error)

// DumpIter is the lazy, single-pass producer a Dump call returns: one
// Next/Accum/Err cycle per yielded message, backed directly by the socket.
type DumpIter struct {
	conn      *Conn
	ephemeral bool
	expected  uint16
	parse     ParseFunc

	pending  []Message
	current  Accumulator
	dumpIntr bool
	done     bool
	err      error
}

// Dump issues a dump request (NLM_F_REQUEST|NLM_F_DUMP) for reqType and
// returns an iterator over replies of expectedReplyType, each decoded by
// parse. If sock is nil an ephemeral socket is opened for the duration of
// the iteration and released when it completes or fails.
func Dump(reqType uint16, expectedReplyType uint16, body []byte, parse ParseFunc, sock *Conn) (*DumpIter, error) {
	conn := sock
	ephemeral := false
	if conn == nil {
		c, err := Dial(nil)
		if err != nil {
			return nil, err
		}
		conn, ephemeral = c, true
	}
	conn.setStrict()

	hdr := Header{Type: reqType, Flags: Request | Dump, Sequence: 1, PID: conn.pid}
	if err := conn.send(Message{Header: hdr, Data: body}); err != nil {
		if ephemeral {
			conn.Close()
		}
		return nil, err
	}

	return &DumpIter{conn: conn, ephemeral: ephemeral, expected: expectedReplyType, parse: parse}, nil
}

// Next advances to the next yielded accumulator, returning false at the
// end of the stream or on the first failure (check Err afterward — which
// may be DumpInterrupted, raised only once the stream has fully ended).
func (it *DumpIter) Next() bool {
	if it.done {
		return false
	}
	for {
		if len(it.pending) == 0 {
			msgs, err := it.conn.receive()
			if err != nil {
				it.fail(err)
				return false
			}
			if len(msgs) == 0 {
				it.finish()
				return false
			}
			it.pending = msgs
		}

		m := it.pending[0]
		it.pending = it.pending[1:]

		if m.Header.Flags&dumpIntr != 0 {
			it.dumpIntr = true
		}

		switch m.Header.Type {
		case localunix.NLMSG_NOOP:
			continue
		case localunix.NLMSG_DONE:
			it.finish()
			return false
		case localunix.NLMSG_ERROR:
			e, err := ParseNlMsgErr(m.Data)
			if err != nil {
				it.fail(err)
				return false
			}
			errno := int(-e.Error)
			it.fail(&NetlinkError{Errno: errno, Message: errnoMessage(errno)})
			return false
		default:
			if m.Header.Type != it.expected {
				it.fail(newProtocolError("unexpected message type in dump stream", nil))
				return false
			}
			accum, err := it.parse(m.Data)
			if err != nil {
				if IsStopParsing(err) {
					continue
				}
				it.fail(err)
				return false
			}
			it.current = accum
			return true
		}
	}
}

// Accum returns the accumulator produced by the most recent successful Next.
func (it *DumpIter) Accum() Accumulator { return it.current }

// Err returns the terminal error, if any: a NetlinkError, a ProtocolError,
// or DumpInterrupted once the stream has ended with NLM_F_DUMP_INTR set on
// one or more messages. Results yielded before it are a valid prefix.
func (it *DumpIter) Err() error { return it.err }

// Close releases the ephemeral socket early (cancellation by iterator
// drop); a no-op on a caller-supplied socket.
func (it *DumpIter) Close() error {
	if it.done {
		return nil
	}
	it.done = true
	if it.ephemeral {
		return it.conn.Close()
	}
	return nil
}

func (it *DumpIter) finish() {
	it.done = true
	if it.dumpIntr {
		it.err = DumpInterrupted{}
	}
	if it.ephemeral {
		it.conn.Close()
	}
}

func (it *DumpIter) fail(err error) {
	it.err = err
	it.done = true
	if it.ephemeral {
		it.conn.Close()
	}
}

// Collect drains the iterator into a slice, for callers that don't need
// the lazy form. The final error (if any, including DumpInterrupted) is
// returned alongside whatever was yielded before it.
func Collect(it *DumpIter) ([]Accumulator, error) {
	var out []Accumulator
	for it.Next() {
		out = append(out, it.Accum())
	}
	return out, it.Err()
}
