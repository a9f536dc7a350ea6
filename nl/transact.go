package nl

import localunix "github.com/ionos-cloud/netlinklib/internal/unix"

// Transact issues a single request/reply exchange: NLM_F_REQUEST is
// always present; the caller supplies the rest of the flags (typically
// NLM_F_ACK combined with NLM_F_CREATE/NLM_F_EXCL/NLM_F_REPLACE/NLM_F_ECHO
// depending on the operation). It returns:
//   - (nil, nil) on NLMSG_ERROR{error: 0} — a plain acknowledgement.
//   - (nil, *NetlinkError) on NLMSG_ERROR{error: negative}.
//   - (payload, nil) when NLM_F_ECHO was requested and the kernel echoed
//     back a message of expectedReplyType.
//
// If sock is nil an ephemeral socket is opened and released before return.
func Transact(reqType uint16, expectedReplyType uint16, body []byte, flags HeaderFlags, sock *Conn) ([]byte, error) {
	conn := sock
	ephemeral := false
	if conn == nil {
		c, err := Dial(nil)
		if err != nil {
			return nil, err
		}
		conn, ephemeral = c, true
	}
	if ephemeral {
		defer conn.Close()
	}

	seq := conn.nextSeq()
	hdr := Header{Type: reqType, Flags: flags | Request, Sequence: seq, PID: conn.pid}
	if err := conn.send(Message{Header: hdr, Data: body}); err != nil {
		return nil, err
	}

	for {
		msgs, err := conn.receive()
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			if m.Header.Type == localunix.NLMSG_NOOP {
				continue
			}
			// Sequence validation the source never performed; a stricter
			// reading resolved explicitly rather than copied as-is.
			if m.Header.Sequence != seq {
				return nil, newProtocolError("reply sequence does not match request", nil)
			}
			if m.Header.Type == localunix.NLMSG_ERROR {
				e, perr := ParseNlMsgErr(m.Data)
				if perr != nil {
					return nil, perr
				}
				if e.Error == 0 {
					return nil, nil
				}
				errno := int(-e.Error)
				return nil, &NetlinkError{Errno: errno, Message: errnoMessage(errno), Request: body}
			}
			if flags&Echo == 0 {
				return nil, newProtocolError("unexpected reply without NLM_F_ECHO", nil)
			}
			if m.Header.Type != expectedReplyType {
				return nil, newProtocolError("unexpected echo message type", nil)
			}
			return m.Data, nil
		}
	}
}
