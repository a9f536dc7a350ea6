package nl

import (
	"encoding/binary"

	"github.com/ionos-cloud/netlinklib/internal/unix"
)

// native is the host byte order used for every netlink field except those
// explicitly declared big-endian at the wire boundary (e.g. GRE keys).
var native = binary.NativeEndian

const nlmsgHdrLen = 16 // unix.SizeofNlMsghdr

// HeaderFlags mirrors the rtnetlink request flag combinations used to build
// nlmsghdr.flags. Named the way the mdlayher/netlink package names them,
// since every service in this module composes requests the same way.
type HeaderFlags uint16

const (
	Request      HeaderFlags = unix.NLM_F_REQUEST
	Multi        HeaderFlags = unix.NLM_F_MULTI
	Acknowledge  HeaderFlags = unix.NLM_F_ACK
	Echo         HeaderFlags = unix.NLM_F_ECHO
	Dump         HeaderFlags = unix.NLM_F_DUMP
	Root         HeaderFlags = unix.NLM_F_ROOT
	Match        HeaderFlags = unix.NLM_F_MATCH
	Atomic       HeaderFlags = unix.NLM_F_ATOMIC
	Create       HeaderFlags = unix.NLM_F_CREATE
	Excl         HeaderFlags = unix.NLM_F_EXCL
	Replace      HeaderFlags = unix.NLM_F_REPLACE
	Append       HeaderFlags = unix.NLM_F_APPEND

	// DumpFiltered is wire-identical to Dump: the kernel sees an ordinary
	// NLM_F_REQUEST|NLM_F_DUMP. Named separately from Dump only so a call
	// site reads as "this dump is filtered". Its one user is address.go's
	// Get, which decodes every reply without a header check. The header
	// short-circuits in link.go's Get and route.go's routeTree (dropping
	// non-matching replies via ErrStopParsing) are built on plain Dump.
	DumpFiltered HeaderFlags = Dump
)

// dumpIntr mirrors NLM_F_DUMP_INTR; x/sys/unix does not export it under
// that name on every arch, so it is reproduced verbatim here (kernel value
// is constant across architectures: 1<<4 in the low flag byte).
const dumpIntr HeaderFlags = 0x10

// Header is the wire nlmsghdr: every netlink message begins with one.
type Header struct {
	Length   uint32
	Type     uint16
	Flags    HeaderFlags
	Sequence uint32
	PID      uint32
}

func (h Header) marshal() []byte {
	b := make([]byte, nlmsgHdrLen)
	native.PutUint32(b[0:4], h.Length)
	native.PutUint16(b[4:6], h.Type)
	native.PutUint16(b[6:8], uint16(h.Flags))
	native.PutUint32(b[8:12], h.Sequence)
	native.PutUint32(b[12:16], h.PID)
	return b
}

func (h *Header) unmarshal(b []byte) error {
	if len(b) < nlmsgHdrLen {
		return newProtocolError("short nlmsghdr", nil)
	}
	h.Length = native.Uint32(b[0:4])
	h.Type = native.Uint16(b[4:6])
	h.Flags = HeaderFlags(native.Uint16(b[6:8]))
	h.Sequence = native.Uint32(b[8:12])
	h.PID = native.Uint32(b[12:16])
	return nil
}

// Message is one framed netlink message: header plus family payload and
// attribute list, not yet interpreted by a per-object parser.
type Message struct {
	Header Header
	Data   []byte
}

func (m Message) marshal() []byte {
	h := m.Header
	h.Length = uint32(nlmsgHdrLen + len(m.Data))
	return append(h.marshal(), m.Data...)
}

// NativeUint64 decodes a uint64 from b in host byte order, for fixed-layout
// payloads (e.g. rtnl_link_stats64) that arrive as raw bytes rather than
// through AttributeDecoder.
func NativeUint64(b []byte) uint64 { return native.Uint64(b) }

// NativeUint32 decodes a uint32 from b in host byte order.
func NativeUint32(b []byte) uint32 { return native.Uint32(b) }

// NativePutUint32 encodes v into b in host byte order.
func NativePutUint32(b []byte, v uint32) { native.PutUint32(b, v) }

// NativeUint16 decodes a uint16 from b in host byte order.
func NativeUint16(b []byte) uint16 { return native.Uint16(b) }

// NativePutUint16 encodes v into b in host byte order.
func NativePutUint16(b []byte, v uint16) { native.PutUint16(b, v) }

// nlmsgAlign rounds n up to the next multiple of 4, the alignment every
// nlmsghdr and rtattr boundary in the stream must satisfy.
func nlmsgAlign(n int) int {
	return (n + 3) &^ 3
}

// splitMessages frames one datagram into individual (header, payload)
// messages. It never buffers more than the single datagram passed in.
func splitMessages(buf []byte) ([]Message, error) {
	var msgs []Message
	for len(buf) >= nlmsgHdrLen {
		var h Header
		if err := h.unmarshal(buf); err != nil {
			return nil, err
		}
		if h.Length < nlmsgHdrLen || int(h.Length) > len(buf) {
			return nil, newProtocolError("truncated netlink message", nil)
		}
		msgs = append(msgs, Message{Header: h, Data: buf[nlmsgHdrLen:h.Length]})
		buf = buf[nlmsgAlign(int(h.Length)):]
	}
	return msgs, nil
}
