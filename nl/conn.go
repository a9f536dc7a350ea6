package nl

import (
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	localunix "github.com/ionos-cloud/netlinklib/internal/unix"
)

// Config carries optional Dial parameters. A nil Config dials an ephemeral,
// unbound (PID = 0, kernel-assigned) socket in no multicast groups.
type Config struct {
	// Groups is a bitwise-OR of RTMGRP_* multicast group numbers to join
	// at bind time, in addition to any later JoinGroup calls.
	Groups uint32

	// PID overrides the port ID used to bind the socket; zero lets the
	// kernel assign one (the common case for ephemeral sockets).
	PID uint32
}

// Conn is a single AF_NETLINK/SOCK_RAW/NETLINK_ROUTE socket. It does not
// serialize its own use: the caller must not invoke operations concurrently from
// multiple goroutines, matching the "one outstanding request per socket"
// assumption the transport makes throughout.
type Conn struct {
	fd    int
	pid   uint32
	seq   uint32
	owned bool
	mu    sync.Mutex
}

// Dial opens a new netlink/route socket. The returned Conn owns its file
// descriptor: Close releases it.
func Dial(config *Config) (*Conn, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW, localunix.NETLINK_ROUTE)
	if err != nil {
		return nil, newProtocolError("socket", err)
	}

	c := &Conn{fd: fd, owned: true}
	if config == nil {
		config = &Config{}
	}

	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Pid: config.PID, Groups: config.Groups}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, newProtocolError("bind", err)
	}

	got, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, newProtocolError("getsockname", err)
	}
	if nl, ok := got.(*unix.SockaddrNetlink); ok {
		c.pid = nl.Pid
	}
	if c.pid == 0 {
		c.pid = uint32(os.Getpid())
	}

	return c, nil
}

// newConn wraps an already-open, caller-owned file descriptor. Close on
// the returned Conn is then a no-op: ownership stays with the caller, per
// the transport's "user-supplied sockets are never closed by the library"
// rule.
func newConn(fd int, pid uint32) *Conn {
	return &Conn{fd: fd, pid: pid, owned: false}
}

// Close releases the socket if this Conn opened it; it is a no-op on a
// caller-supplied socket.
func (c *Conn) Close() error {
	if !c.owned {
		return nil
	}
	return unix.Close(c.fd)
}

// setStrict enables NETLINK_GET_STRICT_CHK so the kernel rejects malformed
// dump requests rather than silently returning everything. Best-effort:
// older kernels that do not recognize the option are left alone.
func (c *Conn) setStrict() {
	_ = unix.SetsockoptInt(c.fd, localunix.SOL_NETLINK, localunix.NETLINK_GET_STRICT_CHK, 1)
}

// JoinGroup subscribes the socket to an additional multicast group.
func (c *Conn) JoinGroup(group uint32) error {
	if err := unix.SetsockoptInt(c.fd, localunix.SOL_NETLINK, localunix.NETLINK_ADD_MEMBERSHIP, int(group)); err != nil {
		return newProtocolError("join multicast group", err)
	}
	return nil
}

// LeaveGroup unsubscribes the socket from a multicast group.
func (c *Conn) LeaveGroup(group uint32) error {
	if err := unix.SetsockoptInt(c.fd, localunix.SOL_NETLINK, localunix.NETLINK_DROP_MEMBERSHIP, int(group)); err != nil {
		return newProtocolError("leave multicast group", err)
	}
	return nil
}

// nextSeq returns the next request sequence number. Transact uses it for
// reply correlation (a stricter check than the source this library was
// distilled from ever performed); Dump always sends 1, since the kernel
// does not echo a distinguishing sequence per message within a multi-part
// dump.
func (c *Conn) nextSeq() uint32 {
	return atomic.AddUint32(&c.seq, 1)
}

// send transmits one fully-framed message to the kernel (destination PID 0).
func (c *Conn) send(msg Message) error {
	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(c.fd, msg.marshal(), 0, sa); err != nil {
		return newProtocolError("sendto", err)
	}
	return nil
}

// receive reads one datagram and frames it into zero or more messages.
// A netlink datagram is never truncated by recvfrom at this buffer size
// in practice; the framer validates lengths regardless.
func (c *Conn) receive() ([]Message, error) {
	buf := make([]byte, os.Getpagesize()*4)
	n, _, err := unix.Recvfrom(c.fd, buf, 0)
	if err != nil {
		return nil, newProtocolError("recvfrom", err)
	}
	return splitMessages(buf[:n])
}
