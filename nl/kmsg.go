package nl

import "github.com/ionos-cloud/netlinklib/internal/unix"

// IfInfoMsg is the ifinfomsg family payload header carried by every link
// message (RTM_*LINK).
type IfInfoMsg struct {
	Family uint8
	_      uint8 // pad
	Type   uint16
	Index  int32
	Flags  uint32
	Change uint32
}

const SizeofIfInfoMsg = unix.SizeofIfInfomsg

func (m IfInfoMsg) Bytes() []byte {
	b := make([]byte, SizeofIfInfoMsg)
	b[0] = m.Family
	native.PutUint16(b[2:4], m.Type)
	native.PutUint32(b[4:8], uint32(m.Index))
	native.PutUint32(b[8:12], m.Flags)
	native.PutUint32(b[12:16], m.Change)
	return b
}

func ParseIfInfoMsg(b []byte) (IfInfoMsg, error) {
	var m IfInfoMsg
	if len(b) < SizeofIfInfoMsg {
		return m, newProtocolError("short ifinfomsg", nil)
	}
	m.Family = b[0]
	m.Type = native.Uint16(b[2:4])
	m.Index = int32(native.Uint32(b[4:8]))
	m.Flags = native.Uint32(b[8:12])
	m.Change = native.Uint32(b[12:16])
	return m, nil
}

// RtMsg is the rtmsg family payload header carried by every route message
// (RTM_*ROUTE).
type RtMsg struct {
	Family   uint8
	DstLen   uint8
	SrcLen   uint8
	Tos      uint8
	Table    uint8
	Protocol uint8
	Scope    uint8
	Type     uint8
	Flags    uint32
}

const SizeofRtMsg = unix.SizeofRtMsg

func (m RtMsg) Bytes() []byte {
	b := make([]byte, SizeofRtMsg)
	b[0], b[1], b[2], b[3] = m.Family, m.DstLen, m.SrcLen, m.Tos
	b[4], b[5], b[6], b[7] = m.Table, m.Protocol, m.Scope, m.Type
	native.PutUint32(b[8:12], m.Flags)
	return b
}

func ParseRtMsg(b []byte) (RtMsg, error) {
	var m RtMsg
	if len(b) < SizeofRtMsg {
		return m, newProtocolError("short rtmsg", nil)
	}
	m.Family, m.DstLen, m.SrcLen, m.Tos = b[0], b[1], b[2], b[3]
	m.Table, m.Protocol, m.Scope, m.Type = b[4], b[5], b[6], b[7]
	m.Flags = native.Uint32(b[8:12])
	return m, nil
}

// NdMsg is the ndmsg family payload header carried by every neighbor
// message (RTM_*NEIGH).
type NdMsg struct {
	Family  uint8
	_       [3]uint8 // pad
	IfIndex int32
	State   uint16
	Flags   uint8
	Type    uint8
}

const SizeofNdMsg = unix.SizeofNdMsg

func (m NdMsg) Bytes() []byte {
	b := make([]byte, SizeofNdMsg)
	b[0] = m.Family
	native.PutUint32(b[4:8], uint32(m.IfIndex))
	native.PutUint16(b[8:10], m.State)
	b[10], b[11] = m.Flags, m.Type
	return b
}

func ParseNdMsg(b []byte) (NdMsg, error) {
	var m NdMsg
	if len(b) < SizeofNdMsg {
		return m, newProtocolError("short ndmsg", nil)
	}
	m.Family = b[0]
	m.IfIndex = int32(native.Uint32(b[4:8]))
	m.State = native.Uint16(b[8:10])
	m.Flags, m.Type = b[10], b[11]
	return m, nil
}

// TcMsg is the tcmsg family payload header shared by qdisc, class and
// filter messages (RTM_*QDISC, RTM_*TCLASS, RTM_*TFILTER). x/sys/unix does
// not size this one for us, so SizeofTcMsg is hand-reproduced from
// <linux/rtnetlink.h> in internal/unix.
type TcMsg struct {
	Family  uint8
	_       [3]uint8 // pad
	IfIndex int32
	Handle  uint32
	Parent  uint32
	Info    uint32
}

const SizeofTcMsg = unix.SizeofTcMsg

func (m TcMsg) Bytes() []byte {
	b := make([]byte, SizeofTcMsg)
	b[0] = m.Family
	native.PutUint32(b[4:8], uint32(m.IfIndex))
	native.PutUint32(b[8:12], m.Handle)
	native.PutUint32(b[12:16], m.Parent)
	native.PutUint32(b[16:20], m.Info)
	return b
}

func ParseTcMsg(b []byte) (TcMsg, error) {
	var m TcMsg
	if len(b) < SizeofTcMsg {
		return m, newProtocolError("short tcmsg", nil)
	}
	m.Family = b[0]
	m.IfIndex = int32(native.Uint32(b[4:8]))
	m.Handle = native.Uint32(b[8:12])
	m.Parent = native.Uint32(b[12:16])
	m.Info = native.Uint32(b[16:20])
	return m, nil
}

// RtNexthop is the rtnexthop struct heading one entry of RTA_MULTIPATH:
// a self-describing length followed by flags, hop-count and ifindex, with
// per-hop attributes (typically RTA_GATEWAY) trailing it.
type RtNexthop struct {
	Len     uint16
	Flags   uint8
	Hops    uint8
	IfIndex int32
}

const SizeofRtNexthop = unix.SizeofRtNexthop

func (h RtNexthop) Bytes() []byte {
	b := make([]byte, SizeofRtNexthop)
	native.PutUint16(b[0:2], h.Len)
	b[2], b[3] = h.Flags, h.Hops
	native.PutUint32(b[4:8], uint32(h.IfIndex))
	return b
}

func ParseRtNexthop(b []byte) (RtNexthop, error) {
	var h RtNexthop
	if len(b) < SizeofRtNexthop {
		return h, newProtocolError("short rtnexthop", nil)
	}
	h.Len = native.Uint16(b[0:2])
	h.Flags, h.Hops = b[2], b[3]
	h.IfIndex = int32(native.Uint32(b[4:8]))
	return h, nil
}

// RuleMsg is the fib_rule_hdr family payload header carried by every fib
// rule message (RTM_*RULE). Not part of the original rtnetlink.h family
// covered by SizeofRtMsg et al.; sized by hand from <linux/fib_rules.h>.
type RuleMsg struct {
	Family uint8
	DstLen uint8
	SrcLen uint8
	Tos    uint8
	Table  uint8
	Action uint8
	Flags  uint32
}

const SizeofRuleMsg = 12

func (m RuleMsg) Bytes() []byte {
	b := make([]byte, SizeofRuleMsg)
	b[0], b[1], b[2], b[3] = m.Family, m.DstLen, m.SrcLen, m.Tos
	b[4], b[7] = m.Table, m.Action
	native.PutUint32(b[8:12], m.Flags)
	return b
}

func ParseRuleMsg(b []byte) (RuleMsg, error) {
	var m RuleMsg
	if len(b) < SizeofRuleMsg {
		return m, newProtocolError("short fib_rule_hdr", nil)
	}
	m.Family, m.DstLen, m.SrcLen, m.Tos = b[0], b[1], b[2], b[3]
	m.Table, m.Action = b[4], b[7]
	m.Flags = native.Uint32(b[8:12])
	return m, nil
}

// NlMsgErr is the nlmsgerr payload of NLMSG_ERROR: a negative errno, or
// zero for a plain acknowledgement, followed by a copy of the offending
// request header (ignored here; transact only needs the error code).
type NlMsgErr struct {
	Error int32
}

const SizeofNlMsgErr = 4

func ParseNlMsgErr(b []byte) (NlMsgErr, error) {
	var e NlMsgErr
	if len(b) < SizeofNlMsgErr {
		return e, newProtocolError("short nlmsgerr", nil)
	}
	e.Error = int32(native.Uint32(b[0:4]))
	return e, nil
}
