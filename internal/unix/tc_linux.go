//go:build linux
// +build linux

package unix

import (
	linux "golang.org/x/sys/unix"
)

// Constants re-exported directly from golang.org/x/sys/unix: these are part
// of the generated rtnetlink/netlink enumerations and mirror the kernel
// headers the way types_linux.go does for the rest of the package.
const (
	NLM_F_REQUEST = linux.NLM_F_REQUEST
	NLM_F_MULTI   = linux.NLM_F_MULTI
	NLM_F_ACK     = linux.NLM_F_ACK
	NLM_F_ECHO    = linux.NLM_F_ECHO
	NLM_F_DUMP    = linux.NLM_F_DUMP
	NLM_F_ROOT    = linux.NLM_F_ROOT
	NLM_F_MATCH   = linux.NLM_F_MATCH
	NLM_F_ATOMIC  = linux.NLM_F_ATOMIC
	NLM_F_CREATE  = linux.NLM_F_CREATE
	NLM_F_EXCL    = linux.NLM_F_EXCL
	NLM_F_REPLACE = linux.NLM_F_REPLACE
	NLM_F_APPEND  = linux.NLM_F_APPEND

	NLMSG_NOOP    = linux.NLMSG_NOOP
	NLMSG_ERROR   = linux.NLMSG_ERROR
	NLMSG_DONE    = linux.NLMSG_DONE
	NLMSG_OVERRUN = linux.NLMSG_OVERRUN
	NLMSG_ALIGNTO = linux.NLMSG_ALIGNTO

	SizeofNlMsghdr = linux.SizeofNlMsghdr
	SizeofNlMsgerr = linux.SizeofNlMsgerr
	SizeofRtAttr   = linux.SizeofRtAttr

	SOL_NETLINK              = linux.SOL_NETLINK
	NETLINK_GET_STRICT_CHK   = linux.NETLINK_GET_STRICT_CHK
	NETLINK_ADD_MEMBERSHIP   = linux.NETLINK_ADD_MEMBERSHIP
	NETLINK_DROP_MEMBERSHIP  = linux.NETLINK_DROP_MEMBERSHIP
	NETLINK_EXT_ACK          = linux.NETLINK_EXT_ACK

	RTMGRP_LINK        = linux.RTMGRP_LINK
	RTMGRP_NEIGH       = linux.RTMGRP_NEIGH
	RTMGRP_IPV4_IFADDR = linux.RTMGRP_IPV4_IFADDR
	RTMGRP_IPV4_ROUTE  = linux.RTMGRP_IPV4_ROUTE
	RTMGRP_IPV6_IFADDR = linux.RTMGRP_IPV6_IFADDR
	RTMGRP_IPV6_ROUTE  = linux.RTMGRP_IPV6_ROUTE

	RTM_NEWQDISC   = linux.RTM_NEWQDISC
	RTM_DELQDISC   = linux.RTM_DELQDISC
	RTM_GETQDISC   = linux.RTM_GETQDISC
	RTM_NEWTCLASS  = linux.RTM_NEWTCLASS
	RTM_DELTCLASS  = linux.RTM_DELTCLASS
	RTM_GETTCLASS  = linux.RTM_GETTCLASS
	RTM_NEWTFILTER = linux.RTM_NEWTFILTER
	RTM_DELTFILTER = linux.RTM_DELTFILTER
	RTM_GETTFILTER = linux.RTM_GETTFILTER

	IFLA_VRF_UNSPEC = linux.IFLA_VRF_UNSPEC
	IFLA_VRF_TABLE  = linux.IFLA_VRF_TABLE
)

// tcmsg is not exposed by x/sys/unix as a sized struct the way ifinfomsg
// and rtmsg are, so nl/kmsg.go packs it by hand; this is its wire size:
// family(1) + pad(3) + ifindex(4) + handle(4) + parent(4) + info(4).
const SizeofTcMsg = 20

// pkt_sched.h / pkt_cls.h enumerations. These never made it into x/sys/unix
// (mkerrors only scans headers reachable from the syscall surface), so the
// vishvananda/netlink nl package hand-rolls them too; we do the same here.
const (
	TCA_UNSPEC          = 0
	TCA_KIND            = 1
	TCA_OPTIONS         = 2
	TCA_STATS           = 3
	TCA_XSTATS          = 4
	TCA_RATE            = 5
	TCA_FCNT            = 6
	TCA_STATS2          = 7
	TCA_STAB            = 8
	TCA_PAD             = 9
	TCA_DUMP_INVISIBLE  = 10
	TCA_CHAIN           = 11
	TCA_HW_OFFLOAD      = 12
	TCA_INGRESS_BLOCK   = 13
	TCA_EGRESS_BLOCK    = 14

	TC_H_ROOT     = 0xFFFFFFFF
	TC_H_INGRESS  = 0xFFFFFFF1
	TC_H_UNSPEC   = 0
	TC_H_MIN_MASK = 0x0000FFFF
	TC_H_MAJ_MASK = 0xFFFF0000

	TCA_HTB_UNSPEC  = 0
	TCA_HTB_PARMS   = 1
	TCA_HTB_INIT    = 2
	TCA_HTB_CTAB    = 3
	TCA_HTB_RTAB    = 4
	TCA_HTB_DIRECT_QLEN = 5
	TCA_HTB_RATE64  = 6
	TCA_HTB_CEIL64  = 7
	TCA_HTB_OFFLOAD = 9

	TC_U32_TERMINAL  = 0x1
	TC_U32_OFFSET    = 0x2
	TC_U32_VAROFFSET = 0x4
	TC_U32_EAT       = 0x8

	TCA_U32_UNSPEC   = 0
	TCA_U32_CLASSID  = 1
	TCA_U32_HASH     = 2
	TCA_U32_LINK     = 3
	TCA_U32_DIVISOR  = 4
	TCA_U32_SEL      = 5
	TCA_U32_POLICE   = 6
	TCA_U32_ACT      = 7
	TCA_U32_INDEV    = 8
	TCA_U32_PCNT     = 9
	TCA_U32_MARK     = 10
	TCA_U32_FLAGS    = 11

	TCA_ACT_TAB     = 1
	TCA_ACT_KIND    = 1
	TCA_ACT_OPTIONS = 2
	TCA_ACT_INDEX   = 3
	TCA_ACT_STATS   = 4
	TCA_ACT_PAD     = 5
	TCA_ACT_COOKIE  = 6

	TCA_MIRRED_UNSPEC = 0
	TCA_MIRRED_TM     = 1
	TCA_MIRRED_PARMS  = 2
	TCA_MIRRED_PAD    = 3

	TC_ACT_UNSPEC     = -1
	TC_ACT_OK         = 0
	TC_ACT_RECLASSIFY = 1
	TC_ACT_SHOT       = 2
	TC_ACT_PIPE       = 3
	TC_ACT_STOLEN     = 4
	TC_ACT_QUEUED     = 5
	TC_ACT_REPEAT     = 6
	TC_ACT_REDIRECT   = 7

	TCA_EGRESS_REDIR   = 1
	TCA_EGRESS_MIRROR  = 2
	TCA_INGRESS_REDIR  = 3
	TCA_INGRESS_MIRROR = 4

	TC_PRIO_MAX = 15

	TC_LINKLAYER_UNSPEC   = 0
	TC_LINKLAYER_ETHERNET = 1
	TC_LINKLAYER_ATM      = 2
	TC_LINKLAYER_MASK     = 0x0F

	TCA_FLOW_UNSPEC     = 0
	TCA_FLOW_KEYS       = 1
	TCA_FLOW_MODE       = 2
	TCA_FLOW_BASECLASS  = 3
	TCA_FLOW_RSHIFT     = 4
	TCA_FLOW_ADDEND     = 5
	TCA_FLOW_MASK       = 6
	TCA_FLOW_XOR        = 7
	TCA_FLOW_DIVISOR    = 8
	TCA_FLOW_ACT        = 9
	TCA_FLOW_POLICE     = 10
	TCA_FLOW_EMATCHES   = 11
	TCA_FLOW_PERTURB    = 12

	TCA_FLOW_MODE_MAP  = 0
	TCA_FLOW_MODE_HASH = 1
)

// linux/if_tunnel.h IFLA_GRE_* enumeration, used by the erspan/ip6erspan
// link drivers; these come from the tunneling headers rather than the
// rtnetlink ones x/sys/unix tracks closely, so they're hand-defined too.
const (
	IFLA_GRE_UNSPEC         = 0
	IFLA_GRE_LINK           = 1
	IFLA_GRE_IFLAGS         = 2
	IFLA_GRE_OFLAGS         = 3
	IFLA_GRE_IKEY           = 4
	IFLA_GRE_OKEY           = 5
	IFLA_GRE_LOCAL          = 6
	IFLA_GRE_REMOTE         = 7
	IFLA_GRE_TTL            = 8
	IFLA_GRE_TOS            = 9
	IFLA_GRE_PMTUDISC       = 10
	IFLA_GRE_ENCAP_LIMIT    = 11
	IFLA_GRE_FLOWINFO       = 12
	IFLA_GRE_FLAGS          = 13
	IFLA_GRE_ENCAP_TYPE     = 14
	IFLA_GRE_ENCAP_FLAGS    = 15
	IFLA_GRE_ENCAP_SPORT    = 16
	IFLA_GRE_ENCAP_DPORT    = 17
	IFLA_GRE_COLLECT_METADATA = 18
	IFLA_GRE_IGNORE_DF      = 19
	IFLA_GRE_FWMARK         = 20
	IFLA_GRE_ERSPAN_INDEX   = 21
	IFLA_GRE_ERSPAN_VER     = 22
	IFLA_GRE_ERSPAN_DIR     = 23
	IFLA_GRE_ERSPAN_HWID    = 24
)
