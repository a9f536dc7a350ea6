package tc

import (
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// Mirred action verdicts and egress/ingress directions, named the way
// <linux/tc_act/tc_mirred.h> and <linux/pkt_cls.h> name them.
const (
	ActStolen = unix.TC_ACT_STOLEN
	ActPipe   = unix.TC_ACT_PIPE

	EgressMirror  = unix.TCA_EGRESS_MIRROR
	EgressRedir   = unix.TCA_EGRESS_REDIR
	IngressMirror = unix.TCA_INGRESS_MIRROR
	IngressRedir  = unix.TCA_INGRESS_REDIR
)

// MirredAction is the TCA_ACT_OPTIONS payload for a mirred action: a
// nested TCA_MIRRED_PARMS attribute carrying tc_mirred, redirecting or
// mirroring matched traffic to another interface.
type MirredAction struct {
	Action  int32
	Eaction uint32
	Ifindex uint32
}

func (a *MirredAction) New() Action { return &MirredAction{} }

func (*MirredAction) Kind() string { return "mirred" }

func (a *MirredAction) Encode() ([]byte, error) {
	m := nl.TcMirred{
		Action:  a.Action,
		Eaction: a.Eaction,
		Ifindex: a.Ifindex,
	}
	ae := nl.NewAttributeEncoder()
	ae.Bytes(unix.TCA_MIRRED_PARMS, m.Bytes())
	return ae.Encode()
}

func (a *MirredAction) Decode(b []byte) error {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return err
	}
	for ad.Next() {
		if ad.Type() == unix.TCA_MIRRED_PARMS {
			m, err := nl.ParseTcMirred(ad.Bytes())
			if err != nil {
				return err
			}
			a.Action, a.Eaction, a.Ifindex = m.Action, m.Eaction, m.Ifindex
		}
	}
	return ad.Err()
}
