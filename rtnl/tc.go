package rtnl

import (
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/tc"
)

// TC returns a traffic-control connection sharing this Conn's underlying
// socket, mirroring the Python package's nll_qdisc_add/nll_qdisc_replace/
// nll_qdisc_del family (api_qdisc.py) on top of the typed QdiscService.
func (c *Conn) TC() *tc.Conn {
	return c.Conn.TC()
}

// QdiscReplace installs or updates the qdisc of kind on ifIndex, the
// workflow api_qdisc.py's nll_qdisc_replace exposes as a single call
// (NLM_F_CREATE without NLM_F_EXCL, so a pre-existing qdisc is updated
// rather than rejected).
func (c *Conn) QdiscReplace(ifIndex int32, handle, parent uint32, opts tc.QdiscOptions) error {
	return c.TC().Qdisc.Replace(&tc.QdiscMessage{
		Family:     unix.AF_UNSPEC,
		IfIndex:    ifIndex,
		Handle:     handle,
		Parent:     parent,
		Attributes: tc.QdiscAttributes{Options: opts},
	})
}

// QdiscDel removes the qdisc identified by handle/parent on ifIndex.
func (c *Conn) QdiscDel(ifIndex int32, handle, parent uint32) error {
	return c.TC().Qdisc.Delete(&tc.QdiscMessage{
		Family:  unix.AF_UNSPEC,
		IfIndex: ifIndex,
		Handle:  handle,
		Parent:  parent,
	})
}
