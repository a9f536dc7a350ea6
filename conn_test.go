package netlinklib

import "testing"

func TestConnTCSharesUnderlyingSocket(t *testing.T) {
	c := &Conn{}
	tcConn := c.TC()
	if tcConn == nil {
		t.Fatal("expected a non-nil traffic-control connection")
	}
	if tcConn.Qdisc == nil || tcConn.Class == nil || tcConn.Filter == nil {
		t.Fatal("expected Qdisc/Class/Filter services to be initialized")
	}
}
