// Package rtnl provides a convenient API on top of netlinklib, mirroring
// the per-object services (Link/Route/Neigh/...) with workflow-shaped
// helpers (RouteAdd/RouteDel, Monitor) that compose more than one
// netlinklib call or field.
package rtnl

import (
	"github.com/ionos-cloud/netlinklib"
)

// Conn represents the underlying netlink connection.
type Conn struct {
	Conn *netlinklib.Conn // a route netlink connection
}

// Dial the netlink socket. Establishes a new connection. The typical
// initialisation is:
//
//	conn, err := rtnl.Dial()
//	if err != nil {
//		log.Fatal("can't establish netlink connection: ", err)
//	}
//	defer conn.Close()
//	// use conn for your calls
func Dial() (*Conn, error) {
	return DialConfig(nil)
}

// DialConfig allows you to Dial with a netlinklib.Config to tune the
// connection to your liking.
func DialConfig(cfg *netlinklib.Config) (*Conn, error) {
	conn, err := netlinklib.Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn}, nil
}

// Close the connection.
func (c *Conn) Close() error {
	return c.Conn.Close()
}
