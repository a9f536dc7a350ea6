package driver

import (
	"github.com/ionos-cloud/netlinklib"
	"github.com/ionos-cloud/netlinklib/nl"
)

// Dummy implements LinkDriver for the dummy driver, a link kind that
// carries no IFLA_INFO_DATA attributes of its own. It is mostly useful
// as scaffolding: tests stand one up as the "other end" of a bond, vlan
// or macvlan parent without caring about its own configuration.
type Dummy struct{}

var _ netlinklib.LinkDriver = &Dummy{}

func (d *Dummy) New() netlinklib.LinkDriver { return &Dummy{} }

func (d *Dummy) Encode(ae *nl.AttributeEncoder) error { return nil }

func (d *Dummy) Decode(ad *nl.AttributeDecoder) error { return nil }

func (*Dummy) Kind() string { return "dummy" }
