package tc

import "github.com/ionos-cloud/netlinklib/nl"

// PrioOptions is the TCA_OPTIONS payload for a prio qdisc: tc_prio_qopt,
// a band count and the 16-entry priority-to-band map, carried directly
// (no further TLV nesting).
type PrioOptions struct {
	Bands   int32
	Priomap [16]uint8
}

func (o *PrioOptions) New() QdiscOptions { return &PrioOptions{} }

func (*PrioOptions) Kind() string { return "prio" }

func (o *PrioOptions) Encode() ([]byte, error) {
	q := nl.TcPrioQopt{Bands: o.Bands, Priomap: o.Priomap}
	return q.Bytes(), nil
}

func (o *PrioOptions) Decode(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	q, err := nl.ParseTcPrioQopt(b)
	if err != nil {
		return err
	}
	o.Bands, o.Priomap = q.Bands, q.Priomap
	return nil
}
