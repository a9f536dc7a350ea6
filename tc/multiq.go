package tc

import "github.com/ionos-cloud/netlinklib/nl"

// MultiqOptions is the TCA_OPTIONS payload for a multiq qdisc: tc_multiq_qopt,
// carried directly (no further TLV nesting). Bands/MaxBands are set by
// the kernel on response and ignored on request.
type MultiqOptions struct {
	Bands    uint16
	MaxBands uint16
}

func (o *MultiqOptions) New() QdiscOptions { return &MultiqOptions{} }

func (*MultiqOptions) Kind() string { return "multiq" }

func (o *MultiqOptions) Encode() ([]byte, error) {
	q := nl.TcMultiqQopt{Bands: o.Bands, MaxBands: o.MaxBands}
	return q.Bytes(), nil
}

func (o *MultiqOptions) Decode(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	q, err := nl.ParseTcMultiqQopt(b)
	if err != nil {
		return err
	}
	o.Bands, o.MaxBands = q.Bands, q.MaxBands
	return nil
}
