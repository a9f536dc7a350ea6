package tc

import "github.com/ionos-cloud/netlinklib/nl"

// fifoOptions is the shared tc_fifo_qopt payload pfifo and bfifo both
// carry directly as TCA_OPTIONS (no further TLV nesting); PfifoOptions
// and BfifoOptions just attach different Kind()s to it.
type fifoOptions struct {
	Limit uint32
}

func (o *fifoOptions) encode() ([]byte, error) {
	q := nl.TcFifoQopt{Limit: o.Limit}
	return q.Bytes(), nil
}

func (o *fifoOptions) decode(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	q, err := nl.ParseTcFifoQopt(b)
	if err != nil {
		return err
	}
	o.Limit = q.Limit
	return nil
}

// PfifoOptions is the TCA_OPTIONS payload for a pfifo qdisc: a packet
// limit enforced in packets.
type PfifoOptions struct{ fifoOptions }

func (o *PfifoOptions) New() QdiscOptions       { return &PfifoOptions{} }
func (*PfifoOptions) Kind() string              { return "pfifo" }
func (o *PfifoOptions) Encode() ([]byte, error) { return o.fifoOptions.encode() }
func (o *PfifoOptions) Decode(b []byte) error   { return o.fifoOptions.decode(b) }

// BfifoOptions is the TCA_OPTIONS payload for a bfifo qdisc: a byte
// limit enforced in bytes.
type BfifoOptions struct{ fifoOptions }

func (o *BfifoOptions) New() QdiscOptions       { return &BfifoOptions{} }
func (*BfifoOptions) Kind() string              { return "bfifo" }
func (o *BfifoOptions) Encode() ([]byte, error) { return o.fifoOptions.encode() }
func (o *BfifoOptions) Decode(b []byte) error   { return o.fifoOptions.decode(b) }
