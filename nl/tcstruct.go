package nl

// Traffic-control option structs from <linux/pkt_sched.h>. These never
// shipped in x/sys/unix (they live outside the syscall-adjacent headers
// mkerrors scans), so vishvananda/netlink/nl hand-rolls them and so do we;
// layouts below are reproduced from the kernel header, not derived.

// TcRateSpec is struct tc_ratespec: 12 bytes.
type TcRateSpec struct {
	CellLog  uint8
	Linklayer uint8
	Overhead uint16
	CellAlign int16
	Mpu      uint16
	Rate     uint32
}

const SizeofTcRateSpec = 12

func (r TcRateSpec) Bytes() []byte {
	b := make([]byte, SizeofTcRateSpec)
	b[0], b[1] = r.CellLog, r.Linklayer
	native.PutUint16(b[2:4], r.Overhead)
	native.PutUint16(b[4:6], uint16(r.CellAlign))
	native.PutUint16(b[6:8], r.Mpu)
	native.PutUint32(b[8:12], r.Rate)
	return b
}

func ParseTcRateSpec(b []byte) (TcRateSpec, error) {
	var r TcRateSpec
	if len(b) < SizeofTcRateSpec {
		return r, newProtocolError("short tc_ratespec", nil)
	}
	r.CellLog, r.Linklayer = b[0], b[1]
	r.Overhead = native.Uint16(b[2:4])
	r.CellAlign = int16(native.Uint16(b[4:6]))
	r.Mpu = native.Uint16(b[6:8])
	r.Rate = native.Uint32(b[8:12])
	return r, nil
}

// TcHtbGlob is struct tc_htb_glob, carried by TCA_HTB_INIT on qdisc creation.
type TcHtbGlob struct {
	Version      uint32
	Rate2Quantum uint32
	Defcls       uint32
	Debug        uint32
	DirectPkts   uint32
}

const SizeofTcHtbGlob = 20

func (g TcHtbGlob) Bytes() []byte {
	b := make([]byte, SizeofTcHtbGlob)
	native.PutUint32(b[0:4], g.Version)
	native.PutUint32(b[4:8], g.Rate2Quantum)
	native.PutUint32(b[8:12], g.Defcls)
	native.PutUint32(b[12:16], g.Debug)
	native.PutUint32(b[16:20], g.DirectPkts)
	return b
}

func ParseTcHtbGlob(b []byte) (TcHtbGlob, error) {
	var g TcHtbGlob
	if len(b) < SizeofTcHtbGlob {
		return g, newProtocolError("short tc_htb_glob", nil)
	}
	g.Version = native.Uint32(b[0:4])
	g.Rate2Quantum = native.Uint32(b[4:8])
	g.Defcls = native.Uint32(b[8:12])
	g.Debug = native.Uint32(b[12:16])
	g.DirectPkts = native.Uint32(b[16:20])
	return g, nil
}

// TcHtbOpt is struct tc_htb_opt, carried by TCA_HTB_PARMS on class creation.
type TcHtbOpt struct {
	Rate    TcRateSpec
	Ceil    TcRateSpec
	Buffer  uint32
	Cbuffer uint32
	Quantum uint32
	Level   uint32
	Prio    uint32
}

const SizeofTcHtbOpt = 2*SizeofTcRateSpec + 4*5

func (o TcHtbOpt) Bytes() []byte {
	b := make([]byte, 0, SizeofTcHtbOpt)
	b = append(b, o.Rate.Bytes()...)
	b = append(b, o.Ceil.Bytes()...)
	tail := make([]byte, 16)
	native.PutUint32(tail[0:4], o.Buffer)
	native.PutUint32(tail[4:8], o.Cbuffer)
	native.PutUint32(tail[8:12], o.Quantum)
	native.PutUint32(tail[12:16], o.Level)
	return append(append(b, tail...), u32le(o.Prio)...)
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	native.PutUint32(b, v)
	return b
}

func ParseTcHtbOpt(b []byte) (TcHtbOpt, error) {
	var o TcHtbOpt
	if len(b) < SizeofTcHtbOpt {
		return o, newProtocolError("short tc_htb_opt", nil)
	}
	rate, err := ParseTcRateSpec(b[0:12])
	if err != nil {
		return o, err
	}
	ceil, err := ParseTcRateSpec(b[12:24])
	if err != nil {
		return o, err
	}
	o.Rate, o.Ceil = rate, ceil
	o.Buffer = native.Uint32(b[24:28])
	o.Cbuffer = native.Uint32(b[28:32])
	o.Quantum = native.Uint32(b[32:36])
	o.Level = native.Uint32(b[36:40])
	o.Prio = native.Uint32(b[40:44])
	return o, nil
}

// TcFifoQopt is struct tc_fifo_qopt, carried by pfifo/bfifo qdisc options.
type TcFifoQopt struct {
	Limit uint32
}

const SizeofTcFifoQopt = 4

func (q TcFifoQopt) Bytes() []byte { return u32le(q.Limit) }

func ParseTcFifoQopt(b []byte) (TcFifoQopt, error) {
	var q TcFifoQopt
	if len(b) < SizeofTcFifoQopt {
		return q, newProtocolError("short tc_fifo_qopt", nil)
	}
	q.Limit = native.Uint32(b[0:4])
	return q, nil
}

// TcPrioQopt is struct tc_prio_qopt, carried by the prio qdisc's options;
// priomap has a fixed TC_PRIO_MAX+1 = 16 entries.
type TcPrioQopt struct {
	Bands   int32
	Priomap [16]uint8
}

const SizeofTcPrioQopt = 4 + 16

func (q TcPrioQopt) Bytes() []byte {
	b := make([]byte, SizeofTcPrioQopt)
	native.PutUint32(b[0:4], uint32(q.Bands))
	copy(b[4:20], q.Priomap[:])
	return b
}

func ParseTcPrioQopt(b []byte) (TcPrioQopt, error) {
	var q TcPrioQopt
	if len(b) < SizeofTcPrioQopt {
		return q, newProtocolError("short tc_prio_qopt", nil)
	}
	q.Bands = int32(native.Uint32(b[0:4]))
	copy(q.Priomap[:], b[4:20])
	return q, nil
}

// TcMultiqQopt is struct tc_multiq_qopt, carried by the multiq qdisc's options.
type TcMultiqQopt struct {
	Bands    uint16
	MaxBands uint16
}

const SizeofTcMultiqQopt = 4

func (q TcMultiqQopt) Bytes() []byte {
	b := make([]byte, SizeofTcMultiqQopt)
	native.PutUint16(b[0:2], q.Bands)
	native.PutUint16(b[2:4], q.MaxBands)
	return b
}

func ParseTcMultiqQopt(b []byte) (TcMultiqQopt, error) {
	var q TcMultiqQopt
	if len(b) < SizeofTcMultiqQopt {
		return q, newProtocolError("short tc_multiq_qopt", nil)
	}
	q.Bands = native.Uint16(b[0:2])
	q.MaxBands = native.Uint16(b[2:4])
	return q, nil
}

// TcU32Key is struct tc_u32_key: one match key of a u32 filter selector.
type TcU32Key struct {
	Mask    uint32 // big-endian on the wire
	Val     uint32 // big-endian on the wire
	Off     int32
	OffMask int32
}

const SizeofTcU32Key = 16

func (k TcU32Key) Bytes() []byte {
	b := make([]byte, SizeofTcU32Key)
	native.PutUint32(b[0:4], k.Mask)
	native.PutUint32(b[4:8], k.Val)
	native.PutUint32(b[8:12], uint32(k.Off))
	native.PutUint32(b[12:16], uint32(k.OffMask))
	return b
}

func ParseTcU32Key(b []byte) (TcU32Key, error) {
	var k TcU32Key
	if len(b) < SizeofTcU32Key {
		return k, newProtocolError("short tc_u32_key", nil)
	}
	k.Mask = native.Uint32(b[0:4])
	k.Val = native.Uint32(b[4:8])
	k.Off = int32(native.Uint32(b[8:12]))
	k.OffMask = int32(native.Uint32(b[12:16]))
	return k, nil
}

// TcU32Sel is struct tc_u32_sel: a fixed 16-byte header followed by
// Nkeys tc_u32_key entries — the variable-length struct the spec calls
// out explicitly ("has a trailing tc_u32_key[]").
type TcU32Sel struct {
	Flags    uint8
	Offshift uint8
	Nkeys    uint8
	Offmask  uint16
	Off      uint16
	Offoff   int16
	Hoff     int16
	Hmask    uint32
	Keys     []TcU32Key
}

const SizeofTcU32SelHeader = 16

func (s TcU32Sel) Bytes() []byte {
	b := make([]byte, SizeofTcU32SelHeader)
	b[0], b[1], b[2] = s.Flags, s.Offshift, uint8(len(s.Keys))
	native.PutUint16(b[4:6], s.Offmask)
	native.PutUint16(b[6:8], s.Off)
	native.PutUint16(b[8:10], uint16(s.Offoff))
	native.PutUint16(b[10:12], uint16(s.Hoff))
	native.PutUint32(b[12:16], s.Hmask)
	for _, k := range s.Keys {
		b = append(b, k.Bytes()...)
	}
	return b
}

// ParseTcU32Sel parses a tc_u32_sel plus its trailing keys. It validates
// that the payload carries at least Nkeys*SizeofTcU32Key bytes after the
// header, the exact check the filter parser is required to make.
func ParseTcU32Sel(b []byte) (TcU32Sel, error) {
	var s TcU32Sel
	if len(b) < SizeofTcU32SelHeader {
		return s, newProtocolError("short tc_u32_sel", nil)
	}
	s.Flags, s.Offshift = b[0], b[1]
	nkeys := int(b[2])
	s.Offmask = native.Uint16(b[4:6])
	s.Off = native.Uint16(b[6:8])
	s.Offoff = int16(native.Uint16(b[8:10]))
	s.Hoff = int16(native.Uint16(b[10:12]))
	s.Hmask = native.Uint32(b[12:16])

	need := nkeys * SizeofTcU32Key
	rest := b[SizeofTcU32SelHeader:]
	if len(rest) < need {
		return s, newProtocolError("tc_u32_sel payload shorter than nkeys*sizeof(tc_u32_key)", nil)
	}
	s.Keys = make([]TcU32Key, nkeys)
	for i := 0; i < nkeys; i++ {
		k, err := ParseTcU32Key(rest[i*SizeofTcU32Key : (i+1)*SizeofTcU32Key])
		if err != nil {
			return s, err
		}
		s.Keys[i] = k
	}
	return s, nil
}

// TcMirred is struct tc_mirred: tc_gen (index, capab, action, refcnt,
// bindcnt) followed by eaction and ifindex.
type TcMirred struct {
	Index   uint32
	Capab   uint32
	Action  int32
	Refcnt  int32
	Bindcnt int32
	Eaction uint32
	Ifindex uint32
}

const SizeofTcMirred = 28

func (m TcMirred) Bytes() []byte {
	b := make([]byte, SizeofTcMirred)
	native.PutUint32(b[0:4], m.Index)
	native.PutUint32(b[4:8], m.Capab)
	native.PutUint32(b[8:12], uint32(m.Action))
	native.PutUint32(b[12:16], uint32(m.Refcnt))
	native.PutUint32(b[16:20], uint32(m.Bindcnt))
	native.PutUint32(b[20:24], m.Eaction)
	native.PutUint32(b[24:28], m.Ifindex)
	return b
}

func ParseTcMirred(b []byte) (TcMirred, error) {
	var m TcMirred
	if len(b) < SizeofTcMirred {
		return m, newProtocolError("short tc_mirred", nil)
	}
	m.Index = native.Uint32(b[0:4])
	m.Capab = native.Uint32(b[4:8])
	m.Action = int32(native.Uint32(b[8:12]))
	m.Refcnt = int32(native.Uint32(b[12:16]))
	m.Bindcnt = int32(native.Uint32(b[16:20]))
	m.Eaction = native.Uint32(b[20:24])
	m.Ifindex = native.Uint32(b[24:28])
	return m, nil
}

// TcEstimator is struct tc_estimator: a rate-estimator interval/ewma pair
// carried by TCA_RATE.
type TcEstimator struct {
	Interval int8
	EwmaLog  uint8
}

const SizeofTcEstimator = 2

func (e TcEstimator) Bytes() []byte {
	return []byte{byte(e.Interval), e.EwmaLog}
}

func ParseTcEstimator(b []byte) (TcEstimator, error) {
	var e TcEstimator
	if len(b) < SizeofTcEstimator {
		return e, newProtocolError("short tc_estimator", nil)
	}
	e.Interval = int8(b[0])
	e.EwmaLog = b[1]
	return e, nil
}
