package tc

import (
	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// HtbQdiscOptions is the TCA_OPTIONS payload for a htb qdisc: a nested
// TCA_HTB_INIT attribute carrying tc_htb_glob.
type HtbQdiscOptions struct {
	Version      uint32
	Rate2Quantum uint32
	Defcls       uint32
	Debug        uint32
}

func (o *HtbQdiscOptions) New() QdiscOptions { return &HtbQdiscOptions{} }

func (*HtbQdiscOptions) Kind() string { return "htb" }

func (o *HtbQdiscOptions) Encode() ([]byte, error) {
	glob := nl.TcHtbGlob{
		Version:      o.Version,
		Rate2Quantum: o.Rate2Quantum,
		Defcls:       o.Defcls,
		Debug:        o.Debug,
	}
	ae := nl.NewAttributeEncoder()
	ae.Bytes(unix.TCA_HTB_INIT, glob.Bytes())
	return ae.Encode()
}

func (o *HtbQdiscOptions) Decode(b []byte) error {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return err
	}
	for ad.Next() {
		if ad.Type() == unix.TCA_HTB_INIT {
			glob, err := nl.ParseTcHtbGlob(ad.Bytes())
			if err != nil {
				return err
			}
			o.Version, o.Rate2Quantum, o.Defcls, o.Debug = glob.Version, glob.Rate2Quantum, glob.Defcls, glob.Debug
		}
	}
	return ad.Err()
}

// HtbClassOptions is the TCA_OPTIONS payload for a htb class: a nested
// TCA_HTB_PARMS attribute carrying tc_htb_opt, rate and ceiling expressed
// in bytes/sec.
type HtbClassOptions struct {
	Rate    uint32
	Ceil    uint32
	Buffer  uint32
	Cbuffer uint32
	Quantum uint32
	Prio    uint32
}

func (o *HtbClassOptions) New() ClassOptions { return &HtbClassOptions{} }

func (*HtbClassOptions) Kind() string { return "htb" }

func (o *HtbClassOptions) Encode() ([]byte, error) {
	opt := nl.TcHtbOpt{
		Rate:    nl.TcRateSpec{Rate: o.Rate},
		Ceil:    nl.TcRateSpec{Rate: o.Ceil},
		Buffer:  o.Buffer,
		Cbuffer: o.Cbuffer,
		Quantum: o.Quantum,
		Prio:    o.Prio,
	}
	ae := nl.NewAttributeEncoder()
	ae.Bytes(unix.TCA_HTB_PARMS, opt.Bytes())
	return ae.Encode()
}

func (o *HtbClassOptions) Decode(b []byte) error {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return err
	}
	for ad.Next() {
		if ad.Type() == unix.TCA_HTB_PARMS {
			opt, err := nl.ParseTcHtbOpt(ad.Bytes())
			if err != nil {
				return err
			}
			o.Rate, o.Ceil = opt.Rate.Rate, opt.Ceil.Rate
			o.Buffer, o.Cbuffer, o.Quantum, o.Prio = opt.Buffer, opt.Cbuffer, opt.Quantum, opt.Prio
		}
	}
	return ad.Err()
}
