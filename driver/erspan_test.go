package driver

import (
	"net"
	"testing"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

func TestErspanDecodeRaw(t *testing.T) {
	ae := nl.NewAttributeEncoder()
	ae.Uint32(unix.IFLA_GRE_ERSPAN_VER, 1)
	ae.Uint32BE(unix.IFLA_GRE_IKEY, 1)
	ae.Uint32BE(unix.IFLA_GRE_OKEY, 1)
	ae.Bytes(unix.IFLA_GRE_LOCAL, net.ParseIP("10.0.0.1").To4())
	ae.Bytes(unix.IFLA_GRE_REMOTE, net.ParseIP("10.0.0.2").To4())
	b, err := ae.Encode()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	e := &Erspan{}
	if err := e.Decode(ad); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if e.ErspanVer == nil || *e.ErspanVer != 1 {
		t.Errorf("expected erspan_ver 1, got %v", e.ErspanVer)
	}
	if e.IKey == nil || *e.IKey != 1 {
		t.Errorf("expected gre_ikey 1, got %v", e.IKey)
	}
	if e.OKey == nil || *e.OKey != 1 {
		t.Errorf("expected gre_okey 1, got %v", e.OKey)
	}
	if !e.Local.Equal(net.ParseIP("10.0.0.1")) {
		t.Errorf("expected gre_local 10.0.0.1, got %v", e.Local)
	}
	if !e.Remote.Equal(net.ParseIP("10.0.0.2")) {
		t.Errorf("expected gre_remote 10.0.0.2, got %v", e.Remote)
	}
}

func TestErspanEncodeDecode(t *testing.T) {
	ikey, okey, ver := uint32(42), uint32(7), uint32(1)
	e := &Erspan{
		IKey:      &ikey,
		OKey:      &okey,
		ErspanVer: &ver,
		Local:     net.ParseIP("192.168.1.1"),
		Remote:    net.ParseIP("192.168.1.2"),
	}

	ae := nl.NewAttributeEncoder()
	if err := e.Encode(ae); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	b, err := ae.Encode()
	if err != nil {
		t.Fatalf("failed to encode attributes: %v", err)
	}

	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	decoded := &Erspan{}
	if err := decoded.Decode(ad); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if decoded.IKey == nil || *decoded.IKey != ikey {
		t.Errorf("expected ikey %d, got %v", ikey, decoded.IKey)
	}
	if decoded.OKey == nil || *decoded.OKey != okey {
		t.Errorf("expected okey %d, got %v", okey, decoded.OKey)
	}
	if !decoded.Local.Equal(e.Local) {
		t.Errorf("expected local %v, got %v", e.Local, decoded.Local)
	}
	if !decoded.Remote.Equal(e.Remote) {
		t.Errorf("expected remote %v, got %v", e.Remote, decoded.Remote)
	}
}

func TestErspanKind(t *testing.T) {
	if got, want := (&Erspan{}).Kind(), "erspan"; got != want {
		t.Errorf("expected kind %q, got %q", want, got)
	}
}

func TestIp6erspanEncodeDecode(t *testing.T) {
	ver := uint32(2)
	e := &Ip6erspan{
		ErspanVer: &ver,
		Local:     net.ParseIP("fd00::1"),
		Remote:    net.ParseIP("fd00::2"),
	}

	ae := nl.NewAttributeEncoder()
	if err := e.Encode(ae); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	b, err := ae.Encode()
	if err != nil {
		t.Fatalf("failed to encode attributes: %v", err)
	}

	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	decoded := &Ip6erspan{}
	if err := decoded.Decode(ad); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if decoded.ErspanVer == nil || *decoded.ErspanVer != ver {
		t.Errorf("expected erspan_ver %d, got %v", ver, decoded.ErspanVer)
	}
	if !decoded.Local.Equal(e.Local) {
		t.Errorf("expected local %v, got %v", e.Local, decoded.Local)
	}
	if !decoded.Remote.Equal(e.Remote) {
		t.Errorf("expected remote %v, got %v", e.Remote, decoded.Remote)
	}
}

func TestIp6erspanKind(t *testing.T) {
	if got, want := (&Ip6erspan{}).Kind(), "ip6erspan"; got != want {
		t.Errorf("expected kind %q, got %q", want, got)
	}
}
