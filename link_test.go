package netlinklib

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

func TestLinkMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  LinkMessage
	}{
		{
			name: "minimal",
			msg: LinkMessage{
				Family: unix.AF_UNSPEC,
				Type:   0, // ARPHRD_NETROM
				Index:  1,
				Flags:  unix.IFF_UP | unix.IFF_LOOPBACK,
			},
		},
		{
			name: "full attributes",
			msg: LinkMessage{
				Family: unix.AF_UNSPEC,
				Type:   1, // ARPHRD_ETHER
				Index:  2,
				Flags:  unix.IFF_UP | unix.IFF_BROADCAST,
				Attributes: LinkAttributes{
					Address:          net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
					Broadcast:        net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
					Name:             "eth0",
					MTU:              1500,
					QueueDisc:        "noqueue",
					OperationalState: OperStateUp,
					Info: &LinkInfo{
						Kind: "vlan",
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.msg.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary: %v", err)
			}

			var got LinkMessage
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("UnmarshalBinary: %v", err)
			}

			if diff := cmp.Diff(tt.msg, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinkMessageUnmarshalShort(t *testing.T) {
	var m LinkMessage
	if err := m.UnmarshalBinary([]byte{0x00, 0x01, 0x02}); err != errInvalidLinkMessage {
		t.Fatalf("expected errInvalidLinkMessage, got %v", err)
	}
}

func TestLinkAttributesBadHardwareAddrLength(t *testing.T) {
	ae := nl.NewAttributeEncoder()
	ae.Bytes(unix.IFLA_ADDRESS, []byte{0x01, 0x02, 0x03})
	b, err := ae.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		t.Fatalf("NewAttributeDecoder: %v", err)
	}
	var a LinkAttributes
	if err := a.decode(ad); err != errInvalidLinkMessageAttr {
		t.Fatalf("expected errInvalidLinkMessageAttr, got %v", err)
	}
}

func TestLinkStatsDecodeShort(t *testing.T) {
	var s LinkStats
	if err := s.decode(make([]byte, 10)); err != errInvalidLinkMessageAttr {
		t.Fatalf("expected errInvalidLinkMessageAttr, got %v", err)
	}
}

type testDriver struct {
	Value uint32
}

func (d *testDriver) New() LinkDriver { return &testDriver{} }
func (d *testDriver) Kind() string    { return "testdriver" }

func (d *testDriver) Encode(ae *nl.AttributeEncoder) error {
	ae.Uint32(1, d.Value)
	return nil
}

func (d *testDriver) Decode(ad *nl.AttributeDecoder) error {
	for ad.Next() {
		if ad.Type() == 1 {
			d.Value = ad.Uint32()
		}
	}
	return ad.Err()
}

func TestLinkInfoDriverRoundTrip(t *testing.T) {
	if err := RegisterDriver(&testDriver{}); err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}
	if err := RegisterDriver(&testDriver{}); err == nil {
		t.Fatal("expected error registering a duplicate kind")
	}

	msg := LinkMessage{
		Family: unix.AF_UNSPEC,
		Index:  9,
		Attributes: LinkAttributes{
			Info: &LinkInfo{Data: &testDriver{Value: 42}},
		},
	}

	b, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var got LinkMessage
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	if got.Attributes.Info == nil || got.Attributes.Info.Kind != "testdriver" {
		t.Fatalf("expected kind %q, got %+v", "testdriver", got.Attributes.Info)
	}
	drv, ok := got.Attributes.Info.Data.(*testDriver)
	if !ok {
		t.Fatalf("expected *testDriver, got %T", got.Attributes.Info.Data)
	}
	if drv.Value != 42 {
		t.Fatalf("expected value 42, got %d", drv.Value)
	}
}
