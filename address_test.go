package netlinklib

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

func TestAddressMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  AddressMessage
	}{
		{
			name: "minimal",
			msg: AddressMessage{
				Family:       unix.AF_INET,
				PrefixLength: 24,
				Scope:        unix.RT_SCOPE_UNIVERSE,
				Index:        2,
			},
		},
		{
			name: "full attributes",
			msg: AddressMessage{
				Family:       unix.AF_INET,
				PrefixLength: 24,
				Scope:        unix.RT_SCOPE_UNIVERSE,
				Index:        2,
				Attributes: AddressAttributes{
					Address:   net.IPv4(192, 0, 2, 1).To4(),
					Local:     net.IPv4(192, 0, 2, 1).To4(),
					Broadcast: net.IPv4(192, 0, 2, 255).To4(),
					Label:     "eth0",
					Flags:     0x80, // IFA_F_PERMANENT
				},
			},
		},
		{
			name: "ipv6",
			msg: AddressMessage{
				Family:       unix.AF_INET6,
				PrefixLength: 64,
				Scope:        unix.RT_SCOPE_UNIVERSE,
				Index:        3,
				Attributes: AddressAttributes{
					Address: net.ParseIP("2001:db8::1"),
					Local:   net.ParseIP("2001:db8::1"),
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

			var got AddressMessage
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("UnmarshalBinary: %v", err)
			}

			if diff := cmp.Diff(tt.msg, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddressMessageUnmarshalShort(t *testing.T) {
	var m AddressMessage
	if err := m.UnmarshalBinary([]byte{0x00, 0x01}); err != errInvalidAddressMessage {
		t.Fatalf("expected errInvalidAddressMessage, got %v", err)
	}
}

func TestAddressCacheInfoDecodeBadLength(t *testing.T) {
	var c AddressCacheInfo
	if err := c.decode(make([]byte, 4)); err != errInvalidAddressMessageAttr {
		t.Fatalf("expected errInvalidAddressMessageAttr, got %v", err)
	}
}

func TestIPFromAttrRejectsBadLength(t *testing.T) {
	ae := nl.NewAttributeEncoder()
	ae.Bytes(unix.IFA_ADDRESS, []byte{0x01, 0x02, 0x03})
	b, err := ae.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		t.Fatalf("NewAttributeDecoder: %v", err)
	}
	ad.Next()
	if ip := ipFromAttr(ad); ip != nil {
		t.Fatalf("expected nil IP for bad length attribute, got %v", ip)
	}
}
