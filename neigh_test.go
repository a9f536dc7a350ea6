package netlinklib

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ionos-cloud/netlinklib/internal/unix"
)

func TestNeighMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  NeighMessage
	}{
		{
			name: "minimal",
			msg: NeighMessage{
				Family: unix.AF_INET,
				Index:  2,
				State:  0x02, // NUD_REACHABLE
			},
		},
		{
			name: "with attributes",
			msg: NeighMessage{
				Family: unix.AF_INET,
				Index:  2,
				State:  0x02, // NUD_REACHABLE
				Flags:  NTF_SELF,
				Attributes: &NeighAttributes{
					Address:   net.IPv4(192, 0, 2, 1).To4(),
					LLAddress: net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
					IfIndex:   2,
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

			var got NeighMessage
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("UnmarshalBinary: %v", err)
			}

			if diff := cmp.Diff(tt.msg, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNeighMessageUnmarshalShort(t *testing.T) {
	var m NeighMessage
	if err := m.UnmarshalBinary([]byte{0x00}); err != errInvalidNeighMessage {
		t.Fatalf("expected errInvalidNeighMessage, got %v", err)
	}
}

func TestNeighCacheInfoDecodeBadLength(t *testing.T) {
	var c NeighCacheInfo
	if err := c.decode(make([]byte, 3)); err != errInvalidNeighMessageAttr {
		t.Fatalf("expected errInvalidNeighMessageAttr, got %v", err)
	}
}

func TestNeighServiceDeleteUsesIndex(t *testing.T) {
	// A request built as NeighMessage{Index: ...} must keep the caller's
	// interface index through a marshal/unmarshal round trip.
	req := &NeighMessage{Index: 7}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got NeighMessage
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Index != 7 {
		t.Fatalf("expected index 7, got %d", got.Index)
	}
}
