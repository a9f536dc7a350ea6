package netlinklib

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ionos-cloud/netlinklib/internal/unix"
)

func TestRuleMessageRoundTrip(t *testing.T) {
	src := net.IPv4(198, 51, 100, 0).To4()
	iif := "eth0"
	prio := uint32(100)
	table := uint32(254)

	tests := []struct {
		name string
		msg  RuleMessage
	}{
		{
			name: "minimal",
			msg: RuleMessage{
				Family: unix.AF_INET,
				Action: 1, // FR_ACT_TO_TBL
			},
		},
		{
			name: "with attributes",
			msg: RuleMessage{
				Family: unix.AF_INET,
				SrcLen: 24,
				Action: 1, // FR_ACT_TO_TBL
				Attributes: &RuleAttributes{
					Src:      &src,
					IIfname:  &iif,
					Priority: &prio,
					Table:    &table,
					UIDRange: &RuleUIDRange{Start: 1000, End: 2000},
					SPortRange: &RulePortRange{
						Start: 1024,
						End:   2048,
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

			var got RuleMessage
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("UnmarshalBinary: %v", err)
			}

			if diff := cmp.Diff(tt.msg, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRuleMessageUnmarshalShort(t *testing.T) {
	var m RuleMessage
	if err := m.UnmarshalBinary([]byte{0x00}); err != errInvalidRuleMessage {
		t.Fatalf("expected errInvalidRuleMessage, got %v", err)
	}
}

func TestDecodePortRangeBadLength(t *testing.T) {
	if _, err := decodePortRange([]byte{0x01, 0x02}); err != errInvalidRuleMessageAttr {
		t.Fatalf("expected errInvalidRuleMessageAttr, got %v", err)
	}
}
