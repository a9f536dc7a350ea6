package tc

import (
	"errors"
	"sync"

	"github.com/ionos-cloud/netlinklib/internal/unix"
	"github.com/ionos-cloud/netlinklib/nl"
)

// Action implements the TCA_ACT_OPTIONS payload for one action kind
// (mirred, at minimum), the same union-by-kind shape QdiscOptions uses
// for qdiscs.
type Action interface {
	New() Action
	Kind() string
	Encode() ([]byte, error)
	Decode(b []byte) error
}

var (
	actionKindsMu sync.RWMutex
	actionKinds   = map[string]Action{}
)

// RegisterActionKind makes an action kind's TCA_ACT_OPTIONS codec
// available to decodeActions when that kind's name is seen in TCA_ACT_KIND.
func RegisterActionKind(a Action) error {
	actionKindsMu.Lock()
	defer actionKindsMu.Unlock()
	kind := a.Kind()
	if _, ok := actionKinds[kind]; ok {
		return errors.New("tc: action kind " + kind + " already registered")
	}
	actionKinds[kind] = a
	return nil
}

func lookupActionKind(kind string) Action {
	actionKindsMu.RLock()
	defer actionKindsMu.RUnlock()
	return actionKinds[kind]
}

func init() {
	_ = RegisterActionKind(&MirredAction{})
}

// encodeActions builds the TCA_U32_ACT/TCA_FLOW_ACT payload: a nested
// TCA_ACT_TAB attribute whose children are, per action, an index-tagged
// nested attribute carrying that action's TCA_ACT_KIND and TCA_ACT_OPTIONS.
// This mirrors vishvananda/netlink/nl's filter_linux.go action-list
// nesting (TCA_U32_ACT -> TCA_ACT_TAB -> {TCA_KIND, TCA_OPTIONS} per
// action), adapted to nl.AttributeEncoder's nested-closure idiom.
func encodeActions(actions []Action) ([]byte, error) {
	outer := nl.NewAttributeEncoder()
	err := outer.Nested(unix.TCA_ACT_TAB, func(tab *nl.AttributeEncoder) error {
		for i, act := range actions {
			idx := uint16(i + 1)
			if err := tab.Nested(idx, func(one *nl.AttributeEncoder) error {
				one.String(unix.TCA_ACT_KIND, act.Kind())
				b, err := act.Encode()
				if err != nil {
					return err
				}
				one.Bytes(unix.TCA_ACT_OPTIONS, b)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outer.Encode()
}

// decodeActions is the inverse of encodeActions.
func decodeActions(b []byte) ([]Action, error) {
	ad, err := nl.NewAttributeDecoder(b)
	if err != nil {
		return nil, err
	}
	var out []Action
	for ad.Next() {
		if ad.Type() != unix.TCA_ACT_TAB {
			continue
		}
		tabBytes := ad.Bytes()
		tab, err := nl.NewAttributeDecoder(tabBytes)
		if err != nil {
			return nil, err
		}
		for tab.Next() {
			var kind string
			var optBytes []byte
			one, err := nl.NewAttributeDecoder(tab.Bytes())
			if err != nil {
				return nil, err
			}
			for one.Next() {
				switch one.Type() {
				case unix.TCA_ACT_KIND:
					kind = one.String()
				case unix.TCA_ACT_OPTIONS:
					optBytes = one.Bytes()
				}
			}
			if err := one.Err(); err != nil {
				return nil, err
			}
			if proto := lookupActionKind(kind); proto != nil {
				act := proto.New()
				if err := act.Decode(optBytes); err != nil {
					return nil, err
				}
				out = append(out, act)
			}
		}
		if err := tab.Err(); err != nil {
			return nil, err
		}
	}
	return out, ad.Err()
}
