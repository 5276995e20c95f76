package remittance_test

import (
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

func TestConditionAddress(t *testing.T) {
	Convey("conditions map to fixed size addresses", t, func() {
		a := remittance.NewCondition("sigs", "ed25519", []byte("alice"))
		b := remittance.NewCondition("sigs", "ed25519", []byte("bob"))

		So(a.Validate(), ShouldBeNil)
		So(len(a.Address()), ShouldEqual, remittance.AddressLength)
		So(a.Address().Equals(b.Address()), ShouldBeFalse)
		So(a.Address().Equals(a.Address().Clone()), ShouldBeTrue)
		So(a.String(), ShouldEqual, "sigs/ed25519/616C696365")
	})

	Convey("malformed conditions are rejected", t, func() {
		So(errors.ErrInput.Is(remittance.Condition("no-sections").Validate()), ShouldBeTrue)
		So(errors.ErrInput.Is(remittance.Condition("a/ed25519/data").Validate()), ShouldBeTrue)
	})
}

func TestParseAddress(t *testing.T) {
	cond := remittance.NewCondition("escrow", "custody", []byte("ledger"))
	addr := cond.Address()
	bech, err := addr.Bech32()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(bech, remittance.AddressPrefix+"1"))

	cases := map[string]struct {
		enc      string
		wantErr  *errors.Error
		wantAddr remittance.Address
	}{
		"default hex": {
			enc:      addr.String(),
			wantAddr: addr,
		},
		"prefixed hex": {
			enc:      "hex:" + addr.String(),
			wantAddr: addr,
		},
		"bech32": {
			enc:      "bech32:" + bech,
			wantAddr: addr,
		},
		"condition": {
			enc:      "cond:escrow/custody/6c6564676572",
			wantAddr: addr,
		},
		"short hex": {
			enc:     "abcd",
			wantErr: errors.ErrInput,
		},
		"empty hex": {
			enc:     "hex:",
			wantErr: errors.ErrEmpty,
		},
		"invalid condition format": {
			enc:     "cond:escrow/6c6564676572",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "base64:xxx",
			wantErr: errors.ErrType,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := remittance.ParseAddress(tc.enc)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if !got.Equals(tc.wantAddr) {
				t.Fatalf("want %s, got %s", tc.wantAddr, got)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := remittance.NewCondition("sigs", "ed25519", []byte("alice")).Address()
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	require.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got remittance.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	require.True(t, addr.Equals(got))

	require.NoError(t, json.Unmarshal([]byte(`""`), &got))
	require.Nil(t, got)
}
