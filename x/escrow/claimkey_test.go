package escrow

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest"
)

func TestClaimKey(t *testing.T) {
	Convey("Given two secrets and an intermediary", t, func() {
		secretA := []byte("blue whale")
		secretB := []byte("tuesday")
		broker := remittest.SequenceCondition(1).Address()

		key := ComputeClaimKey(secretA, secretB, broker)

		Convey("The key is well formed", func() {
			So(key, ShouldHaveLength, ClaimKeyLength)
			So(key.Validate(), ShouldBeNil)
		})

		Convey("The key is deterministic", func() {
			again := ComputeClaimKey([]byte("blue whale"), []byte("tuesday"), broker)
			So(again.Equals(key), ShouldBeTrue)
		})

		Convey("The order of the secrets matters", func() {
			So(ComputeClaimKey(secretB, secretA, broker).Equals(key), ShouldBeFalse)
		})

		Convey("The key is bound to the intermediary", func() {
			other := remittest.SequenceCondition(2).Address()
			So(ComputeClaimKey(secretA, secretB, other).Equals(key), ShouldBeFalse)
		})

		Convey("Moving bytes between the secrets changes the key", func() {
			shifted := ComputeClaimKey([]byte("blue whalet"), []byte("uesday"), broker)
			So(shifted.Equals(key), ShouldBeFalse)
		})

		Convey("The hex form can be parsed back", func() {
			parsed, err := ParseClaimKey(key.String())
			So(err, ShouldBeNil)
			So(parsed.Equals(key), ShouldBeTrue)
		})

		Convey("The JSON form can be parsed back", func() {
			raw, err := json.Marshal(key)
			So(err, ShouldBeNil)
			var got ClaimKey
			So(json.Unmarshal(raw, &got), ShouldBeNil)
			So(got.Equals(key), ShouldBeTrue)
		})
	})

	Convey("Malformed keys are rejected", t, func() {
		So(errors.ErrInput.Is(ClaimKey(nil).Validate()), ShouldBeTrue)
		So(errors.ErrInput.Is(ClaimKey([]byte{1, 2, 3}).Validate()), ShouldBeTrue)
		So(errors.ErrInput.Is(make(ClaimKey, ClaimKeyLength).Validate()), ShouldBeTrue)

		_, err := ParseClaimKey("not hex")
		So(errors.ErrInput.Is(err), ShouldBeTrue)
		_, err = ParseClaimKey("AABB")
		So(errors.ErrInput.Is(err), ShouldBeTrue)

		empty, err := ParseClaimKey("")
		So(err, ShouldBeNil)
		So(empty, ShouldBeEmpty)
	})
}
