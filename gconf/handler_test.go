package gconf

import (
	"context"
	"testing"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest"
	"github.com/waynedobson/remittance/remittest/assert"
	"github.com/waynedobson/remittance/store"
)

type myconfigMsg struct {
	Patch     *myconfig
	FieldMask []string
}

func (*myconfigMsg) Path() string                 { return "mypkg/update_configuration" }
func (*myconfigMsg) Validate() error              { return nil }
func (m *myconfigMsg) Marshal() ([]byte, error)   { return nil, nil }
func (m *myconfigMsg) Unmarshal(raw []byte) error { return nil }

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := remittest.NewCondition()
	other := remittest.NewCondition()

	cases := map[string]struct {
		// Init is the initial configuration state, nil for none.
		Init           *myconfig
		Msg            remittance.Msg
		MsgConditions  []remittance.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantConfig     *myconfig
	}{
		"success": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: other.Address(), Num: 333, Str: "boing!"},
			},
			MsgConditions: []remittance.Condition{cond},
			WantConfig:    &myconfig{Owner: other.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			MsgConditions:  []remittance.Condition{other},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"zero values are not updating the configuration": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Str: "only the string"},
			},
			MsgConditions: []remittance.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "only the string"},
		},
		"field mask resets zero values": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch:     &myconfig{Num: 0, Str: "ignored"},
				FieldMask: []string{"Num"},
			},
			MsgConditions: []remittance.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 0, Str: "foobar"},
		},
		"field mask cannot clear a required field": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch:     &myconfig{Num: 7},
				FieldMask: []string{"Owner"},
			},
			MsgConditions:  []remittance.Condition{cond},
			WantCheckErr:   errors.ErrEmpty,
			WantDeliverErr: errors.ErrEmpty,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"field mask must name existing fields": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch:     &myconfig{Num: 1},
				FieldMask: []string{"Num", "Missing"},
			},
			MsgConditions:  []remittance.Condition{cond},
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"patch is required": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125},
			Msg:            &myconfigMsg{},
			MsgConditions:  []remittance.Condition{cond},
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
		"configuration must exist": {
			Msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			MsgConditions:  []remittance.Condition{cond},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.Init != nil {
				assert.Nil(t, Save(db, "mypkg", tc.Init))
			}

			auth := &remittest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.MsgConditions...)
			handler := NewUpdateConfigurationHandler("mypkg", &myconfig{}, auth)
			tx := &remittest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			_, err := handler.Check(ctx, cache, tx)
			assert.IsErr(t, tc.WantCheckErr, err)
			cache.Discard()

			_, err = handler.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.WantDeliverErr, err)

			if tc.WantConfig != nil {
				var got myconfig
				assert.Nil(t, Load(db, "mypkg", &got))
				assert.Equal(t, *tc.WantConfig, got)
			}
		})
	}
}
