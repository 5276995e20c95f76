package gconf

import (
	"encoding/json"
	"testing"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest"
	"github.com/waynedobson/remittance/remittest/assert"
	"github.com/waynedobson/remittance/store"
)

type myconfig struct {
	Owner remittance.Address `json:"owner"`
	Num   int64              `json:"num"`
	Str   string             `json:"str"`
}

func (c *myconfig) GetOwner() remittance.Address { return c.Owner }

func (c *myconfig) Validate() error {
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInput, "negative num")
	}
	return c.Owner.Validate()
}

func (c *myconfig) Marshal() ([]byte, error) { return json.Marshal(c) }

func (c *myconfig) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func TestSaveLoad(t *testing.T) {
	owner := remittest.NewCondition().Address()

	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"valid configuration": {
			Conf: &myconfig{Owner: owner, Num: 42, Str: "foo"},
		},
		"invalid configuration cannot be saved": {
			Conf:        &myconfig{Owner: owner, Num: -1},
			WantSaveErr: errors.ErrInput,
		},
		"owner is required": {
			Conf:        &myconfig{Num: 1},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.Conf)
			assert.IsErr(t, tc.WantSaveErr, err)

			var got myconfig
			err = Load(db, "mypkg", &got)
			if tc.WantSaveErr != nil {
				assert.IsErr(t, errors.ErrNotFound, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, *tc.Conf, got)

			// configuration is stored per package
			assert.IsErr(t, errors.ErrNotFound, Load(db, "otherpkg", &got))
		})
	}
}

func TestInitConfig(t *testing.T) {
	owner := remittest.NewCondition().Address()
	ownerJSON, err := json.Marshal(owner)
	assert.Nil(t, err)

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    *myconfig
	}{
		"configuration is loaded": {
			Genesis: `{"conf": {"mypkg": {"owner": ` + string(ownerJSON) + `, "num": 7, "str": "x"}}}`,
			Want:    &myconfig{Owner: owner, Num: 7, Str: "x"},
		},
		"missing package": {
			Genesis: `{"conf": {"otherpkg": {}}}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Genesis: `{"conf": {"mypkg": {"owner": ` + string(ownerJSON) + `, "num": -7}}}`,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts remittance.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			err := InitConfig(db, opts, "mypkg", &myconfig{})
			assert.IsErr(t, tc.WantErr, err)
			if tc.Want == nil {
				return
			}
			var got myconfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.Want, got)
		})
	}
}
