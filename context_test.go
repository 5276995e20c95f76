package remittance_test

import (
	"context"
	"testing"
	"time"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest/assert"
)

func TestBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, err := remittance.BlockTime(ctx); !errors.ErrHuman.Is(err) {
		t.Fatalf("missing block time must fail, got %v", err)
	}

	now := time.Date(2019, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	ctx = remittance.WithBlockTime(ctx, now)
	got, err := remittance.BlockTime(ctx)
	assert.Nil(t, err)
	assert.Equal(t, time.UTC, got.Location())
	if !got.Equal(now) {
		t.Fatalf("want %s, got %s", now, got)
	}

	assert.Panics(t, func() { remittance.WithBlockTime(ctx, now) })

	// Expiration is inclusive.
	assert.Equal(t, true, remittance.IsExpired(ctx, remittance.AsUnixTime(now)))
	assert.Equal(t, false, remittance.IsExpired(ctx, remittance.AsUnixTime(now).Add(time.Second)))
}

func TestChainID(t *testing.T) {
	cases := map[string]struct {
		chainID   string
		wantPanic bool
	}{
		"valid":     {chainID: "remit-local"},
		"too short": {chainID: "abc", wantPanic: true},
		"bad chars": {chainID: "remit local", wantPanic: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantPanic {
				assert.Panics(t, func() { remittance.WithChainID(context.Background(), tc.chainID) })
				return
			}
			ctx := remittance.WithChainID(context.Background(), tc.chainID)
			assert.Equal(t, tc.chainID, remittance.GetChainID(ctx))
			assert.Panics(t, func() { remittance.WithChainID(ctx, tc.chainID) })
		})
	}
}

func TestHeight(t *testing.T) {
	ctx := context.Background()
	_, ok := remittance.GetHeight(ctx)
	assert.Equal(t, false, ok)

	ctx = remittance.WithHeight(ctx, 7)
	h, ok := remittance.GetHeight(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), h)
}
