package remittance

import (
	"testing"
)

type nopQuery struct{}

func (nopQuery) Query(ReadOnlyKVStore, string, []byte) ([]Model, error) {
	return nil, nil
}

func TestQueryRouter(t *testing.T) {
	qr := NewQueryRouter()
	qr.RegisterAll(
		func(r QueryRouter) { r.Register("/wallets", nopQuery{}) },
		func(r QueryRouter) { r.Register("/deposits", nopQuery{}) },
	)

	if qr.Handler("/deposits") == nil {
		t.Fatal("registered path not found")
	}
	if qr.Handler("/fees") != nil {
		t.Fatal("unexpected handler")
	}
	if got := qr.Paths(); len(got) != 2 || got[0] != "/deposits" || got[1] != "/wallets" {
		t.Fatalf("unexpected paths: %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("re-registering must panic")
		}
	}()
	qr.Register("/wallets", nopQuery{})
}
