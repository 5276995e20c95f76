package app

import (
	"encoding/json"
	"testing"
)

func mustJSON(t testing.TB, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	return raw
}
