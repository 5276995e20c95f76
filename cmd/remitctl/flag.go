package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/x/escrow"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *remittance.Address {
	var a remittance.Address
	if defaultVal != "" {
		var err error
		a, err = remittance.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flClaimKey returns a hex encoded claim key flag value. An empty value
// leaves the key nil.
func flClaimKey(fl *flag.FlagSet, name, usage string) *escrow.ClaimKey {
	var k escrow.ClaimKey
	fl.Var((*flagClaimKey)(&k), name, usage)
	return &k
}

type flagClaimKey escrow.ClaimKey

func (k flagClaimKey) String() string {
	return hex.EncodeToString(k)
}

func (k *flagClaimKey) Set(raw string) error {
	key, err := escrow.ParseClaimKey(raw)
	if err != nil {
		return err
	}
	*k = flagClaimKey(key)
	return nil
}

// flTime returns a block time flag. When not set, the current time is
// used.
func flTime(fl *flag.FlagSet, name, usage string) *flagTime {
	var t flagTime
	fl.Var(&t, name, usage)
	return &t
}

type flagTime struct {
	t time.Time
}

func (t flagTime) String() string {
	if t.t.IsZero() {
		return ""
	}
	return t.t.Format(time.RFC3339)
}

func (t *flagTime) Set(raw string) error {
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	t.t = v
	return nil
}

// Time returns the configured time or now.
func (t *flagTime) Time() time.Time {
	if t.t.IsZero() {
		return time.Now()
	}
	return t.t
}
