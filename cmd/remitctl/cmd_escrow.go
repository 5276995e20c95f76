package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/x/escrow"
)

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Lock value under a claim key.

The claim key is either given directly or computed from both secrets and the
intermediary. The configured fee is taken from the amount and credited to
the intermediary, the rest can be withdrawn by anyone knowing both secrets.
After the delay the signer can cancel the deposit.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl         = flHome(fl)
		keyFl          = flKey(fl)
		claimFl        = flClaimKey(fl, "claim", "Hex encoded claim key. Computed from the secrets when not given.")
		secretAFl      = fl.String("a", "", "First secret, used to compute the claim key.")
		secretBFl      = fl.String("b", "", "Second secret, used to compute the claim key.")
		intermediaryFl = flAddress(fl, "intermediary", "", "Address of the intermediary receiving the fee. Defaults to the configured one.")
		delayFl        = fl.Duration("delay", 24*time.Hour, "Time after which the deposit can be cancelled.")
		amountFl       = fl.Int64("amount", 0, "Value taken from the signer, including the fee.")
		atFl           = flTime(fl, "at", "Block time in RFC3339 format. Defaults to now.")
	)
	fl.Parse(args)

	key := *claimFl
	if len(key) == 0 {
		if *secretAFl == "" || *secretBFl == "" {
			return fmt.Errorf("either claim key or both secrets must be provided")
		}
		intermediary, err := defaultIntermediary(*homeFl, *intermediaryFl)
		if err != nil {
			return err
		}
		key = escrow.ComputeClaimKey([]byte(*secretAFl), []byte(*secretBFl), intermediary)
	}

	msg := &escrow.DepositMsg{
		ClaimKey:     key,
		Intermediary: *intermediaryFl,
		DelaySeconds: int64(*delayFl / time.Second),
		Amount:       *amountFl,
	}
	return submit(output, *homeFl, *keyFl, atFl.Time(), msg)
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Withdraw the deposit unlocked by both secrets to the signer wallet.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl         = flHome(fl)
		keyFl          = flKey(fl)
		secretAFl      = fl.String("a", "", "First secret.")
		secretBFl      = fl.String("b", "", "Second secret.")
		intermediaryFl = flAddress(fl, "intermediary", "", "Address of the intermediary the deposit was made through. Defaults to the configured one.")
		atFl           = flTime(fl, "at", "Block time in RFC3339 format. Defaults to now.")
	)
	fl.Parse(args)

	msg := &escrow.WithdrawMsg{
		SecretA:      []byte(*secretAFl),
		SecretB:      []byte(*secretBFl),
		Intermediary: *intermediaryFl,
	}
	return submit(output, *homeFl, *keyFl, atFl.Time(), msg)
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return an expired deposit to its depositor. Only the depositor can cancel.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = flHome(fl)
		keyFl   = flKey(fl)
		claimFl = flClaimKey(fl, "claim", "Hex encoded claim key of the deposit.")
		atFl    = flTime(fl, "at", "Block time in RFC3339 format. Defaults to now.")
	)
	fl.Parse(args)

	msg := &escrow.CancelMsg{ClaimKey: *claimFl}
	return submit(output, *homeFl, *keyFl, atFl.Time(), msg)
}

func cmdWithdrawFee(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Collect the fee accrued by the signer.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl         = flHome(fl)
		keyFl          = flKey(fl)
		intermediaryFl = flAddress(fl, "intermediary", "", "Intermediary address, must be the signer. Defaults to the signer.")
		atFl           = flTime(fl, "at", "Block time in RFC3339 format. Defaults to now.")
	)
	fl.Parse(args)

	msg := &escrow.WithdrawFeeMsg{Intermediary: *intermediaryFl}
	return submit(output, *homeFl, *keyFl, atFl.Time(), msg)
}

// configFlags maps update-config flags to the configuration fields they set.
var configFlags = map[string]string{
	"owner":                "Owner",
	"fee":                  "Fee",
	"default-intermediary": "DefaultIntermediary",
	"max-delay":            "MaxDelay",
}

func cmdUpdateConfig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Change the ledger configuration. Must be signed by the configuration owner.

Only the provided values are changed. A provided zero value is set, so
"-fee 0" removes the fee and "-max-delay 0" removes the delay limit.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl         = flHome(fl)
		keyFl          = flKey(fl)
		ownerFl        = flAddress(fl, "owner", "", "New configuration owner.")
		feeFl          = fl.Int64("fee", 0, "New fee charged on each deposit.")
		intermediaryFl = flAddress(fl, "default-intermediary", "", "New default intermediary.")
		maxDelayFl     = fl.Duration("max-delay", 0, "New longest allowed deposit delay.")
		atFl           = flTime(fl, "at", "Block time in RFC3339 format. Defaults to now.")
	)
	fl.Parse(args)

	msg := &escrow.UpdateConfigurationMsg{
		Patch: &escrow.Configuration{
			Owner:               *ownerFl,
			Fee:                 *feeFl,
			DefaultIntermediary: *intermediaryFl,
			MaxDelay:            int64(*maxDelayFl / time.Second),
		},
	}
	fl.Visit(func(f *flag.Flag) {
		if name, ok := configFlags[f.Name]; ok {
			msg.FieldMask = append(msg.FieldMask, name)
		}
	})
	if len(msg.FieldMask) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no configuration value provided")
	}
	return submit(output, *homeFl, *keyFl, atFl.Time(), msg)
}
