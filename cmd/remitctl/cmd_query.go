package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/waynedobson/remittance"
	rapp "github.com/waynedobson/remittance/cmd/remitctl/app"
	"github.com/waynedobson/remittance/eventlog"
	"github.com/waynedobson/remittance/x/cash"
	"github.com/waynedobson/remittance/x/escrow"
)

func cmdClaimKey(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the hex encoded claim key for both secrets and the intermediary.

When no intermediary is given the configured default intermediary of the
ledger stored in the home directory is used.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl         = flHome(fl)
		secretAFl      = fl.String("a", "", "First secret.")
		secretBFl      = fl.String("b", "", "Second secret.")
		intermediaryFl = flAddress(fl, "intermediary", "", "Intermediary address.")
	)
	fl.Parse(args)

	intermediary, err := defaultIntermediary(*homeFl, *intermediaryFl)
	if err != nil {
		return err
	}
	key := escrow.ComputeClaimKey([]byte(*secretAFl), []byte(*secretBFl), intermediary)
	_, err = fmt.Fprintln(output, key)
	return err
}

// view opens the node in home and calls fn with its committed state.
func view(home string, fn func(remittance.ReadOnlyKVStore) error) error {
	n, err := openNode(home)
	if err != nil {
		return fmt.Errorf("cannot open node: %s", err)
	}
	defer n.Close()
	return n.View(fn)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the value locked under a claim key.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = flHome(fl)
		claimFl = flClaimKey(fl, "claim", "Hex encoded claim key.")
	)
	fl.Parse(args)

	return view(*homeFl, func(db remittance.ReadOnlyKVStore) error {
		amount, err := rapp.Ledger().Balance(db, *claimFl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, amount)
		return err
	})
}

func cmdFee(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the fee accrued by an intermediary and not yet withdrawn.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl         = flHome(fl)
		intermediaryFl = flAddress(fl, "intermediary", "", "Intermediary address.")
	)
	fl.Parse(args)

	return view(*homeFl, func(db remittance.ReadOnlyKVStore) error {
		amount, err := rapp.Ledger().AccruedFee(db, *intermediaryFl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, amount)
		return err
	})
}

func cmdWallet(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the wallet balance of an address. Use the "custody" address to see
the value held by the ledger.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		addressFl = fl.String("address", "", `Wallet address, or "custody".`)
	)
	fl.Parse(args)

	addr := escrow.CustodyAddress()
	if *addressFl != "custody" {
		var err error
		if addr, err = remittance.ParseAddress(*addressFl); err != nil {
			return fmt.Errorf("invalid address: %s", err)
		}
	}
	return view(*homeFl, func(db remittance.ReadOnlyKVStore) error {
		amount, err := cash.NewController().Balance(db, addr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, amount)
		return err
	})
}

func cmdAudit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Verify that the custody wallet holds exactly the sum of all deposits and
accrued fees. The report is printed even if it does not.
`)
		fl.PrintDefaults()
	}
	homeFl := flHome(fl)
	fl.Parse(args)

	return view(*homeFl, func(db remittance.ReadOnlyKVStore) error {
		rep, err := rapp.Ledger().Audit(db)
		if rep != nil {
			if werr := writeJSON(output, rep); werr != nil {
				return werr
			}
		}
		return err
	})
}

func cmdEvents(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all records from the event journal, one JSON line each, oldest
first.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = flHome(fl)
		fromFl = fl.Int64("from", 0, "Skip records below this height.")
	)
	fl.Parse(args)

	cdc := rapp.Codec()
	out := eventlog.NewWriterPublisher(output, cdc)
	return eventlog.ReadJournal(rapp.JournalPath(*homeFl), cdc, func(rec eventlog.Record) error {
		if rec.Height < *fromFl {
			return nil
		}
		return out.Publish(context.Background(), rec)
	})
}
