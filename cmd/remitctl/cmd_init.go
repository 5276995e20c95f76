package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/waynedobson/remittance/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize a new ledger from a genesis file.

The genesis file declares the chain id, the initial wallet balances and the
ledger configuration:

  {
    "chain_id": "remit-local",
    "app_state": {
      "cash": [{"address": "<hex>", "balance": 1000000}],
      "conf": {"escrow": {"owner": "<hex>", "fee": 1000,
                          "default_intermediary": "<hex>", "max_delay": 2592000}}
    }
  }

A ledger can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	n, err := openNode(*homeFl)
	if err != nil {
		return fmt.Errorf("cannot open node: %s", err)
	}
	defer n.Close()

	if err := n.InitChain(gen); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, n.ChainID())
	return err
}
