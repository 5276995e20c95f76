package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/waynedobson/remittance/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with hex encoded private key is created. This
command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKey(fl)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}
	key, err := crypto.GenPrivKeyEd25519()
	if err != nil {
		return err
	}
	return crypto.WriteKeyFile(*keyPathFl, key)
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex and bech32 address associated with your private key.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKey(fl)
	fl.Parse(args)

	key, err := crypto.ReadKeyFile(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	addr := key.PublicKey().Address()
	bech, err := addr.Bech32()
	if err != nil {
		return fmt.Errorf("cannot encode address: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", addr, bech)
	return err
}
