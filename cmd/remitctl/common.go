package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/app"
	rapp "github.com/waynedobson/remittance/cmd/remitctl/app"
	"github.com/waynedobson/remittance/crypto"
	"github.com/waynedobson/remittance/eventlog"
	"github.com/waynedobson/remittance/x/escrow"
)

func flHome(fl *flag.FlagSet) *string {
	return fl.String("home", env("REMITCTL_HOME", os.Getenv("HOME")+"/.remitctl"),
		"Directory holding the ledger state and event journal. You can use REMITCTL_HOME environment variable to set it.")
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("REMITCTL_PRIV_KEY", os.Getenv("HOME")+"/.remitctl.priv.key"),
		"Path to the private key file of the transaction signer. You can use REMITCTL_PRIV_KEY environment variable to set it.")
}

// openNode opens the node stored in home. Logging and Kafka publishing are
// configured through the environment.
func openNode(home string) (*rapp.Node, error) {
	logger, err := newLogger(env("REMITCTL_LOG_LEVEL", "error"))
	if err != nil {
		return nil, err
	}
	cfg := rapp.Config{Home: home, Logger: logger}

	if brokers := env("REMITCTL_KAFKA_BROKERS", ""); brokers != "" {
		kp, err := eventlog.NewKafkaPublisher(eventlog.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   env("REMITCTL_KAFKA_TOPIC", "remittance-events"),
		}, rapp.Codec())
		if err != nil {
			return nil, err
		}
		cfg.Publishers = append(cfg.Publishers, kp)
	}
	return rapp.OpenNode(cfg)
}

func newLogger(level string) (log.Logger, error) {
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %s", level, err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), allow), nil
}

// submit signs msg with the key stored at keyPath, applies it to the node
// in home and writes the resulting record to out.
func submit(out io.Writer, home, keyPath string, at time.Time, msg remittance.Msg) error {
	key, err := crypto.ReadKeyFile(keyPath)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	n, err := openNode(home)
	if err != nil {
		return fmt.Errorf("cannot open node: %s", err)
	}
	defer n.Close()

	tx := &app.Tx{Signer: key.PublicKey().Condition(), Msg: msg}
	res, err := n.Apply(context.Background(), tx, at)
	if res == nil {
		return err
	}
	height, herr := n.Height()
	if herr != nil {
		return herr
	}
	rec := eventlog.Record{
		Height: height,
		Time:   remittance.AsUnixTime(at),
		Path:   msg.Path(),
		Events: res.Events,
	}
	if perr := eventlog.NewWriterPublisher(out, rapp.Codec()).Publish(context.Background(), rec); perr != nil {
		return perr
	}
	// The transaction is committed but some publisher failed.
	return err
}

// defaultIntermediary returns addr, or the default intermediary configured
// in the ledger stored in home when addr is empty.
func defaultIntermediary(home string, addr remittance.Address) (remittance.Address, error) {
	if len(addr) != 0 {
		return addr, nil
	}
	n, err := openNode(home)
	if err != nil {
		return nil, fmt.Errorf("cannot open node: %s", err)
	}
	defer n.Close()

	err = n.View(func(db remittance.ReadOnlyKVStore) error {
		conf, err := escrow.LoadConfiguration(db)
		if err != nil {
			return err
		}
		addr = conf.DefaultIntermediary
		return nil
	})
	return addr, err
}

func writeJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
