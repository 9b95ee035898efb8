// Command txbuild signs a legacy P2PKH payment from a JSON list of UTXOs and
// prints the raw transaction hex.
//
//	txbuild -utxos utxos.json -to <address> -amount 50000 -key <hex>
//
// Settings can also come from TXB_* environment variables or a .env file.
//
// The exit status is 1 for usage and I/O errors and 10 plus the error kind
// for build failures, e.g. 13 for insufficient funds.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btclog"

	"github.com/islishude/bitcoin-txbuilder/builder"
	"github.com/islishude/bitcoin-txbuilder/config"
	"github.com/islishude/bitcoin-txbuilder/keys"
	"github.com/islishude/bitcoin-txbuilder/signer"
	"github.com/islishude/bitcoin-txbuilder/tx"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

var log = btclog.Disabled

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "txbuild:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if kind := txerr.KindOf(err); kind != txerr.Unknown {
		return 10 + int(kind)
	}
	return 1
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("txbuild", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		utxoFile = fs.String("utxos", "-", "JSON file with the UTXOs to spend, - for stdin")
		target   = fs.String("to", "", "destination P2PKH address")
		amount   = fs.Uint64("amount", 0, "amount to send in satoshis")
		key      = fs.String("key", cfg.PrivateKey, "hex private key owning the UTXOs ("+config.EnvPrivateKey+")")
		network  = fs.String("network", cfg.Network.Name, "mainnet, testnet3, regtest or signet")
		flatFee  = fs.Uint64("fee", cfg.Fee, "flat fee in satoshis")
		feeRate  = fs.Uint64("fee-rate", cfg.FeeRate, "fee rate in sat/byte, overrides -fee")
		dust     = fs.Uint64("dust", cfg.Dust, "change at or below this value is added to the fee")
		logLevel = fs.String("log", cfg.LogLevel, "log level: trace, debug, info, warn, error, off")
		genkey   = fs.Bool("genkey", false, "print a new private key and its address, then exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	netwk, err := config.ParseNetwork(*network)
	if err != nil {
		return err
	}
	cfg.Network, cfg.Fee, cfg.FeeRate, cfg.Dust = netwk, *flatFee, *feeRate, *dust

	if err := setupLogging(stderr, *logLevel); err != nil {
		return err
	}

	if *genkey {
		prvkey, err := keys.Generate()
		if err != nil {
			return err
		}
		address, err := keys.DeriveAddress(prvkey, netwk)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, "private key:", prvkey)
		fmt.Fprintln(stdout, "address:", address)
		return nil
	}

	if *key == "" {
		return fmt.Errorf("missing private key, use -key or %s", config.EnvPrivateKey)
	}
	if *target == "" {
		return fmt.Errorf("missing destination, use -to")
	}

	log.Debugf("signing with key %s on %s", config.MaskSecret(*key), netwk.Name)

	utxos, err := readUTXOs(*utxoFile, stdin)
	if err != nil {
		return err
	}

	res, err := builder.Build(utxos, *target, *amount, *key, cfg.Options()...)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "txid %s fee %d change %d\n", res.TxID, res.Fee, res.Change)
	fmt.Fprintln(stdout, res.Hex)
	return nil
}

func setupLogging(w io.Writer, level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	backend := btclog.NewBackend(w)

	log = backend.Logger("TXBD")
	log.SetLevel(lvl)

	builderLog := backend.Logger("BLDR")
	builderLog.SetLevel(lvl)
	builder.UseLogger(builderLog)

	signerLog := backend.Logger("SIGN")
	signerLog.SetLevel(lvl)
	signer.UseLogger(signerLog)
	return nil
}

func readUTXOs(path string, stdin io.Reader) ([]tx.UTXO, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var utxos []tx.UTXO
	if err := json.NewDecoder(r).Decode(&utxos); err != nil {
		return nil, fmt.Errorf("decode utxos: %w", err)
	}
	return utxos, nil
}
