// Package builder turns a set of UTXOs owned by one key into a signed legacy
// P2PKH payment.
package builder

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"

	"github.com/islishude/bitcoin-txbuilder/fee"
	"github.com/islishude/bitcoin-txbuilder/keys"
	"github.com/islishude/bitcoin-txbuilder/script"
	"github.com/islishude/bitcoin-txbuilder/signer"
	"github.com/islishude/bitcoin-txbuilder/tx"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

// DefaultDustThreshold is the largest change, in satoshis, that is given up
// to the fee instead of creating an output.
const DefaultDustThreshold uint64 = 546

var log = btclog.Disabled

// UseLogger sets the package logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

type options struct {
	netwk *chaincfg.Params
	fee   fee.Policy
	dust  uint64
}

// Option configures Build and CreateTransaction.
type Option func(*options)

// WithNetwork selects the address network. The default is testnet3.
func WithNetwork(netwk *chaincfg.Params) Option {
	return func(o *options) { o.netwk = netwk }
}

// WithFeePolicy replaces the flat fee.
func WithFeePolicy(p fee.Policy) Option {
	return func(o *options) { o.fee = p }
}

// WithDustThreshold sets the change value at or below which no change output
// is created.
func WithDustThreshold(sat uint64) Option {
	return func(o *options) { o.dust = sat }
}

// Result describes a signed transaction.
type Result struct {
	Hex    string
	TxID   string
	Fee    uint64
	Change uint64
	// Forfeited is the change given up to the fee because it was dust.
	Forfeited uint64
	Tx        *tx.Transaction
}

// CreateTransaction spends all utxos, paying amount to targetAddress and the
// remainder minus the fee back to the address of privateKeyHex, and returns
// the signed raw transaction as hex.
func CreateTransaction(utxos []tx.UTXO, targetAddress string, amount uint64,
	privateKeyHex string, opts ...Option) (string, error) {
	res, err := Build(utxos, targetAddress, amount, privateKeyHex, opts...)
	if err != nil {
		return "", err
	}
	return res.Hex, nil
}

// Build is CreateTransaction returning the full Result.
func Build(utxos []tx.UTXO, targetAddress string, amount uint64,
	privateKeyHex string, opts ...Option) (*Result, error) {
	const op = "builder.Build"

	o := options{
		netwk: &chaincfg.TestNet3Params,
		fee:   fee.Default,
		dust:  DefaultDustThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// 1. validate
	if len(utxos) == 0 {
		return nil, txerr.New(txerr.InsufficientFunds, op, "no utxos to spend")
	}
	if amount == 0 {
		return nil, txerr.New(txerr.EncodingError, op, "amount must be positive")
	}
	if err := checkNetwork(targetAddress, o.netwk); err != nil {
		return nil, err
	}

	prvkey, err := keys.ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}
	changeAddress := keys.PubKeyHashAddress(prvkey.PubKey().SerializeCompressed(), o.netwk)
	ownScript, err := script.CreateScriptPubKey(changeAddress)
	if err != nil {
		return nil, err
	}

	// 2. unsigned skeleton
	newtx := tx.New()
	total, err := addInputs(newtx, utxos, ownScript)
	if err != nil {
		return nil, err
	}
	newtx.AddOutput(targetAddress, amount)

	// 3. funds
	txFee, err := o.fee.Fee(newtx.Clone())
	if err != nil {
		return nil, txerr.Wrap(txerr.EncodingError, op, err)
	}
	need := amount + txFee
	if need < amount || total < need {
		return nil, &txerr.Error{
			Kind: txerr.InsufficientFunds,
			Op:   op,
			Err:  fmt.Errorf("have %d sat, need %d sat plus %d sat fee", total, amount, txFee),
		}
	}

	// 4. change
	res := &Result{Fee: txFee}
	if change := total - need; change > o.dust {
		newtx.AddOutput(changeAddress, change)
		res.Change = change
	} else if change > 0 {
		log.Infof("change of %d sat is at or below the dust threshold of %d sat, "+
			"adding it to the fee", change, o.dust)
		res.Fee += change
		res.Forfeited = change
	}

	spent, err := newtx.OutputValue()
	if err != nil {
		return nil, err
	}
	if total-spent != res.Fee {
		return nil, txerr.New(txerr.EncodingError, op,
			"inputs %d sat minus outputs %d sat is not the fee %d sat", total, spent, res.Fee)
	}

	// 5. sign
	sigScripts, err := signer.SignAll(prvkey, newtx)
	if err != nil {
		return nil, err
	}
	for i := range newtx.Inputs {
		newtx.Inputs[i].ScriptSig = sigScripts[i]
	}

	// 6. serialize
	res.Hex, err = tx.Serialize(newtx)
	if err != nil {
		return nil, err
	}
	if res.TxID, err = tx.TxID(res.Hex); err != nil {
		return nil, err
	}
	res.Tx = newtx

	size, err := tx.Size(newtx)
	if err != nil {
		return nil, err
	}
	log.Debugf("built %s: %d inputs, %d outputs, fee %d sat, %d bytes",
		res.TxID, len(newtx.Inputs), len(newtx.Outputs), res.Fee, size)
	return res, nil
}

// checkNetwork rejects malformed addresses and addresses of another network.
func checkNetwork(address string, netwk *chaincfg.Params) error {
	version, _, err := script.DecodeAddress(address)
	if err != nil {
		return err
	}
	if version != netwk.PubKeyHashAddrID {
		return txerr.New(txerr.InvalidAddress, "builder.checkNetwork",
			"%s is not a %s address", address, netwk.Name)
	}
	return nil
}

// addInputs appends one input per utxo and returns the total value spent.
func addInputs(newtx *tx.Transaction, utxos []tx.UTXO, ownScript string) (uint64, error) {
	const op = "builder.addInputs"

	var total uint64
	seen := make(map[string]struct{}, len(utxos))
	for i, utxo := range utxos {
		if utxo.Value == 0 {
			return 0, txerr.New(txerr.InsufficientFunds, op, "utxo %d has no value", i)
		}
		outpoint := fmt.Sprintf("%s:%d", strings.ToLower(utxo.TxID), utxo.Vout)
		if _, ok := seen[outpoint]; ok {
			return 0, txerr.New(txerr.SerializationError, op, "utxo %d: %s is spent twice", i, outpoint)
		}
		seen[outpoint] = struct{}{}

		pkScript, err := lockingScript(utxo)
		if err != nil {
			return 0, txerr.New(txerr.SigningError, op, "utxo %d: %w", i, err)
		}
		if pkScript != ownScript {
			return 0, txerr.New(txerr.SigningError, op, "utxo %d: %s is not locked to the signing key", i, outpoint)
		}
		newtx.AddInput(utxo, pkScript)

		next := total + utxo.Value
		if next < total {
			return 0, txerr.New(txerr.EncodingError, op, "input sum overflows")
		}
		total = next
	}
	return total, nil
}

// lockingScript returns the scriptPubKey of the spent output, derived from
// its address when the indexer did not report it.
func lockingScript(utxo tx.UTXO) (string, error) {
	switch {
	case utxo.ScriptPubKey != "":
		if !script.IsPayToPubKeyHash(utxo.ScriptPubKey) {
			return "", fmt.Errorf("scriptPubKey %s is not P2PKH", utxo.ScriptPubKey)
		}
		return strings.ToLower(utxo.ScriptPubKey), nil
	case utxo.Address != "":
		return script.CreateScriptPubKey(utxo.Address)
	}
	return "", fmt.Errorf("scriptPubKey of %s:%d is unknown", utxo.TxID, utxo.Vout)
}
