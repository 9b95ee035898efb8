// Package signer computes legacy SIGHASH_ALL signature hashes and produces the
// P2PKH unlocking script of every input.
package signer

import (
	"encoding/hex"
	"runtime"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btclog"
	"golang.org/x/sync/errgroup"

	"github.com/islishude/bitcoin-txbuilder/codec"
	"github.com/islishude/bitcoin-txbuilder/hasher"
	"github.com/islishude/bitcoin-txbuilder/script"
	"github.com/islishude/bitcoin-txbuilder/tx"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

// SigHashAll commits a signature to every input and output.
const SigHashAll uint32 = 0x01

var log = btclog.Disabled

// UseLogger sets the package logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SigHash returns the legacy signature hash of input index:
//
//  1. copy the transaction
//  2. clear every scriptSig
//  3. put the spent output's scriptPubKey in the scriptSig of input index
//  4. serialize and append the 4-byte sighash type
//  5. sha256d
func SigHash(t *tx.Transaction, index int) ([]byte, error) {
	const op = "signer.SigHash"

	if index < 0 || index >= len(t.Inputs) {
		return nil, txerr.New(txerr.SigningError, op, "input %d out of range [0, %d)", index, len(t.Inputs))
	}
	subScript := t.Inputs[index].ScriptPubKey
	if subScript == "" {
		return nil, txerr.New(txerr.SigningError, op, "input %d: scriptPubKey of spent output is unknown", index)
	}

	txCopy := t.Clone()
	for i := range txCopy.Inputs {
		txCopy.Inputs[i].ScriptSig = ""
	}
	txCopy.Inputs[index].ScriptSig = subScript

	serialized, err := tx.Serialize(txCopy)
	if err != nil {
		return nil, err
	}
	hashType, err := codec.IntToLittleEndianHex(uint64(SigHashAll), 4)
	if err != nil {
		return nil, err
	}

	preimage, err := codec.DecodeHex(serialized + hashType)
	if err != nil {
		return nil, txerr.Wrap(txerr.SigningError, op, err)
	}
	return hasher.DoubleSHA256(preimage), nil
}

// GenerateSignature signs input index with prvkey and returns the hex of the
// DER signature followed by the SIGHASH_ALL byte.
func GenerateSignature(prvkey *btcec.PrivateKey, t *tx.Transaction, index int) (string, error) {
	if prvkey == nil {
		return "", txerr.New(txerr.SigningError, "signer.GenerateSignature", "nil private key")
	}

	sigHash, err := SigHash(t, index)
	if err != nil {
		return "", err
	}

	// RFC6979 nonce, low-S
	sig := ecdsa.Sign(prvkey, sigHash)
	return hex.EncodeToString(append(sig.Serialize(), byte(SigHashAll))), nil
}

// SignInput returns the P2PKH scriptSig <sig> <compressed pubkey> of input index.
func SignInput(prvkey *btcec.PrivateKey, t *tx.Transaction, index int) (string, error) {
	sig, err := GenerateSignature(prvkey, t, index)
	if err != nil {
		return "", err
	}
	pubkey := hex.EncodeToString(prvkey.PubKey().SerializeCompressed())

	sigScript, err := script.CreateScriptSig(sig, pubkey)
	if err != nil {
		return "", txerr.Wrap(txerr.SigningError, "signer.SignInput", err)
	}
	return sigScript, nil
}

// SignAll returns the scriptSig of every input of t, in input order.
// Each signature hash only depends on t, so inputs are signed concurrently.
// t is not modified.
func SignAll(prvkey *btcec.PrivateKey, t *tx.Transaction) ([]string, error) {
	// the signers share no mutable state
	skeleton := t.Clone()
	sigScripts := make([]string, len(skeleton.Inputs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx := range skeleton.Inputs {
		idx := idx // per-iteration copy; go directive is < 1.22
		g.Go(func() error {
			sigScript, err := SignInput(prvkey, skeleton, idx)
			if err != nil {
				return err
			}
			sigScripts[idx] = sigScript
			log.Tracef("signed input %d (%s:%d)", idx,
				skeleton.Inputs[idx].TxID, skeleton.Inputs[idx].Vout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sigScripts, nil
}
