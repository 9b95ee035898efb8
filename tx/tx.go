// Package tx holds the legacy transaction model and its raw wire encoding.
package tx

import (
	"slices"

	"github.com/islishude/bitcoin-txbuilder/txerr"
)

const (
	// Version is the version of every transaction built here.
	Version uint32 = 1

	// MaxSequence marks an input as final and opts out of BIP-125.
	MaxSequence uint32 = 0xffffffff
)

// UTXO is a spendable output of a prior transaction, as reported by a node
// or an indexer. The txid is in display (big-endian) order.
type UTXO struct {
	TxID         string `json:"txid"`
	Vout         uint32 `json:"vout"`
	Value        uint64 `json:"value"`
	Address      string `json:"address,omitempty"`
	ScriptPubKey string `json:"scriptPubKey,omitempty"`
}

// Input spends a UTXO. ScriptPubKey is the locking script of the spent output;
// it is only needed for signing and is never serialized.
type Input struct {
	TxID         string
	Vout         uint32
	ScriptSig    string
	Sequence     uint32
	ScriptPubKey string
}

// Output pays Value satoshis to a P2PKH Address.
type Output struct {
	Address string
	Value   uint64
}

// Transaction is a legacy transaction. Input and output order is preserved
// through signing and serialization.
type Transaction struct {
	Version  uint32
	Inputs   []Input
	Outputs  []Output
	LockTime uint32
}

// New returns an empty version 1 transaction.
func New() *Transaction {
	return &Transaction{Version: Version}
}

// AddInput appends an unsigned input spending utxo.
func (t *Transaction) AddInput(utxo UTXO, scriptPubKey string) {
	t.Inputs = append(t.Inputs, Input{
		TxID:         utxo.TxID,
		Vout:         utxo.Vout,
		Sequence:     MaxSequence,
		ScriptPubKey: scriptPubKey,
	})
}

func (t *Transaction) AddOutput(address string, value uint64) {
	t.Outputs = append(t.Outputs, Output{Address: address, Value: value})
}

// Clone returns a deep copy of t.
func (t *Transaction) Clone() *Transaction {
	return &Transaction{
		Version:  t.Version,
		Inputs:   slices.Clone(t.Inputs),
		Outputs:  slices.Clone(t.Outputs),
		LockTime: t.LockTime,
	}
}

// OutputValue sums the values of all outputs.
func (t *Transaction) OutputValue() (uint64, error) {
	var total uint64
	for _, out := range t.Outputs {
		next := total + out.Value
		if next < total {
			return 0, txerr.New(txerr.EncodingError, "tx.OutputValue", "output sum overflows")
		}
		total = next
	}
	return total, nil
}

// Validate checks the structural invariants of t.
func (t *Transaction) Validate() error {
	const op = "tx.Validate"
	if len(t.Inputs) == 0 {
		return txerr.New(txerr.SerializationError, op, "transaction has no inputs")
	}
	if len(t.Outputs) == 0 {
		return txerr.New(txerr.SerializationError, op, "transaction has no outputs")
	}
	return nil
}
