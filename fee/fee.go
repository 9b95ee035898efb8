// Package fee decides how many satoshis a transaction leaves to the miner.
package fee

import (
	"math/bits"

	"github.com/btcsuite/btcd/wire"

	"github.com/islishude/bitcoin-txbuilder/tx"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

// DefaultFee is the flat fee, in satoshis, paid by every transaction.
const DefaultFee uint64 = 1000

// Estimated sizes of a signed legacy P2PKH transaction with compressed keys.
const (
	// version + locktime, the counts are added per transaction
	txOverhead = 4 + 4
	// outpoint + script length + <73-byte sig> <33-byte pubkey> + sequence
	inputSize = 36 + 1 + 1 + 73 + 1 + 33 + 4
	// value + script length + P2PKH script
	outputSize = 8 + 1 + 25
)

// Policy returns the fee of a transaction. The transaction passed in carries
// its inputs and the payment output; change is decided after the fee.
type Policy interface {
	Fee(t *tx.Transaction) (uint64, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(t *tx.Transaction) (uint64, error)

func (f PolicyFunc) Fee(t *tx.Transaction) (uint64, error) { return f(t) }

// CalculateFee returns DefaultFee. Could be improved to calculate based on size.
func CalculateFee(_ *tx.Transaction) uint64 {
	return DefaultFee
}

// Default is the policy used when none is configured.
var Default Policy = PolicyFunc(func(t *tx.Transaction) (uint64, error) {
	return CalculateFee(t), nil
})

// Fixed pays the same amount whatever the transaction.
type Fixed uint64

func (f Fixed) Fee(*tx.Transaction) (uint64, error) { return uint64(f), nil }

// Rate pays SatPerByte for every byte of the estimated signed size, assuming
// one change output will be added.
type Rate struct {
	SatPerByte uint64
}

func (r Rate) Fee(t *tx.Transaction) (uint64, error) {
	size := EstimateSize(len(t.Inputs), len(t.Outputs)+1)
	hi, lo := bits.Mul64(size, r.SatPerByte)
	if hi != 0 {
		return 0, txerr.New(txerr.EncodingError, "fee.Rate", "fee overflows")
	}
	return lo, nil
}

// EstimateSize returns an upper bound of the signed size in bytes of a P2PKH
// transaction with the given number of inputs and outputs.
func EstimateSize(inputs, outputs int) uint64 {
	counts := wire.VarIntSerializeSize(uint64(inputs)) + wire.VarIntSerializeSize(uint64(outputs))
	return txOverhead + uint64(counts) + uint64(inputs)*inputSize + uint64(outputs)*outputSize
}
