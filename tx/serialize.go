package tx

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/islishude/bitcoin-txbuilder/codec"
	"github.com/islishude/bitcoin-txbuilder/hasher"
	"github.com/islishude/bitcoin-txbuilder/script"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

// Serialize encodes t in the legacy raw transaction format:
//
//	version(LE32) || varint(#in) || inputs || varint(#out) || outputs || locktime(LE32)
//	input:  txid(reversed, 32) || vout(LE32) || varint(len) || scriptSig || sequence(LE32)
//	output: value(LE64) || varint(len) || scriptPubKey
func Serialize(t *Transaction) (string, error) {
	const op = "tx.Serialize"

	if err := t.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	write := func(hexStr string, err error) error {
		if err != nil {
			return txerr.Wrap(txerr.SerializationError, op, err)
		}
		sb.WriteString(hexStr)
		return nil
	}

	if err := write(codec.IntToLittleEndianHex(uint64(t.Version), 4)); err != nil {
		return "", err
	}

	sb.WriteString(codec.VarIntToHex(uint64(len(t.Inputs))))
	for i, in := range t.Inputs {
		if len(in.TxID) != 2*chainhash.HashSize {
			return "", txerr.New(txerr.SerializationError, op,
				"input %d: txid must be %d hex chars, got %d", i, 2*chainhash.HashSize, len(in.TxID))
		}
		txid, err := codec.ReverseHex(in.TxID)
		if err != nil {
			return "", serializationErr(op, "input %d: txid: %w", i, err)
		}
		sb.WriteString(txid)

		if err := write(codec.IntToLittleEndianHex(uint64(in.Vout), 4)); err != nil {
			return "", err
		}

		sigScript, err := codec.DecodeHex(in.ScriptSig)
		if err != nil {
			return "", serializationErr(op, "input %d: scriptSig: %w", i, err)
		}
		sb.WriteString(codec.VarIntToHex(uint64(len(sigScript))))
		sb.WriteString(strings.ToLower(in.ScriptSig))

		if err := write(codec.IntToLittleEndianHex(uint64(in.Sequence), 4)); err != nil {
			return "", err
		}
	}

	sb.WriteString(codec.VarIntToHex(uint64(len(t.Outputs))))
	for i, out := range t.Outputs {
		if err := write(codec.IntToLittleEndianHex(out.Value, 8)); err != nil {
			return "", err
		}

		pkScript, err := script.CreateScriptPubKey(out.Address)
		if err != nil {
			return "", serializationErr(op, "output %d: %w", i, err)
		}
		sb.WriteString(codec.VarIntToHex(uint64(len(pkScript) / 2)))
		sb.WriteString(pkScript)
	}

	if err := write(codec.IntToLittleEndianHex(uint64(t.LockTime), 4)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// TxID returns the display-order id of a serialized transaction.
func TxID(rawHex string) (string, error) {
	raw, err := codec.DecodeHex(rawHex)
	if err != nil {
		return "", err
	}
	var h chainhash.Hash
	copy(h[:], hasher.DoubleSHA256(raw))
	return h.String(), nil
}

// Size returns the serialized size of t in bytes.
func Size(t *Transaction) (int, error) {
	rawHex, err := Serialize(t)
	if err != nil {
		return 0, err
	}
	return hex.DecodedLen(len(rawHex)), nil
}

func serializationErr(op, format string, args ...any) error {
	return txerr.New(txerr.SerializationError, op, format, args...)
}
