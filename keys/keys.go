// Package keys parses raw secp256k1 private keys and derives their P2PKH
// addresses.
package keys

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/islishude/bitcoin-txbuilder/codec"
	"github.com/islishude/bitcoin-txbuilder/hasher"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

// PrivateKeySize is the length of a raw secret scalar.
const PrivateKeySize = 32

// ParsePrivateKey decodes a hex encoded 32-byte secret scalar. The scalar
// must lie in [1, N-1]; btcec.PrivKeyFromBytes would silently reduce it.
func ParsePrivateKey(rawHex string) (*btcec.PrivateKey, error) {
	const op = "keys.ParsePrivateKey"

	raw, err := codec.DecodeHex(rawHex)
	if err != nil {
		return nil, &txerr.Error{Kind: txerr.InvalidPrivateKey, Op: op, Err: err}
	}
	if len(raw) != PrivateKeySize {
		return nil, txerr.New(txerr.InvalidPrivateKey, op,
			"want %d bytes, got %d", PrivateKeySize, len(raw))
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow {
		return nil, txerr.New(txerr.InvalidPrivateKey, op, "scalar is not below the curve order")
	}
	if scalar.IsZero() {
		return nil, txerr.New(txerr.InvalidPrivateKey, op, "scalar is zero")
	}
	prvkey, _ := btcec.PrivKeyFromBytes(raw)
	return prvkey, nil
}

// PubKeyHashAddress encodes the hash160 of a serialized public key as a
// base58check address for netwk.
func PubKeyHashAddress(pubkey []byte, netwk *chaincfg.Params) string {
	return base58.CheckEncode(hasher.Hash160(pubkey), netwk.PubKeyHashAddrID)
}

// DeriveAddress derives the compressed-key P2PKH address of a hex private key.
func DeriveAddress(privateKeyHex string, netwk *chaincfg.Params) (string, error) {
	prvkey, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	return PubKeyHashAddress(prvkey.PubKey().SerializeCompressed(), netwk), nil
}

// Generate returns a fresh random private key as hex.
func Generate() (string, error) {
	prvkey, err := btcec.NewPrivateKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(prvkey.Serialize()), nil
}
