// Package script decodes base58check P2PKH addresses and assembles the
// locking and unlocking scripts of a P2PKH spend.
package script

import (
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/islishude/bitcoin-txbuilder/codec"
	"github.com/islishude/bitcoin-txbuilder/txerr"
)

const (
	hash160Size = 20

	// OP_DUP OP_HASH160 OP_DATA_20 <hash160> OP_EQUALVERIFY OP_CHECKSIG
	P2PKHScriptSize = 3 + hash160Size + 2

	// largest push that fits a single length byte
	maxDirectPush = txscript.OP_DATA_75
)

var (
	ErrChecksum       = errors.New("checksum mismatch")
	ErrAddressLength  = errors.New("unexpected decoded length")
	ErrAddressVersion = errors.New("unsupported version byte")
)

// p2pkhVersions are the pubkey-hash address versions of the known networks.
var p2pkhVersions = map[byte]bool{
	chaincfg.MainNetParams.PubKeyHashAddrID:       true,
	chaincfg.TestNet3Params.PubKeyHashAddrID:      true,
	chaincfg.RegressionNetParams.PubKeyHashAddrID: true,
	chaincfg.SigNetParams.PubKeyHashAddrID:        true,
}

// DecodeAddress base58check-decodes a P2PKH address into its version byte
// and 20-byte public key hash.
func DecodeAddress(address string) (byte, []byte, error) {
	const op = "script.DecodeAddress"

	pubkeyHash, version, err := base58.CheckDecode(address)
	switch {
	case errors.Is(err, base58.ErrChecksum):
		return 0, nil, &txerr.Error{Kind: txerr.InvalidAddress, Op: op, Err: ErrChecksum}
	case err != nil, len(pubkeyHash) != hash160Size:
		return 0, nil, &txerr.Error{Kind: txerr.InvalidAddress, Op: op, Err: ErrAddressLength}
	}

	if !p2pkhVersions[version] {
		return 0, nil, &txerr.Error{Kind: txerr.InvalidAddress, Op: op, Err: ErrAddressVersion}
	}
	return version, pubkeyHash, nil
}

// PayToPubKeyHash returns the raw P2PKH locking script for a public key hash.
func PayToPubKeyHash(pubkeyHash []byte) ([]byte, error) {
	if len(pubkeyHash) != hash160Size {
		return nil, txerr.New(txerr.InvalidAddress, "script.PayToPubKeyHash",
			"public key hash must be %d bytes, got %d", hash160Size, len(pubkeyHash))
	}
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(pubkeyHash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// CreateScriptPubKey returns the hex P2PKH locking script paying to address.
//
// Format:
// OP_DUP OP_HASH160 <pubKeyHash> OP_EQUALVERIFY OP_CHECKSIG
// 76 a9 14 <pubKeyHash> 88 ac
func CreateScriptPubKey(address string) (string, error) {
	_, pubkeyHash, err := DecodeAddress(address)
	if err != nil {
		return "", err
	}
	pkScript, err := PayToPubKeyHash(pubkeyHash)
	if err != nil {
		return "", txerr.Wrap(txerr.InvalidAddress, "script.CreateScriptPubKey", err)
	}
	return hex.EncodeToString(pkScript), nil
}

// IsPayToPubKeyHash reports whether scriptHex is a standard P2PKH locking script.
func IsPayToPubKeyHash(scriptHex string) bool {
	raw, err := hex.DecodeString(scriptHex)
	if err != nil {
		return false
	}
	return len(raw) == P2PKHScriptSize &&
		raw[0] == txscript.OP_DUP &&
		raw[1] == txscript.OP_HASH160 &&
		raw[2] == txscript.OP_DATA_20 &&
		raw[23] == txscript.OP_EQUALVERIFY &&
		raw[24] == txscript.OP_CHECKSIG
}

// CreateScriptSig returns the hex unlocking script <sig_length> <signature>
// <pubkey_length> <public_key>. Both pushes use a single length byte.
func CreateScriptSig(signature, publicKey string) (string, error) {
	const op = "script.CreateScriptSig"

	sig, err := codec.DecodeHex(signature)
	if err != nil {
		return "", txerr.Wrap(txerr.EncodingError, op, err)
	}
	pubkey, err := codec.DecodeHex(publicKey)
	if err != nil {
		return "", txerr.Wrap(txerr.EncodingError, op, err)
	}

	for _, data := range [][]byte{sig, pubkey} {
		if len(data) == 0 || len(data) > maxDirectPush {
			return "", txerr.New(txerr.EncodingError, op,
				"push of %d bytes does not fit a single length byte", len(data))
		}
	}

	sigScript := make([]byte, 0, 2+len(sig)+len(pubkey))
	sigScript = append(sigScript, byte(len(sig)))
	sigScript = append(sigScript, sig...)
	sigScript = append(sigScript, byte(len(pubkey)))
	sigScript = append(sigScript, pubkey...)
	return hex.EncodeToString(sigScript), nil
}
