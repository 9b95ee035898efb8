// Package codec holds the hex helpers used by the raw transaction encoder:
// fixed-width little-endian integers, CompactSize varints and byte-order
// reversal of hash identifiers.
package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"slices"

	"github.com/btcsuite/btcd/wire"

	"github.com/islishude/bitcoin-txbuilder/txerr"
)

// IntToLittleEndianHex encodes n as width bytes, least significant first.
//
// Example:
// 1234 (2 bytes) -> "d203"
func IntToLittleEndianHex(n uint64, width int) (string, error) {
	const op = "codec.IntToLittleEndianHex"
	if width < 1 || width > 8 {
		return "", txerr.New(txerr.EncodingError, op, "unsupported width %d", width)
	}
	if width < 8 && n>>(8*uint(width)) != 0 {
		return "", txerr.New(txerr.EncodingError, op, "%d does not fit in %d bytes", n, width)
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	return hex.EncodeToString(buf[:width]), nil
}

// VarIntToHex encodes n in Bitcoin's variable length integer format:
//
//	< 0xfd:       single byte
//	<= 0xffff:    0xfd followed by 2 bytes
//	<= 0xffffffff: 0xfe followed by 4 bytes
//	otherwise:    0xff followed by 8 bytes
func VarIntToHex(n uint64) string {
	var buf bytes.Buffer
	// bytes.Buffer never fails a write
	_ = wire.WriteVarInt(&buf, 0, n)
	return hex.EncodeToString(buf.Bytes())
}

// ReverseHex reverses the byte order of a hex string, e.g. "1234" -> "3412".
// The txid shown by explorers and RPC is big-endian, the wire uses little-endian.
func ReverseHex(s string) (string, error) {
	raw, err := DecodeHex(s)
	if err != nil {
		return "", txerr.Wrap(txerr.EncodingError, "codec.ReverseHex", err)
	}
	slices.Reverse(raw)
	return hex.EncodeToString(raw), nil
}

// DecodeHex decodes s, reporting odd length and bad digits as EncodingError.
func DecodeHex(s string) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, txerr.Wrap(txerr.EncodingError, "codec.DecodeHex", err)
	}
	return raw, nil
}
