// Package hasher provides the two digests used by Bitcoin scripts and
// identifiers: sha256d and hash160.
package hasher

import (
	"crypto/sha256"
	"hash"
	"sync"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 is defined over RIPEMD-160
)

// SHA-256 states are reused across calls; signing runs DoubleSHA256 from
// several goroutines at once.
var states = sync.Pool{
	New: func() any { return sha256.New() },
}

// DoubleSHA256 returns SHA256(SHA256(data)).
// It is used for base58check checksums, txids and signature hashes.
func DoubleSHA256(data []byte) []byte {
	h := states.Get().(hash.Hash)
	defer states.Put(h)

	digest := sum(h, data, make([]byte, 0, sha256.Size))
	return sum(h, digest, digest[:0])
}

// sum resets h, hashes data and appends the digest to dst. dst may share
// storage with data: the input is consumed before the digest is written.
func sum(h hash.Hash, data, dst []byte) []byte {
	h.Reset()
	_, _ = h.Write(data)
	return h.Sum(dst)
}

// Hash160 returns RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	inner := sha256.Sum256(data)

	rip := ripemd160.New()
	_, _ = rip.Write(inner[:])
	return rip.Sum(nil)
}
