package types

import (
	"encoding/hex"
	"strings"
)

// Hash represents the 32 byte hash of a transaction or a content namespace
type Hash [HashLength]byte

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}

	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte {
	return h[:]
}

// String returns the upper-case hex form used in tendermint tx hashes
func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}
