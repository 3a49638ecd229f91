package imt

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// HashBytes is the fixed width of all tree node values.
const HashBytes = 32

// Hash is a single tree node value. Equality is byte-wise.
type Hash [HashBytes]byte

// NewHasher returns the hash engine used for all node hashing: keccak256,
// the legacy (pre NIST padding) variant used by the EVM. Every party
// comparing roots must use the identical function.
func NewHasher() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// HashPair returns H(left || right)
// ** the hasher is reset **
//
// The child ordering is load bearing. Proof verification must replay the
// same left/right assignment that insertion used, so pairs are never
// sorted.
func HashPair(hasher hash.Hash, left Hash, right Hash) Hash {
	hasher.Reset()
	hasher.Write(left[:])
	hasher.Write(right[:])

	var out Hash
	copy(out[:], hasher.Sum(out[:0]))
	return out
}
