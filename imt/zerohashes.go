package imt

// zeroHashes[i] is the root of an empty subtree of height i.
//
// zeroHashes[0] is the all-zero leaf value (the reference contracts commit
// to the zero *value*, not its hash) and each subsequent entry is the hash
// of two copies of the entry below it. The table is computed once at
// process initialization and shared by every tree instance; no operation
// ever writes to it after that.
var zeroHashes [Depth + 1]Hash

func init() {
	hasher := NewHasher()
	for i := 1; i <= Depth; i++ {
		zeroHashes[i] = HashPair(hasher, zeroHashes[i-1], zeroHashes[i-1])
	}
}

// ZeroHash returns the canonical root of an empty subtree of height i.
//
// ZeroHash(0) is the empty leaf and ZeroHash(Depth) is the root of an
// entirely empty tree. i outside 0..Depth will panic, there is no level for
// it to describe.
func ZeroHash(i int) Hash {
	return zeroHashes[i]
}
