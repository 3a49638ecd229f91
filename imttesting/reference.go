package imttesting

import (
	"errors"
	"hash"

	"github.com/datatrails/go-datatrails-imt/imt"
)

var ErrLeafIndexRange = errors.New("imttesting: leaf index out of range")

// BuildRoot computes the tree root by materializing every level, padding
// each with the zero subtree hash for that level. It is O(n * Depth) and
// exists purely as an independent cross-check for the incremental frontier
// computation.
func BuildRoot(hasher hash.Hash, leaves []imt.Hash) imt.Hash {
	if len(leaves) == 0 {
		return imt.ZeroHash(imt.Depth)
	}

	nodes := append([]imt.Hash(nil), leaves...)
	for level := 0; level < imt.Depth; level++ {
		next := make([]imt.Hash, (len(nodes)+1)/2)
		for j := range next {
			left := nodes[2*j]
			right := imt.ZeroHash(level)
			if 2*j+1 < len(nodes) {
				right = nodes[2*j+1]
			}
			next[j] = imt.HashPair(hasher, left, right)
		}
		nodes = next
	}
	return nodes[0]
}

// BuildProof returns the sibling path for the leaf at index, derived from a
// full level-by-level build. The path pairs with imt.BranchRoot for round
// trip membership checks.
func BuildProof(hasher hash.Hash, leaves []imt.Hash, index uint64) ([]imt.Hash, error) {
	if index >= uint64(len(leaves)) {
		return nil, ErrLeafIndexRange
	}

	proof := make([]imt.Hash, 0, imt.Depth)
	nodes := append([]imt.Hash(nil), leaves...)
	i := index
	for level := 0; level < imt.Depth; level++ {

		sibling := imt.ZeroHash(level)
		if j := i ^ 1; j < uint64(len(nodes)) {
			sibling = nodes[j]
		}
		proof = append(proof, sibling)

		next := make([]imt.Hash, (len(nodes)+1)/2)
		for j := range next {
			left := nodes[2*j]
			right := imt.ZeroHash(level)
			if 2*j+1 < len(nodes) {
				right = nodes[2*j+1]
			}
			next[j] = imt.HashPair(hasher, left, right)
		}
		nodes = next
		i >>= 1
	}
	return proof, nil
}
