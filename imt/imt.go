package imt

import (
	"errors"
	"hash"
)

const (
	// Depth is the fixed height of the tree. It is chosen once, at compile
	// time, and never varies: every proof and every interoperating
	// implementation depends on it.
	Depth = 32

	// MaxLeaves is the leaf capacity, 2^Depth - 1. The comparison is done
	// in uint64 so the capacity check cannot wrap.
	MaxLeaves = uint64(1)<<Depth - 1
)

var (
	ErrTreeFull        = errors.New("imt: the tree has reached its leaf capacity")
	ErrProofLenInvalid = errors.New("imt: a proof must contain exactly one sibling per level")
)

// Tree is the complete persistent state of an incremental merkle tree.
//
// Frontier[i] holds the most recently completed left subtree hash at level
// i. It is meaningful only for the levels where the binary representation
// of Count has closed that level; Frontier cannot be interpreted without
// Count. Whoever persists the tree stores exactly these two fields, and
// must serialize Insert calls against the same state: two inserts computed
// from the same starting Count silently corrupt the frontier.
//
// The zero value is the empty tree.
type Tree struct {
	Frontier [Depth]Hash
	Count    uint64
}

// Insert appends leaf to the tree, updating the frontier and count.
//
// The update is binary-counter carry propagation over the new count. At
// each level an even subtree size means the new node completes a pair, so
// it merges with the recorded left sibling and carries upward; the first
// odd size means the level is open, the node is recorded there and every
// higher level is unaffected. No previously finalized leaf is ever
// rehashed, which is what makes this O(Depth) rather than O(Count).
//
// Returns ErrTreeFull once Count has reached MaxLeaves. That condition is
// permanent; the caller must stop inserting into this tree.
func (t *Tree) Insert(hasher hash.Hash, leaf Hash) error {
	if t.Count >= MaxLeaves {
		return ErrTreeFull
	}
	t.Count++

	node := leaf
	size := t.Count
	for i := range t.Frontier {
		if size&1 == 1 {
			t.Frontier[i] = node
			return nil
		}
		node = HashPair(hasher, t.Frontier[i], node)
		size >>= 1
	}

	// Count is at least 1 and at most MaxLeaves, so it has a set bit within
	// Depth levels and the loop returned at the lowest of them.
	panic("imt: insert overran the tree depth")
}

// Root computes the current tree root. The state is not mutated.
//
// At each level, if the bit of Count for that level is set the recorded
// frontier hash folds in on the left; otherwise the remainder of the tree
// at that level is provably empty and the canonical zero hash folds in on
// the right. An empty tree therefore yields ZeroHash(Depth).
func (t *Tree) Root(hasher hash.Hash) Hash {
	node := ZeroHash(0)
	for i := range t.Frontier {
		if (t.Count>>i)&1 == 1 {
			node = HashPair(hasher, t.Frontier[i], node)
		} else {
			node = HashPair(hasher, node, ZeroHash(i))
		}
	}
	return node
}

// BranchRoot reconstructs the root committing leaf at index, given the
// sibling path from the leaf to the root. It reads no tree state at all;
// the caller compares the result against a known-good root to decide
// membership, and is likewise responsible for any index < count check
// against a particular tree.
//
// Bit i of index selects the side at level i, least significant bit first:
// a set bit means the leaf's subtree is the right child at that level.
// Bits of index above Depth do not contribute. The proof must contain
// exactly Depth siblings or ErrProofLenInvalid is returned; a wrong length
// indicates a construction bug on the caller's side, not a tree condition.
func BranchRoot(hasher hash.Hash, leaf Hash, proof []Hash, index uint64) (Hash, error) {
	if len(proof) != Depth {
		return Hash{}, ErrProofLenInvalid
	}

	node := leaf
	for i, sibling := range proof {
		if (index>>i)&1 == 1 {
			node = HashPair(hasher, sibling, node)
		} else {
			node = HashPair(hasher, node, sibling)
		}
	}
	return node, nil
}
