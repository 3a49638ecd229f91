package imt

/*

# Fixed depth incremental merkle trees

This package implements the append-only, fixed-depth incremental merkle tree
popularized by the eth2 deposit contract and the Nomad/Hyperlane message
trees. The tree has a constant depth of 32, bounding it to 2^32 - 1 leaves,
and is maintained entirely from a 'frontier' of at most one hash per level
plus the count of leaves inserted so far.

The key observation is that the leaf count, read as a binary number, fully
describes the shape of the filled portion of the tree. Inserting a leaf is
then exactly binary-counter carry propagation:

  - while the current level is 'full' (even size), the new node merges with
    the recorded left sibling and the carry continues upward
  - at the first 'open' level (odd size), the node is recorded as that
    level's most recently completed left subtree and the update stops

So insertion is O(depth) and never revisits a finalized leaf. Computing the
current root folds the frontier against a table of precomputed zero hashes,
where ZeroHash(i) is the root of an empty subtree of height i. Gaps in a
partially filled tree are provably empty, so the canonical zero subtree root
stands in for them.

Following the same conventions as go-merklelog/mmr:

  - small, composable functions over explicit caller-held state
  - the hasher is supplied by the caller as a hash.Hash
  - a burden of knowledge on the caller for hot paths; in particular the
    caller must serialize Insert calls against the same tree state

Hashing is keccak256 with strict left-then-right child ordering. The node
hashes, the zero hash table, and the proof replay in BranchRoot are
bit-exact with the Solidity reference implementation, which is the entire
point: a root computed here must agree with one computed anywhere else.

*/
