package imt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-imt/imt"
	"github.com/datatrails/go-datatrails-imt/imttesting"
)

// TestRoundTripMembership checks, for a spread of tree sizes, that every
// inserted leaf verifies against the incremental root via its sibling path.
// The root is also cross-checked against an independent full rebuild.
func TestRoundTripMembership(t *testing.T) {
	tc := imttesting.NewTestContext(t, imttesting.TestConfig{
		Seed: 20240301, TestLabelPrefix: "roundtrip",
	})
	hasher := imt.NewHasher()

	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 13, 16, 31, 64} {
		leaves := tc.GenerateLeaves(hasher, n)

		tree := imt.Tree{}
		for _, leaf := range leaves {
			require.NoError(t, tree.Insert(hasher, leaf))
		}
		root := tree.Root(hasher)
		require.Equal(t, imttesting.BuildRoot(hasher, leaves), root,
			"frontier root diverged from full rebuild at n=%d", n)

		for k := range leaves {
			proof, err := imttesting.BuildProof(hasher, leaves, uint64(k))
			require.NoError(t, err)

			got, err := imt.BranchRoot(hasher, leaves[k], proof, uint64(k))
			require.NoError(t, err)
			require.Equal(t, root, got, "leaf %d of %d failed to verify", k, n)
		}
	}
}

// TestRoundTripRejectsMutation flips one byte of the leaf, the proof and
// the index in turn; each must change the reconstructed root.
func TestRoundTripRejectsMutation(t *testing.T) {
	tc := imttesting.NewTestContext(t, imttesting.TestConfig{
		Seed: 20240302, TestLabelPrefix: "mutation",
	})
	hasher := imt.NewHasher()

	leaves := tc.GenerateLeaves(hasher, 9)
	tree := imt.Tree{}
	for _, leaf := range leaves {
		require.NoError(t, tree.Insert(hasher, leaf))
	}
	root := tree.Root(hasher)

	const k = 5
	proof, err := imttesting.BuildProof(hasher, leaves, k)
	require.NoError(t, err)

	leaf := leaves[k]
	leaf[3] ^= 0x01
	got, err := imt.BranchRoot(hasher, leaf, proof, k)
	require.NoError(t, err)
	require.NotEqual(t, root, got)

	badProof := append([]imt.Hash(nil), proof...)
	badProof[7][0] ^= 0x01
	got, err = imt.BranchRoot(hasher, leaves[k], badProof, k)
	require.NoError(t, err)
	require.NotEqual(t, root, got)

	got, err = imt.BranchRoot(hasher, leaves[k], proof, k+1)
	require.NoError(t, err)
	require.NotEqual(t, root, got)
}
