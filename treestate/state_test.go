package treestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-imt/imt"
)

func populatedTree(t *testing.T, n int) imt.Tree {
	t.Helper()
	hasher := imt.NewHasher()
	tree := imt.Tree{}
	for i := 0; i < n; i++ {
		var leaf imt.Hash
		leaf[0] = byte(i + 1)
		require.NoError(t, tree.Insert(hasher, leaf))
	}
	return tree
}

func TestStateV1RoundTrip(t *testing.T) {
	tree := populatedTree(t, 11)

	buf := make([]byte, StateV1Bytes)
	require.NoError(t, EncodeStateV1(buf, &tree))

	got, ok, err := DecodeStateV1(buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tree, got)
}

func TestStateV1DecodeUninitialized(t *testing.T) {
	// An all zero block is how a pre-allocated, never written, state region
	// presents. It is not an error, it is the empty tree.
	buf := make([]byte, StateV1Bytes)
	got, ok, err := DecodeStateV1(buf)
	require.NoError(t, err)
	require.False(t, ok)
	assert.Equal(t, imt.Tree{}, got)
}

func TestStateV1DecodeErrors(t *testing.T) {
	tree := populatedTree(t, 3)
	good := make([]byte, StateV1Bytes)
	require.NoError(t, EncodeStateV1(good, &tree))

	tests := []struct {
		name    string
		corrupt func(b []byte) []byte
		wantErr error
	}{
		{
			"short buffer",
			func(b []byte) []byte { return b[:StateV1Bytes-1] },
			ErrStateBadSize,
		},
		{
			"bad magic",
			func(b []byte) []byte { b[0] = 'X'; return b },
			ErrStateBadMagic,
		},
		{
			"bad version",
			func(b []byte) []byte { b[4] = StateVersionV1 + 1; return b },
			ErrStateBadVersion,
		},
		{
			"count over capacity",
			func(b []byte) []byte {
				for i := 8; i < 16; i++ {
					b[i] = 0xff
				}
				return b
			},
			ErrStateBadCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.corrupt(append([]byte(nil), good...))
			_, _, err := DecodeStateV1(b)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("encode short buffer", func(t *testing.T) {
		err := EncodeStateV1(make([]byte, StateV1Bytes-1), &tree)
		require.ErrorIs(t, err, ErrStateBadSize)
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	hasher := imt.NewHasher()
	tree := populatedTree(t, 7)

	codec, err := NewCBORCodec()
	require.NoError(t, err)

	s := NewSnapshot(hasher, &tree)
	wantRoot := tree.Root(hasher)
	assert.Equal(t, wantRoot[:], s.Root)

	data, err := codec.MarshalCBOR(s)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, codec.UnmarshalInto(data, &decoded))

	got, err := decoded.Tree()
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestSnapshotTreeValidation(t *testing.T) {
	s := Snapshot{Count: 1, Frontier: make([][]byte, imt.Depth-1)}
	_, err := s.Tree()
	require.ErrorIs(t, err, ErrSnapshotFrontierLen)

	s.Frontier = make([][]byte, imt.Depth)
	for i := range s.Frontier {
		s.Frontier[i] = make([]byte, imt.HashBytes)
	}
	s.Frontier[4] = s.Frontier[4][:31]
	_, err = s.Tree()
	require.ErrorIs(t, err, ErrSnapshotFrontierSize)

	s.Frontier[4] = make([]byte, imt.HashBytes)
	s.Count = imt.MaxLeaves + 1
	_, err = s.Tree()
	require.ErrorIs(t, err, ErrStateBadCount)
}
