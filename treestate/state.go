// Package treestate gives the persisted state of an incremental merkle
// tree a stable wire form. The tree core owns no storage; whoever does
// persists exactly (frontier, count), either as the fixed width binary
// record defined here or as the self describing CBOR snapshot.
package treestate

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/datatrails/go-datatrails-imt/imt"
)

const (
	StateMagicV1   = "IMT1"
	StateVersionV1 = 1

	stateHeaderBytesV1 = 16
	stateFrontierOffV1 = stateHeaderBytesV1
	stateCountOffV1    = 8

	// StateV1Bytes is the exact encoded size: a 16 byte header followed by
	// one frontier slot per level.
	StateV1Bytes = stateHeaderBytesV1 + imt.Depth*imt.HashBytes
)

var (
	ErrStateBadSize    = errors.New("treestate: state buffer size invalid")
	ErrStateBadMagic   = errors.New("treestate: state magic invalid")
	ErrStateBadVersion = errors.New("treestate: state version invalid")
	ErrStateBadCount   = errors.New("treestate: state count exceeds the tree capacity")
)

// EncodeStateV1 encodes the tree state into dst.
//
// v1 layout, all integers big endian:
//   - magic "IMT1"
//   - version u8, 3 reserved zero bytes
//   - count u64
//   - frontier, Depth slots of 32 bytes
func EncodeStateV1(dst []byte, t *imt.Tree) error {
	if len(dst) < StateV1Bytes {
		return ErrStateBadSize
	}

	copy(dst[0:4], []byte(StateMagicV1))
	dst[4] = StateVersionV1
	dst[5] = 0
	dst[6] = 0
	dst[7] = 0

	binary.BigEndian.PutUint64(dst[stateCountOffV1:stateHeaderBytesV1], t.Count)

	off := stateFrontierOffV1
	for i := range t.Frontier {
		copy(dst[off:off+imt.HashBytes], t.Frontier[i][:])
		off += imt.HashBytes
	}
	return nil
}

// DecodeStateV1 decodes a v1 tree state from src.
//
// ok=false indicates the state block is empty/uninitialized (all zeros),
// which decodes as the empty tree.
func DecodeStateV1(src []byte) (t imt.Tree, ok bool, err error) {
	if len(src) < StateV1Bytes {
		return imt.Tree{}, false, ErrStateBadSize
	}
	if bytes.Equal(src[0:4], []byte{0, 0, 0, 0}) {
		return imt.Tree{}, false, nil
	}
	if string(src[0:4]) != StateMagicV1 {
		return imt.Tree{}, false, ErrStateBadMagic
	}
	if src[4] != StateVersionV1 {
		return imt.Tree{}, false, ErrStateBadVersion
	}

	t.Count = binary.BigEndian.Uint64(src[stateCountOffV1:stateHeaderBytesV1])
	if t.Count > imt.MaxLeaves {
		return imt.Tree{}, false, ErrStateBadCount
	}

	off := stateFrontierOffV1
	for i := range t.Frontier {
		copy(t.Frontier[i][:], src[off:off+imt.HashBytes])
		off += imt.HashBytes
	}
	return t, true, nil
}
