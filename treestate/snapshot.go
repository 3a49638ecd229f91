package treestate

import (
	"errors"
	"hash"

	"github.com/datatrails/go-datatrails-imt/imt"
)

var (
	ErrSnapshotFrontierLen  = errors.New("treestate: snapshot frontier must have one entry per level")
	ErrSnapshotFrontierSize = errors.New("treestate: snapshot frontier entries must be 32 bytes")
)

// Snapshot is the self describing form of the tree state. The integer keys
// are part of the wire format; never renumber them.
//
// Root is denormalized convenience for consumers that only want the
// current commitment; it is recomputable from the other two fields and is
// not trusted on decode.
type Snapshot struct {
	Count    uint64   `cbor:"1,keyasint"`
	Frontier [][]byte `cbor:"2,keyasint"`
	Root     []byte   `cbor:"3,keyasint,omitempty"`
}

// NewSnapshot captures the state of t, including its current root.
func NewSnapshot(hasher hash.Hash, t *imt.Tree) Snapshot {
	s := Snapshot{
		Count:    t.Count,
		Frontier: make([][]byte, imt.Depth),
	}
	for i := range t.Frontier {
		s.Frontier[i] = append([]byte(nil), t.Frontier[i][:]...)
	}
	root := t.Root(hasher)
	s.Root = root[:]
	return s
}

// Tree reconstructs the tree state from the snapshot. The Root field is
// deliberately ignored; callers wanting it verified recompute and compare.
func (s Snapshot) Tree() (imt.Tree, error) {
	var t imt.Tree

	if len(s.Frontier) != imt.Depth {
		return imt.Tree{}, ErrSnapshotFrontierLen
	}
	if s.Count > imt.MaxLeaves {
		return imt.Tree{}, ErrStateBadCount
	}
	for i, b := range s.Frontier {
		if len(b) != imt.HashBytes {
			return imt.Tree{}, ErrSnapshotFrontierSize
		}
		copy(t.Frontier[i][:], b)
	}
	t.Count = s.Count
	return t, nil
}
