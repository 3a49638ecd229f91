// Package checkpoints produces and verifies signed commitments to tree
// state. A checkpoint binds a root to the leaf count that produced it, so
// a relying party holding a verified checkpoint can check leaf membership
// with imt.BranchRoot alone.
package checkpoints

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"
	"hash"
	"time"

	"github.com/google/uuid"
	"github.com/veraison/go-cose"

	"github.com/datatrails/go-datatrails-imt/imt"
	"github.com/datatrails/go-datatrails-imt/treestate"
)

// ContentType identifies the Sign1 payload encoding.
const ContentType = "application/imt-checkpoint+cbor"

// HeaderLabelCWTClaims is the protected header label carrying CWT claims
// (RFC 9597). Claim keys 1 and 2 are issuer and subject.
const HeaderLabelCWTClaims = int64(15)

var (
	ErrCheckpointCount = errors.New("checkpoints: checkpoint count does not match the tree state")
	ErrCheckpointRoot  = errors.New("checkpoints: checkpoint root does not match the tree state")
)

// Checkpoint defines the details included in a signed commitment to a tree
// state. The integer keys are the wire format; never renumber them.
type Checkpoint struct {
	TreeID []byte `cbor:"1,keyasint"`
	Count  uint64 `cbor:"2,keyasint"`
	Root   []byte `cbor:"3,keyasint"`
	// Timestamp is the unix time (milliseconds) read at the time the root
	// was signed. Including it allows the same root to be re-signed.
	Timestamp int64 `cbor:"4,keyasint"`
}

// NewCheckpoint captures a checkpoint of the identified tree's current
// state.
func NewCheckpoint(hasher hash.Hash, treeID uuid.UUID, t *imt.Tree) Checkpoint {
	root := t.Root(hasher)
	return Checkpoint{
		TreeID:    append([]byte(nil), treeID[:]...),
		Count:     t.Count,
		Root:      root[:],
		Timestamp: time.Now().UnixMilli(),
	}
}

// ConsistentWith checks the checkpoint commits exactly the supplied tree
// state. Use after verifying the signature to tie a checkpoint back to a
// locally held state.
func (cp Checkpoint) ConsistentWith(hasher hash.Hash, t *imt.Tree) error {
	if cp.Count != t.Count {
		return fmt.Errorf("%w: %d != %d", ErrCheckpointCount, cp.Count, t.Count)
	}
	root := t.Root(hasher)
	if !bytes.Equal(cp.Root, root[:]) {
		return ErrCheckpointRoot
	}
	return nil
}

// RootSigner is used to produce a signature over a tree checkpoint. The
// signature commits to the state publicly; only sign after the host has
// satisfied itself the new state extends the previously signed one.
type RootSigner struct {
	issuer string
	codec  treestate.CBORCodec
}

func NewRootSigner(issuer string, codec treestate.CBORCodec) RootSigner {
	return RootSigner{issuer: issuer, codec: codec}
}

// Sign1 signs the checkpoint as a COSE Sign1 message and returns its CBOR
// encoding. keyIdentifier lets verifiers locate the public key; subject
// identifies the tree in the CWT claims alongside the signer's issuer
// identity.
func (rs RootSigner) Sign1(coseSigner cose.Signer, keyIdentifier string, subject string, cp Checkpoint, external []byte) ([]byte, error) {
	payload, err := rs.codec.MarshalCBOR(cp)
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm:   coseSigner.Algorithm(),
				cose.HeaderLabelKeyID:       []byte(keyIdentifier),
				cose.HeaderLabelContentType: ContentType,
				HeaderLabelCWTClaims: map[int64]any{
					1: rs.issuer,
					2: subject,
				},
			},
		},
		Payload: payload,
	}
	if err = msg.Sign(rand.Reader, external, coseSigner); err != nil {
		return nil, err
	}
	return msg.MarshalCBOR()
}

// NewECDSASigner returns a Sign1 signer for a P-256 key, the profile used
// for checkpoint signing.
func NewECDSASigner(key *ecdsa.PrivateKey) (cose.Signer, error) {
	return cose.NewSigner(cose.AlgorithmES256, key)
}

// DecodeSigned decodes the checkpoint values from the signed message
// WITHOUT verifying it. See VerifySignedCheckpoint.
func DecodeSigned(codec treestate.CBORCodec, msg []byte) (*cose.Sign1Message, Checkpoint, error) {
	signed := &cose.Sign1Message{}
	if err := signed.UnmarshalCBOR(msg); err != nil {
		return nil, Checkpoint{}, err
	}

	var cp Checkpoint
	if err := codec.UnmarshalInto(signed.Payload, &cp); err != nil {
		return nil, Checkpoint{}, err
	}
	return signed, cp, nil
}

// VerifySignedCheckpoint verifies the signed message and returns the
// checkpoint it commits to. The caller still decides whether it trusts the
// verifier's key for this tree.
func VerifySignedCheckpoint(codec treestate.CBORCodec, verifier cose.Verifier, msg []byte, external []byte) (Checkpoint, error) {
	signed, cp, err := DecodeSigned(codec, msg)
	if err != nil {
		return Checkpoint{}, err
	}
	if err = signed.Verify(external, verifier); err != nil {
		return Checkpoint{}, err
	}
	return cp, nil
}
