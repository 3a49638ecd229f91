package treestate

import (
	"github.com/fxamacker/cbor/v2"
)

// CBORCodec pins the encode and decode options for all CBOR handled by
// this module. Checkpoint signing requires the encoding be deterministic,
// so payloads re-encode byte identically during verification.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBORCodec() (CBORCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return CBORCodec{}, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return CBORCodec{}, err
	}
	return CBORCodec{enc: enc, dec: dec}, nil
}

func (c CBORCodec) MarshalCBOR(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBORCodec) UnmarshalInto(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
