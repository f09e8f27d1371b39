package cash

import (
	_ "crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type cborHandler struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// Cbor encodes in the canonical (deterministic) CBOR form so that digests of
// equal values match on every replica.
var Cbor = newCborHandler()

func newCborHandler() cborHandler {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Errorf("creating cbor encoder: %w", err))
	}
	dec, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(fmt.Errorf("creating cbor decoder: %w", err))
	}
	return cborHandler{enc: enc, dec: dec}
}

func (c cborHandler) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c cborHandler) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
