package token

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sigil-dev/sigil/internal/canon"
	"github.com/sigil-dev/sigil/pkg/keys"
)

// Signature is a raw Ed25519 signature, hex-encoded in JSON.
type Signature []byte

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(s))
}

func (s *Signature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return fmt.Errorf("token: invalid signature hex: %w", err)
	}
	*s = b
	return nil
}

// Block is one signed, hash-linked unit of a token. Prev is nil only for
// the authority block. Hash covers the deterministic encoding of
// {facts, rules, checks, prev}; the signature covers the hash. Blocks are
// created once and never mutated.
type Block struct {
	Facts     []Fact       `json:"facts"`
	Rules     []Rule       `json:"rules"`
	Checks    []Check      `json:"checks"`
	Prev      *keys.Digest `json:"prev"`
	Hash      keys.Digest  `json:"hash"`
	Signature Signature    `json:"signature"`
}

// payload is the hashed portion of a block. Hash and signature are
// deliberately absent so the digest stays recomputable.
type payload struct {
	Facts  []Fact       `json:"facts"`
	Rules  []Rule       `json:"rules"`
	Checks []Check      `json:"checks"`
	Prev   *keys.Digest `json:"prev"`
}

// ComputeHash recomputes the block digest from its payload.
func (b *Block) ComputeHash() (keys.Digest, error) {
	encoded, err := canon.Encode(payload{
		Facts:  b.Facts,
		Rules:  b.Rules,
		Checks: b.Checks,
		Prev:   b.Prev,
	})
	if err != nil {
		return keys.Digest{}, fmt.Errorf("token: failed to encode block payload: %w", err)
	}
	return keys.Hash(encoded), nil
}
