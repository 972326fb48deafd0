package token

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/sigil-dev/sigil/pkg/keys"
)

// Contents is the logical payload an issuer or attenuator contributes to
// one block. Nil slices are fine; an empty block still links the chain.
type Contents struct {
	Facts  []Fact  `json:"facts"`
	Rules  []Rule  `json:"rules"`
	Checks []Check `json:"checks"`
}

// Validate checks every fact, rule and check and compiles guard
// expressions in place.
func (c *Contents) Validate() error {
	for i, f := range c.Facts {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("token: fact[%d]: %w", i, err)
		}
		if f.HasVariables() {
			return fmt.Errorf("token: fact[%d] %s contains variables; facts must be ground", i, f)
		}
	}
	for i := range c.Rules {
		if err := c.Rules[i].Validate(); err != nil {
			return err
		}
		if err := c.Rules[i].Compile(); err != nil {
			return err
		}
	}
	for i := range c.Checks {
		if err := c.Checks[i].Validate(); err != nil {
			return err
		}
		if err := c.Checks[i].Compile(); err != nil {
			return err
		}
	}
	return nil
}

// Token is an ordered, non-empty chain of blocks; index 0 is the
// authority block. Attenuation appends, it never rewrites.
type Token struct {
	Blocks []Block `json:"blocks"`
}

// Issue builds a one-block token: the authority block with a nil Prev
// link, signed with privateKey.
func Issue(contents Contents, privateKey ed25519.PrivateKey) (*Token, error) {
	block, err := seal(contents, nil, privateKey)
	if err != nil {
		return nil, err
	}
	return &Token{Blocks: []Block{*block}}, nil
}

// Attenuate appends one delegated block linked to the token's last block.
// The input token is not mutated; the result shares its earlier blocks.
func Attenuate(tok *Token, contents Contents, privateKey ed25519.PrivateKey) (*Token, error) {
	if tok == nil || len(tok.Blocks) == 0 {
		return nil, fmt.Errorf("token: cannot attenuate an empty token")
	}
	prev := tok.Blocks[len(tok.Blocks)-1].Hash
	block, err := seal(contents, &prev, privateKey)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(tok.Blocks)+1)
	blocks = append(blocks, tok.Blocks...)
	blocks = append(blocks, *block)
	return &Token{Blocks: blocks}, nil
}

// seal validates contents, computes the payload hash and signs it.
func seal(contents Contents, prev *keys.Digest, privateKey ed25519.PrivateKey) (*Block, error) {
	if err := contents.Validate(); err != nil {
		return nil, err
	}
	block := &Block{
		Facts:  contents.Facts,
		Rules:  contents.Rules,
		Checks: contents.Checks,
		Prev:   prev,
	}
	hash, err := block.ComputeHash()
	if err != nil {
		return nil, err
	}
	block.Hash = hash
	sig, err := keys.Sign(privateKey, hash.Bytes())
	if err != nil {
		return nil, fmt.Errorf("token: failed to sign block: %w", err)
	}
	block.Signature = sig
	return block, nil
}

// VerifyChain checks the integrity of the whole chain: link shape,
// recomputable hashes and signatures under the single issuer key. Any
// mismatch is a rejection, not an error; callers must never evaluate a
// token this returned false for. An empty chain is vacuously valid.
func VerifyChain(tok *Token, publicKey ed25519.PublicKey) bool {
	if tok == nil {
		return false
	}
	for i := range tok.Blocks {
		block := &tok.Blocks[i]

		// link shape: authority block carries no prev, every later
		// block points at its predecessor's recorded hash
		if i == 0 {
			if block.Prev != nil {
				return false
			}
		} else {
			if block.Prev == nil || *block.Prev != tok.Blocks[i-1].Hash {
				return false
			}
		}

		recomputed, err := block.ComputeHash()
		if err != nil {
			return false
		}
		if recomputed != block.Hash {
			return false
		}
		if !keys.Verify(publicKey, block.Hash.Bytes(), block.Signature) {
			return false
		}
	}
	return true
}

// Encode serializes the token as JSON for interchange.
func (t *Token) Encode() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Decode parses a JSON-encoded token, re-validates every block's contents
// and recompiles guard expressions so the engine can run them. Signing
// keeps tampering out, but a hand-built token can still be well-signed and
// structurally malformed; the engine assumes it never sees one.
func Decode(data []byte) (*Token, error) {
	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("token: failed to decode token: %w", err)
	}
	for bi := range tok.Blocks {
		contents := Contents{
			Facts:  tok.Blocks[bi].Facts,
			Rules:  tok.Blocks[bi].Rules,
			Checks: tok.Blocks[bi].Checks,
		}
		// Validate compiles guards in place; the slices are shared with
		// the block, so the compiled programs land where the engine looks.
		if err := contents.Validate(); err != nil {
			return nil, fmt.Errorf("token: block[%d]: %w", bi, err)
		}
	}
	return &tok, nil
}
