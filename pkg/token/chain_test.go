package token

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/sigil/pkg/keys"
)

func testContents() Contents {
	return Contents{
		Facts: []Fact{
			NewFact("right", Str("alice"), Sym("read"), Str("file-1")),
			NewFact("public/role", Str("alice"), Sym("agent")),
		},
		Rules: []Rule{{
			ID:   "can-from-right",
			Head: NewFact("can", Var("u"), Var("a"), Var("r")),
			Body: []Fact{NewFact("right", Var("u"), Var("a"), Var("r"))},
		}},
		Checks: []Check{{
			ID:    "alice-can-read",
			Query: []Fact{NewFact("can", Str("alice"), Sym("read"), Str("file-1"))},
		}},
	}
}

func TestIssueAndVerify(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	tok, err := Issue(testContents(), pair.PrivateKey)
	require.NoError(t, err)
	require.Len(t, tok.Blocks, 1)

	assert.Nil(t, tok.Blocks[0].Prev)
	assert.True(t, VerifyChain(tok, pair.PublicKey))
}

func TestAttenuateLinksChain(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	tok, err := Issue(testContents(), pair.PrivateKey)
	require.NoError(t, err)

	narrowed, err := Attenuate(tok, Contents{
		Checks: []Check{{
			ID:    "only-read",
			Query: []Fact{NewFact("public/role", Var("u"), Sym("agent"))},
		}},
	}, pair.PrivateKey)
	require.NoError(t, err)
	require.Len(t, narrowed.Blocks, 2)

	require.NotNil(t, narrowed.Blocks[1].Prev)
	assert.Equal(t, narrowed.Blocks[0].Hash, *narrowed.Blocks[1].Prev)
	assert.True(t, VerifyChain(narrowed, pair.PublicKey))

	// the original token is untouched
	require.Len(t, tok.Blocks, 1)
	assert.True(t, VerifyChain(tok, pair.PublicKey))
}

func TestVerifyChainRejectsTampering(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)
	other, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	build := func(t *testing.T) *Token {
		tok, err := Issue(testContents(), pair.PrivateKey)
		require.NoError(t, err)
		tok, err = Attenuate(tok, Contents{Facts: []Fact{NewFact("public/scope", Sym("narrow"))}}, pair.PrivateKey)
		require.NoError(t, err)
		return tok
	}

	t.Run("untampered chain verifies", func(t *testing.T) {
		assert.True(t, VerifyChain(build(t), pair.PublicKey))
	})

	t.Run("mutated fact", func(t *testing.T) {
		tok := build(t)
		tok.Blocks[0].Facts[0].Args[0] = Str("mallory")
		assert.False(t, VerifyChain(tok, pair.PublicKey))
	})

	t.Run("mutated stored hash", func(t *testing.T) {
		tok := build(t)
		tok.Blocks[1].Hash[0] ^= 0xff
		assert.False(t, VerifyChain(tok, pair.PublicKey))
	})

	t.Run("mutated signature", func(t *testing.T) {
		tok := build(t)
		tok.Blocks[0].Signature[0] ^= 0xff
		assert.False(t, VerifyChain(tok, pair.PublicKey))
	})

	t.Run("reordered blocks", func(t *testing.T) {
		tok := build(t)
		tok.Blocks[0], tok.Blocks[1] = tok.Blocks[1], tok.Blocks[0]
		assert.False(t, VerifyChain(tok, pair.PublicKey))
	})

	t.Run("wrong public key", func(t *testing.T) {
		assert.False(t, VerifyChain(build(t), other.PublicKey))
	})
}

func TestVerifyChainEdgeCases(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	assert.True(t, VerifyChain(&Token{}, pair.PublicKey), "empty chain is vacuously valid")
	assert.False(t, VerifyChain(nil, pair.PublicKey))
}

func TestBlockHashStable(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	tok, err := Issue(testContents(), pair.PrivateKey)
	require.NoError(t, err)

	first, err := tok.Blocks[0].ComputeHash()
	require.NoError(t, err)
	again, err := tok.Blocks[0].ComputeHash()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, tok.Blocks[0].Hash, first)
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	contents := testContents()
	contents.Checks[0].Where = `u != "root"`
	tok, err := Issue(contents, pair.PrivateKey)
	require.NoError(t, err)

	data, err := tok.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, VerifyChain(decoded, pair.PublicKey))
	require.Len(t, decoded.Blocks, 1)
	assert.Equal(t, tok.Blocks[0].Hash, decoded.Blocks[0].Hash)
	// guard expressions are recompiled on decode
	assert.NotNil(t, decoded.Blocks[0].Checks[0].CompiledWhere)
}

func TestDecodeRejectsMalformedBlocks(t *testing.T) {
	// a hand-built token can be well-signed yet structurally malformed;
	// Decode must reject it before the engine ever sees it
	tests := []struct {
		name  string
		block Block
	}{
		{
			name:  "check with empty query",
			block: Block{Checks: []Check{{ID: "empty-query"}}},
		},
		{
			name:  "fact with variables",
			block: Block{Facts: []Fact{NewFact("right", Var("u"))}},
		},
		{
			name: "rule without body",
			block: Block{Rules: []Rule{{
				ID:   "no-body",
				Head: NewFact("can", Str("alice")),
			}}},
		},
		{
			name: "check with invalid where expression",
			block: Block{Checks: []Check{{
				ID:    "bad-where",
				Query: []Fact{NewFact("can", Var("u"))},
				Where: "u ==",
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(&Token{Blocks: []Block{tt.block}})
			require.NoError(t, err)

			_, err = Decode(data)
			assert.Error(t, err)
		})
	}
}

func TestContentsValidate(t *testing.T) {
	tests := []struct {
		name     string
		contents Contents
		wantErr  bool
	}{
		{
			name:     "valid",
			contents: testContents(),
		},
		{
			name:    "fact with variables",
			wantErr: true,
			contents: Contents{
				Facts: []Fact{NewFact("right", Var("u"))},
			},
		},
		{
			name:    "fact without args",
			wantErr: true,
			contents: Contents{
				Facts: []Fact{{Predicate: ParsePredicate("right")}},
			},
		},
		{
			name:    "rule without body",
			wantErr: true,
			contents: Contents{
				Rules: []Rule{{ID: "r", Head: NewFact("can", Var("u"))}},
			},
		},
		{
			name:    "check without id",
			wantErr: true,
			contents: Contents{
				Checks: []Check{{Query: []Fact{NewFact("can", Str("alice"))}}},
			},
		},
		{
			name:    "invalid where expression",
			wantErr: true,
			contents: Contents{
				Checks: []Check{{
					ID:    "bad-where",
					Query: []Fact{NewFact("can", Var("u"))},
					Where: "u ==",
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contents.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAttenuateEmptyToken(t *testing.T) {
	pair, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	_, err = Attenuate(nil, Contents{}, pair.PrivateKey)
	assert.Error(t, err)
	_, err = Attenuate(&Token{}, Contents{}, pair.PrivateKey)
	assert.Error(t, err)
}
