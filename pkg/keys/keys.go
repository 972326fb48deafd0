// Package keys holds the signing primitives: Ed25519 key pairs, signatures
// and SHA-256 digests. Everything here is a pure function over byte buffers
// and keys; verification rejects with false, it never panics.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DigestSize is the size of a block digest in bytes.
const DigestSize = sha256.Size

// KeyPair holds an Ed25519 key pair with a precomputed hex-encoded public key.
type KeyPair struct {
	PrivateKey   ed25519.PrivateKey
	PublicKey    ed25519.PublicKey
	PublicKeyHex string
}

// GenerateKeyPair generates a new Ed25519 key pair from cryptographically
// secure randomness.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keys: failed to generate Ed25519 key pair: %w", err)
	}
	return &KeyPair{
		PrivateKey:   priv,
		PublicKey:    pub,
		PublicKeyHex: hex.EncodeToString(pub),
	}, nil
}

// FromPrivateKey reconstructs a KeyPair from an existing Ed25519 private key.
// The key must be 64 bytes (Go's ed25519.PrivateKey format, which includes
// the public key suffix).
func FromPrivateKey(privateKey ed25519.PrivateKey) (*KeyPair, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keys: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey))
	}
	pub := privateKey.Public().(ed25519.PublicKey)
	keyCopy := make(ed25519.PrivateKey, len(privateKey))
	copy(keyCopy, privateKey)
	return &KeyPair{
		PrivateKey:   keyCopy,
		PublicKey:    pub,
		PublicKeyHex: hex.EncodeToString(pub),
	}, nil
}

// Sign signs message bytes with an Ed25519 private key and returns the
// 64-byte signature.
func Sign(privateKey ed25519.PrivateKey, message []byte) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keys: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey))
	}
	return ed25519.Sign(privateKey, message), nil
}

// Verify checks an Ed25519 signature against a message and public key.
// It returns false for any malformed input (wrong key size, truncated
// signature) instead of panicking.
func Verify(publicKey ed25519.PublicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey, message, signature)
}
