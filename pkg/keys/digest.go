package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest is a fixed-size SHA-256 digest. It serializes as a lowercase hex
// string so digests stay readable in token JSON.
type Digest [DigestSize]byte

// Hash computes the SHA-256 digest of data.
func Hash(data []byte) Digest {
	return sha256.Sum256(data)
}

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromHex decodes a 64-character hex string into a Digest.
func DigestFromHex(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("keys: invalid digest hex: %w", err)
	}
	if len(b) != DigestSize {
		return d, fmt.Errorf("keys: digest must be %d bytes, got %d", DigestSize, len(b))
	}
	copy(d[:], b)
	return d, nil
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := DigestFromHex(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
