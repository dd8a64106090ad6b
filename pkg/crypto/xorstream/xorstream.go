// Package xorstream implements the repeating-key XOR transform.
package xorstream

import (
	"encoding/hex"
	"errors"

	"github.com/spaolacci/murmur3"
)

// ErrInvalidKey is returned when the transform is invoked without key bytes.
var ErrInvalidKey = errors.New("xorstream: key is empty")

// Transform XORs data against key repeated to len(data).
//
// The result always has the same length as data, including when data is
// shorter than key. data is never modified.
func Transform(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}

	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out, nil
}

// Cipher binds the transform to one session key.
type Cipher struct {
	key []byte
}

// New creates a Cipher holding a private copy of key.
func New(key []byte) (*Cipher, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Cipher{key: k}, nil
}

// Encrypt obfuscates an outbound payload.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if c == nil {
		return nil, ErrInvalidKey
	}
	return Transform(plaintext, c.key)
}

// Decrypt recovers an inbound payload.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if c == nil {
		return nil, ErrInvalidKey
	}
	return Transform(ciphertext, c.key)
}

// KeyLen returns the key length in bytes.
func (c *Cipher) KeyLen() int {
	if c == nil {
		return 0
	}
	return len(c.key)
}

// Fingerprint returns a short non-reversible identifier for the key,
// suitable for logs. Two connections with the same key share a fingerprint.
func (c *Cipher) Fingerprint() string {
	if c == nil || len(c.key) == 0 {
		return ""
	}
	h := murmur3.New64()
	h.Write(c.key)
	return hex.EncodeToString(h.Sum(nil))
}
