package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the key length for every supported cipher.
const KeySize = 32

// Type identifies the cipher. It is stored as the first byte of sealed
// output.
type Type byte

const (
	AESGCM           Type = 1
	ChaCha20Poly1305 Type = 2
)

// String returns the algorithm name.
func (t Type) String() string {
	switch t {
	case AESGCM:
		return "aes-256-gcm"
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Valid reports whether t is a supported cipher.
func (t Type) Valid() bool {
	return t == AESGCM || t == ChaCha20Poly1305
}

var (
	ErrKeySize      = fmt.Errorf("adaptive: key must be %d bytes", KeySize)
	ErrUnknownType  = errors.New("adaptive: unknown cipher type")
	ErrShortMessage = errors.New("adaptive: sealed message too short")
)

// Preferred returns the cipher to use on this host. Go uses AES
// instructions on amd64 and arm64.
func Preferred() Type {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return AESGCM
	default:
		return ChaCha20Poly1305
	}
}

// Cipher seals and opens messages with one key.
type Cipher struct {
	typ  Type
	aead cipher.AEAD
}

// New creates a cipher of type t.
func New(key []byte, t Type) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch t {
	case AESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case ChaCha20Poly1305:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, byte(t))
	}
	if err != nil {
		return nil, err
	}
	return &Cipher{typ: t, aead: aead}, nil
}

// Type returns the cipher type.
func (c *Cipher) Type() Type { return c.typ }

// Overhead returns the bytes Seal adds to the plaintext.
func (c *Cipher) Overhead() int {
	return 1 + c.aead.NonceSize() + c.aead.Overhead()
}

// Seal encrypts plaintext under a random nonce, authenticating ad.
func (c *Cipher) Seal(plaintext, ad []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	out := make([]byte, 1+ns, c.Overhead()+len(plaintext))
	out[0] = byte(c.typ)
	if _, err := io.ReadFull(rand.Reader, out[1:]); err != nil {
		return nil, fmt.Errorf("adaptive: nonce: %w", err)
	}
	return c.aead.Seal(out, out[1:], plaintext, ad), nil
}

// Open decrypts a message produced by Seal with the same type.
func (c *Cipher) Open(sealed, ad []byte) ([]byte, error) {
	t, err := TypeOf(sealed)
	if err != nil {
		return nil, err
	}
	if t != c.typ {
		return nil, fmt.Errorf("%w: sealed with %s, cipher is %s", ErrUnknownType, t, c.typ)
	}

	ns := c.aead.NonceSize()
	if len(sealed) < 1+ns+c.aead.Overhead() {
		return nil, ErrShortMessage
	}
	return c.aead.Open(nil, sealed[1:1+ns], sealed[1+ns:], ad)
}

// TypeOf returns the cipher that produced sealed.
func TypeOf(sealed []byte) (Type, error) {
	if len(sealed) == 0 {
		return 0, ErrShortMessage
	}
	t := Type(sealed[0])
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, sealed[0])
	}
	return t, nil
}

// Open decrypts sealed with whichever cipher produced it.
func Open(key, sealed, ad []byte) ([]byte, error) {
	t, err := TypeOf(sealed)
	if err != nil {
		return nil, err
	}
	c, err := New(key, t)
	if err != nil {
		return nil, err
	}
	return c.Open(sealed, ad)
}
