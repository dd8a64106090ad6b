package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/hllrcon-go/pkg/crypto/adaptive"
)

// MasterKeyEnv names the variable holding the vault passphrase.
const MasterKeyEnv = "HLLRCON_MASTER_KEY"

// Vault errors.
var (
	ErrMasterKeyTooShort = errors.New("vault: master key too short (minimum 8 characters)")
	ErrMalformedSecret   = errors.New("vault: malformed encrypted value")
	ErrDecryptionFailed  = errors.New("vault: decryption failed - wrong master key or corrupted data")
)

const (
	sealedPrefix = "enc:v1:"

	// MinMasterKeyLength is the minimum passphrase length.
	MinMasterKeyLength = 8

	saltLength = 16

	// Argon2id parameters (RFC 9106 second recommended option).
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4

	subkeyInfo = "hllrcon profile password v1:"
)

// Vault seals profile passwords with a key derived from a passphrase.
//
// Sealed values have the form "enc:v1:" + base64(salt | sealed), where
// sealed is adaptive output (cipher type | nonce | ciphertext). Each value has its own salt. The profile name is the HKDF info
// and the AEAD additional data, so a value cannot be moved between profiles.
type Vault struct {
	passphrase []byte
	cipherType adaptive.Type
}

// NewVault creates a vault for passphrase. The cipher is chosen for the
// current hardware; Open accepts values sealed with either cipher.
func NewVault(passphrase string) (*Vault, error) {
	return NewVaultWithCipher(passphrase, adaptive.Preferred())
}

// NewVaultWithCipher creates a vault that seals with cipherType.
func NewVaultWithCipher(passphrase string, cipherType adaptive.Type) (*Vault, error) {
	if len(passphrase) < MinMasterKeyLength {
		return nil, ErrMasterKeyTooShort
	}
	if !cipherType.Valid() {
		return nil, fmt.Errorf("vault: unsupported cipher %s", cipherType)
	}
	return &Vault{passphrase: []byte(passphrase), cipherType: cipherType}, nil
}

// VaultFromEnv returns a vault for HLLRCON_MASTER_KEY, or nil when the
// variable is unset.
func VaultFromEnv() (*Vault, error) {
	key := os.Getenv(MasterKeyEnv)
	if key == "" {
		return nil, nil
	}
	return NewVault(key)
}

// IsSealed reports whether s was produced by Seal.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, sealedPrefix)
}

// Seal encrypts a profile password.
func (v *Vault) Seal(profile, password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("vault: generate salt: %w", err)
	}

	key, err := v.deriveKey(profile, salt)
	if err != nil {
		return "", err
	}
	defer zero(key)

	c, err := adaptive.New(key, v.cipherType)
	if err != nil {
		return "", err
	}
	sealed, err := c.Seal([]byte(password), []byte(profile))
	if err != nil {
		return "", fmt.Errorf("vault: encrypt: %w", err)
	}

	payload := make([]byte, 0, saltLength+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, sealed...)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(payload), nil
}

// Open decrypts a value produced by Seal for the same profile.
// Values without the sealed prefix are returned unchanged.
func (v *Vault) Open(profile, value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}

	payload, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(payload) <= saltLength {
		return "", ErrMalformedSecret
	}
	salt, sealed := payload[:saltLength], payload[saltLength:]
	if _, err := adaptive.TypeOf(sealed); err != nil {
		return "", ErrMalformedSecret
	}

	key, err := v.deriveKey(profile, salt)
	if err != nil {
		return "", err
	}
	defer zero(key)

	plain, err := adaptive.Open(key, sealed, []byte(profile))
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// deriveKey derives the per-value key: Argon2id over the passphrase, then
// HKDF-SHA256 bound to the profile name.
func (v *Vault) deriveKey(profile string, salt []byte) ([]byte, error) {
	root := argon2.IDKey(v.passphrase, salt, argon2Time, argon2Memory, argon2Threads, adaptive.KeySize)
	defer zero(root)

	key := make([]byte, adaptive.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, root, salt, []byte(subkeyInfo+profile)), key); err != nil {
		return nil, fmt.Errorf("vault: derive subkey: %w", err)
	}
	return key, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
