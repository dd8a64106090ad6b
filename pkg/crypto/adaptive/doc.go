// Package adaptive seals small secrets with an AEAD cipher chosen for the
// host.
//
// AES-256-GCM is preferred where the CPU accelerates AES; ChaCha20-Poly1305
// is used otherwise. Sealed output is self-describing:
//
//	type (1 byte) | nonce | ciphertext+tag
//
// so Open accepts output from either cipher given the same 32-byte key.
//
// Usage:
//
//	c, err := adaptive.New(key, adaptive.Preferred())
//	sealed, err := c.Seal([]byte("hunter2"), []byte("profile-name"))
//	plain, err := adaptive.Open(key, sealed, []byte("profile-name"))
package adaptive
