// Package xorstream implements the repeating-key XOR transform used by the
// RCON wire protocol.
//
// The server issues a key as the first message on every connection. All
// traffic after that point is XORed against the key, repeated to the length
// of the payload:
//
//	out[i] = data[i] ^ key[i % len(key)]
//
// The transform is its own inverse, so the same call obfuscates outbound
// requests and recovers inbound responses.
//
// The key is whatever the server sends; nothing here provides
// confidentiality or integrity.
//
// Usage:
//
//	c, err := xorstream.New(key)
//	wire, _ := c.Encrypt([]byte("Get Name"))
//	plain, _ := c.Decrypt(reply)
package xorstream
