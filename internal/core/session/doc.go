// Package session implements the RCON client session.
//
// A Session owns one TCP connection and the obfuscation key the server sends
// as its first message. Its lifecycle is strictly forward:
//
//	Unconnected -> Connected -> Authenticated -> Closed
//
// Connect dials and reads the key, Authenticate sends "Login <password>" and
// expects the exact reply "SUCCESS", and Execute performs one request/response
// exchange per call. Every message is a single write or a single read,
// XOR-obfuscated with the session key (see pkg/crypto/xorstream).
//
// Sessions never reconnect or retry. Once an operation fails with a
// connection error the caller is expected to Close the session and start a
// new one.
package session
