// Package mockserver provides an in-process XOR RCON server.
//
// The server speaks the same wire protocol as a game server:
//
//  1. On accept it sends a random obfuscation key as the first message.
//  2. The client sends "Login <password>"; the reply is SUCCESS or FAIL.
//  3. Every further message is one command, answered with one reply taken
//     from a response table. Unknown commands are answered with FAIL.
//
// Every message is a single write XOR-obfuscated with the connection key.
// The response table can be loaded from YAML and reloaded when the file
// changes. Negative scenarios (no key, hang-up instead of a reply) are
// enabled through Config. It backs the hllrcon-mock binary and the
// end-to-end tests of the client packages.
package mockserver
