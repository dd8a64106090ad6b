// Package cmap provides a sharded concurrent map with string keys.
//
// The mock RCON server keeps its open connections here: accept and
// connection goroutines add and remove entries while status requests
// iterate.
//
//	m := cmap.New[*Conn]()
//	m.Set(id, conn)
//	m.Range(func(id string, c *Conn) bool { ...; return true })
package cmap
