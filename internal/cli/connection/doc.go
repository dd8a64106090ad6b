// Package connection provides connection management for hllrcon.
//
// A Manager holds at most one authenticated session. Connect dials,
// reads the obfuscation key and logs in as one step; a failure at any
// point leaves the manager disconnected. The console and exec commands
// run every exchange through the Manager.
package connection
