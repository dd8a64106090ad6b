// Package repl provides the interactive console for hllrcon.
//
//   - repl.go: prompt loop, local commands (help, exit, quit) and dispatch
//   - catalog.go: the server command reference shown by help
//   - completer.go: tab completion over the reference
//   - history.go: history persisted in ~/.hllrcon/history
//
// On a terminal input comes from readline; otherwise lines are read plainly
// so the console can be scripted through a pipe.
package repl
