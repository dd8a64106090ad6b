// Package output provides output formatting for hllrcon.
//
//   - formatter.go: Formatter interface, format names and factory
//   - text.go: plain server replies (default)
//   - table.go: aligned tables with wide mode
//   - json.go, yaml.go: machine-readable output
//   - spinner.go, progress.go: terminal feedback on stderr
//
// Server replies use tabs and newlines as separators; the table renderer
// flattens them so one exchange stays on one row.
package output
