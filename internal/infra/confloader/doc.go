// Package confloader loads configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Values set by the caller before Load (defaults)
//  2. YAML file
//  3. .env file (only keys carrying the env prefix)
//  4. Environment variables
//  5. Maps loaded after Load (command-line flags)
//
// Environment names lose the prefix and are lowercased, so RCON_READ_BUFFER_SIZE
// becomes read_buffer_size. WithEnvKeyMap maps a name onto a nested key.
//
// Watcher reports writes to watched files via fsnotify; the mock server uses
// it to reload its response table.
package confloader
