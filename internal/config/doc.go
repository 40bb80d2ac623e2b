// Package config provides stickbind's configuration.
//
// Settings are built in three layers, each overriding the one before:
//
//  1. built-in defaults (Default)
//  2. the TOML file (stickbind.toml)
//  3. STICKBIND_* environment variables
//
// # Sub-packages
//
//   - loader: TOML file and environment variable sources
//   - watcher: fsnotify-based change notification for the config and
//     preference files
package config
