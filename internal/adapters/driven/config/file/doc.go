// Package file provides a file-based implementation of the config store
// driven port, persisting configuration as TOML under the quarry config
// directory.
package file
