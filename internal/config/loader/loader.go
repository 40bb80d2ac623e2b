// Package loader reads configuration sources into nested maps.
//
// Sources are a TOML file and STICKBIND_* environment variables. Maps
// from several sources are combined with DeepMerge, later sources
// winning.
package loader

import (
	"io/fs"
	"os"
)

// Loader is implemented by every configuration source.
type Loader interface {
	// Load reads the source. A missing source yields nil, nil.
	Load() (map[string]any, error)
}

// FileSystem is the file access a loader needs. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat implements FileSystem.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
