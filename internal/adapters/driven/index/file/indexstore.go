// Package file provides a file-based implementation of the index store
// driven port. Each owner's artifact is one gob-encoded file under the
// data directory; Replace writes to a temp file and renames it so
// readers never observe a partial artifact.
package file

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/index"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore persists index artifacts as files.
type IndexStore struct {
	dir string
}

// NewIndexStore creates an index store rooted at dir. If dir is empty,
// defaults to ~/.quarry/data/indexes.
func NewIndexStore(dir string) (*IndexStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".quarry", "data", "indexes")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	return &IndexStore{dir: dir}, nil
}

// Replace atomically swaps the owner's artifact file.
func (s *IndexStore) Replace(_ context.Context, ownerID string, artifact *index.Artifact) error {
	tmp, err := os.CreateTemp(s.dir, "index_*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}

	if err := gob.NewEncoder(tmp).Encode(artifact); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(ownerID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// Load reads the owner's artifact, or domain.ErrNotFound if none has
// been written.
func (s *IndexStore) Load(_ context.Context, ownerID string) (*index.Artifact, error) {
	f, err := os.Open(s.path(ownerID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	var artifact index.Artifact
	if err := gob.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	return &artifact, nil
}

// path maps an owner ID to its artifact file. Owner IDs are
// caller-supplied, so they are escaped before touching the filesystem.
func (s *IndexStore) path(ownerID string) string {
	return filepath.Join(s.dir, "index_"+url.PathEscape(ownerID)+".gob")
}
