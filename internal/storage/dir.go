package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore reads stored messages from a local directory laid out like the
// bucket: <root>/<prefix>/<messageID>.
type DirStore struct {
	root   string
	prefix string
}

// NewDir creates a DirStore rooted at root.
func NewDir(root, prefix string) *DirStore {
	return &DirStore{root: root, prefix: prefix}
}

// Fetch returns the raw bytes of the message stored under messageID.
func (d *DirStore) Fetch(_ context.Context, messageID string) ([]byte, error) {
	if messageID == "" {
		return nil, ErrEmptyMessageID
	}
	if filepath.Base(messageID) != messageID {
		return nil, fmt.Errorf("invalid message id %q", messageID)
	}

	p := filepath.Join(d.root, filepath.FromSlash(Key(d.prefix, messageID)))
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored message: %w", err)
	}
	return data, nil
}
