// Package scan walks the local filesystem to build the file set for a
// sync session.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/wrenlabs/bucketsync/synctypes"
)

// Scanner discovers local files under a sync root.
type Scanner struct {
	filesystem fs.Filesystem
}

// NewScanner creates a scanner over the provided filesystem.
func NewScanner(filesystem fs.Filesystem) *Scanner {
	return &Scanner{
		filesystem: filesystem,
	}
}

// Scan walks root and returns one FileEntry per regular file, in walk
// order. Relative paths use forward slashes so they can be joined with a
// remote key prefix directly.
func (s *Scanner) Scan(ctx context.Context, root string, acl synctypes.ObjectACL) ([]synctypes.FileEntry, error) {
	var entries []synctypes.FileEntry

	err := s.filesystem.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories (we only want files)
		if info.IsDir() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}

		entries = append(entries, synctypes.FileEntry{
			RelativePath: filepath.ToSlash(relPath),
			LocalPath:    path,
			ACL:          acl,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	return entries, nil
}
