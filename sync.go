// Package bucketsync provides the full local-to-remote sync operation.
package bucketsync

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/wrenlabs/bucketsync/errors"
	"github.com/wrenlabs/bucketsync/internal/plan"
	"github.com/wrenlabs/bucketsync/internal/scan"
	"github.com/wrenlabs/bucketsync/synctypes"
)

// Sync mirrors the local directory at localPath to the remote prefix.
//
// It scans the local tree, lists the remote keys under prefix, uploads
// every local file, and bulk-deletes the remote keys with no local
// counterpart. Upload and delete outcomes go through log with the same
// continue-on-failure semantics as the individual operations; only
// failures that prevent the sync from being planned (an unreadable local
// tree) are returned as errors.
//
// Returns:
//   - *SyncResult: Counts of uploaded and deleted files plus the total
//     duration, pacing waits included
//   - error: Returns an error if the local scan fails
func (s *Syncer) Sync(ctx context.Context, localPath, prefix string, log Logger) (*synctypes.SyncResult, error) {
	if log == nil {
		log = NopLogger{}
	}

	if localPath == "" {
		return nil, errors.NewError("sync", errors.ErrInvalidInput).
			WithMessage("localPath cannot be empty")
	}

	absPath, err := filepath.Abs(localPath)
	if err != nil {
		return nil, errors.NewError("sync", fmt.Errorf("failed to resolve local path: %w", err))
	}

	start := time.Now()

	acl := synctypes.ObjectACL(s.headers[synctypes.HeaderObjectACL])
	entries, err := scan.NewScanner(s.fs).Scan(ctx, absPath, acl)
	if err != nil {
		return nil, errors.NewError("sync", err)
	}

	log.WatchStatus(fmt.Sprintf("syncing %d local files to %s", len(entries), prefix))

	remote := s.List(ctx, prefix, log)
	p := plan.Build(entries, remote)

	s.Upload(ctx, prefix, p.Uploads, log)
	if len(p.Deletes) > 0 {
		s.Delete(ctx, prefix, p.Deletes, log)
	}

	return &synctypes.SyncResult{
		FilesUploaded: len(p.Uploads),
		FilesDeleted:  len(p.Deletes),
		Duration:      time.Since(start),
	}, nil
}
