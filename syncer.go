// Package bucketsync provides the core syncer and its storage contract.
package bucketsync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/wrenlabs/bucketsync/synctypes"
)

// Storage is the narrow contract the syncer runs against. The S3-backed
// implementation lives in internal/store; tests inject doubles.
//
// Expected request failures are reported through non-200 result statuses
// with the raw response in Body. Returned errors are reserved for
// failures raised before a response exists (a broken local stream, a
// request that could not be built).
type Storage interface {
	// PutStream uploads reader's contents to key with the given headers
	PutStream(ctx context.Context, key string, reader io.Reader, headers map[string]string) (*synctypes.PutResult, error)

	// List returns one page of keys under prefix, continuing from marker
	List(ctx context.Context, prefix, marker string) (*synctypes.ListPage, error)

	// DeleteMulti bulk-deletes keys and reports which were confirmed
	DeleteMulti(ctx context.Context, keys []string) (*synctypes.DeleteResult, error)
}

// Syncer sequences uploads, listings, and deletions against one bucket,
// honoring the configured pacing waits and reporting every outcome
// through the Logger passed to each call.
//
// A Syncer holds no mutable state across calls; it is constructed once
// per sync session and all operations run strictly sequentially.
type Syncer struct {
	store   Storage
	fs      fs.Filesystem
	headers map[string]string

	waitBeforeUpload time.Duration
	waitBeforeDelete time.Duration

	// sleep is swapped out in tests to keep them deterministic
	sleep func(time.Duration)
}

// NewSyncer creates a Syncer over the given storage backend, taking the
// pacing waits, global headers, and filesystem from cfg.
func NewSyncer(st Storage, cfg *synctypes.ClientConfig) *Syncer {
	if cfg == nil {
		cfg = &synctypes.ClientConfig{}
	}

	filesystem := cfg.Filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	return &Syncer{
		store:            st,
		fs:               filesystem,
		headers:          cfg.Headers,
		waitBeforeUpload: cfg.WaitBeforeUpload,
		waitBeforeDelete: cfg.WaitBeforeDelete,
		sleep:            pause,
	}
}

// Upload sends every entry to the remote store under prefix, in order.
//
// The configured upload wait runs first; elapsed time is measured from
// just after it. Each entry's local file is streamed to the key
// prefix + RelativePath with the global headers merged with the entry's
// access level (the entry wins). A failed entry is logged and the batch
// continues; nothing is retried. The returned duration covers the whole
// batch.
func (s *Syncer) Upload(ctx context.Context, prefix string, entries []synctypes.FileEntry, log Logger) time.Duration {
	if log == nil {
		log = NopLogger{}
	}

	if s.waitBeforeUpload > 0 {
		log.Debug(fmt.Sprintf("waiting %s before upload", s.waitBeforeUpload))
	}
	s.sleep(s.waitBeforeUpload)

	log.Pending(fmt.Sprintf("uploading %d files to %s", len(entries), prefix))

	start := time.Now()
	for _, entry := range entries {
		key := prefix + entry.RelativePath
		fileStart := time.Now()

		res, err := s.putEntry(ctx, key, entry)
		if err != nil {
			log.Error(fmt.Sprintf("upload %s: %v", key, err))
			continue
		}
		if res.StatusCode != http.StatusOK {
			log.Error(fmt.Sprintf("upload %s failed: %s", key, res.Body))
			continue
		}

		log.Success(fmt.Sprintf("uploaded %s in %s", key, time.Since(fileStart).Round(time.Millisecond)))
	}

	return time.Since(start)
}

// putEntry streams one local file to the store, closing the file whether
// the put succeeds or fails.
func (s *Syncer) putEntry(ctx context.Context, key string, entry synctypes.FileEntry) (*synctypes.PutResult, error) {
	file, err := s.fs.Open(entry.LocalPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return s.store.PutStream(ctx, key, file, s.entryHeaders(entry))
}

// entryHeaders merges the global header map with the entry's access
// level. The per-file level wins over any global default.
func (s *Syncer) entryHeaders(entry synctypes.FileEntry) map[string]string {
	headers := make(map[string]string, len(s.headers)+1)
	for k, v := range s.headers {
		headers[k] = v
	}
	if entry.ACL != "" {
		headers[synctypes.HeaderObjectACL] = string(entry.ACL)
	}
	return headers
}

// List returns the remote paths under prefix, relative to it.
//
// Pages are followed until the store stops returning a continuation
// marker. A failed page is logged once and pagination stops, silently
// returning whatever accumulated so far. The prefix is stripped from
// each key by plain substring removal, mirroring the store's addressing
// scheme of prefix + relative path.
func (s *Syncer) List(ctx context.Context, prefix string, log Logger) []string {
	if log == nil {
		log = NopLogger{}
	}

	var keys []string
	marker := ""
	for {
		page, err := s.store.List(ctx, prefix, marker)
		if err != nil {
			log.Error(fmt.Sprintf("list %s: %v", prefix, err))
			break
		}
		if page.StatusCode != http.StatusOK {
			log.Error(fmt.Sprintf("list %s failed: %s", prefix, page.Body))
			break
		}

		keys = append(keys, page.Objects...)

		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}

	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		paths = append(paths, strings.Replace(key, prefix, "", 1))
	}
	return paths
}

// Delete removes the given relative paths under prefix with one
// bulk-delete request.
//
// The configured delete wait runs first; elapsed time is measured from
// just after it. On a 200 response every requested key missing from the
// store's confirmed-deleted set is reported together as one multi-line
// error. Failures are never retried and never returned.
func (s *Syncer) Delete(ctx context.Context, prefix string, relativePaths []string, log Logger) time.Duration {
	if log == nil {
		log = NopLogger{}
	}

	if s.waitBeforeDelete > 0 {
		log.Debug(fmt.Sprintf("waiting %s before delete", s.waitBeforeDelete))
	}
	s.sleep(s.waitBeforeDelete)

	start := time.Now()
	if len(relativePaths) == 0 {
		return time.Since(start)
	}

	keys := make([]string, 0, len(relativePaths))
	for _, path := range relativePaths {
		keys = append(keys, prefix+path)
	}

	log.Pending(fmt.Sprintf("deleting %d objects under %s", len(keys), prefix))

	res, err := s.store.DeleteMulti(ctx, keys)
	if err != nil {
		log.Error(fmt.Sprintf("delete under %s: %v", prefix, err))
		return time.Since(start)
	}
	if res.StatusCode != http.StatusOK {
		log.Error(fmt.Sprintf("delete under %s failed: %s", prefix, res.Body))
		return time.Since(start)
	}

	confirmed := make(map[string]struct{}, len(res.Deleted))
	for _, key := range res.Deleted {
		confirmed[key] = struct{}{}
	}

	var missing []string
	for _, key := range keys {
		if _, ok := confirmed[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		log.Error(fmt.Sprintf("failed to delete:\n%s", strings.Join(missing, "\n")))
	} else {
		log.Success(fmt.Sprintf("deleted %d objects under %s", len(keys), prefix))
	}

	return time.Since(start)
}

// pause sleeps for d. A zero or negative duration is a true no-op; no
// timer is scheduled.
func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
