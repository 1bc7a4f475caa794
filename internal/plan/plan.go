// Package plan computes the operation plan for a sync session from the
// local and remote file sets.
package plan

import (
	"github.com/wrenlabs/bucketsync/synctypes"
)

// Plan is the set of operations needed to make the remote prefix mirror
// the local file set.
type Plan struct {
	// Uploads are the local entries to send, in scan order.
	// Every local file is uploaded; the syncer has no change detection.
	Uploads []synctypes.FileEntry

	// Deletes are the remote relative paths with no local counterpart,
	// in listing order
	Deletes []string
}

// Build computes the plan from local entries and remote relative paths.
func Build(local []synctypes.FileEntry, remote []string) *Plan {
	p := &Plan{
		Uploads: local,
	}

	present := make(map[string]struct{}, len(local))
	for _, entry := range local {
		present[entry.RelativePath] = struct{}{}
	}

	for _, rel := range remote {
		if _, ok := present[rel]; !ok {
			p.Deletes = append(p.Deletes, rel)
		}
	}

	return p
}
