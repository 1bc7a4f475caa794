// Package bucketsync synchronizes a local file set with a remote
// object-storage bucket under a key prefix.
//
// The package centers on the Syncer, which sequences three operations
// against a narrow storage contract: streamed uploads of local files,
// paginated listing of remote keys, and bulk deletion of stale keys.
// Configurable pacing waits run before uploads and deletes so external
// collaborators (a CDN, a deployment pipeline) can settle before writes
// begin. Per-file outcomes are reported through a pluggable five-channel
// Logger; expected failures never surface as returned errors.
//
// Basic usage:
//
//	client, err := bucketsync.New(
//	    bucketsync.WithBucket("my-bucket"),
//	    bucketsync.WithRegion("us-east-1"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	syncer := client.Syncer()
//	log := bucketsync.NewConsoleLogger()
//
//	elapsed := syncer.Upload(ctx, "site/", entries, log)
//	remote := syncer.List(ctx, "site/", log)
//	syncer.Delete(ctx, "site/", stale, log)
//
// The storage backend is injected behind the Storage interface, so tests
// and alternative backends can substitute the S3-backed implementation.
package bucketsync
