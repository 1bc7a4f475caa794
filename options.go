// Package bucketsync provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package bucketsync

import (
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/wrenlabs/bucketsync/synctypes"
)

// WithCredentials sets static credentials for the storage backend.
// If not specified, the default AWS credential chain is used.
func WithCredentials(accessKeyID, secretAccessKey string) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
	}
}

// WithSessionToken sets the optional session token used alongside static
// credentials for temporary security credentials.
func WithSessionToken(token string) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.SessionToken = token
	}
}

// WithBucket sets the bucket all sync operations run against. Required.
func WithBucket(bucket string) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Bucket = bucket
	}
}

// WithRegion sets the region of the bucket.
// If not specified, uses the default region from the credential chain.
func WithRegion(region string) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom storage endpoint.
// This is useful for S3-compatible services or local testing.
func WithEndpoint(endpoint string) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithInternal selects the provider's in-network endpoint variant.
// Only meaningful together with a custom endpoint.
func WithInternal(internal bool) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Internal = internal
	}
}

// WithDisableSSL disables TLS on the endpoint scheme.
// Only use this for local testing or services that don't support TLS.
// Default is false (TLS enabled).
func WithDisableSSL(disableSSL bool) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Secure = !disableSSL
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithTimeout sets the timeout for individual storage requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithHeaders merges the given entries into the global header map applied
// to every uploaded object. Recognized entries include cache-control,
// content-disposition, content-encoding, expires, server-side-encryption
// and its KMS key id, and the default object-acl.
func WithHeaders(headers map[string]string) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for k, v := range headers {
			c.Headers[k] = v
		}
	}
}

// WithHeader sets a single global header entry.
func WithHeader(name, value string) synctypes.Option {
	return WithHeaders(map[string]string{name: value})
}

// WithDefaultACL sets the access level applied to objects whose FileEntry
// does not carry its own. Per-file access levels win over this default.
func WithDefaultACL(acl synctypes.ObjectACL) synctypes.Option {
	return WithHeader(synctypes.HeaderObjectACL, string(acl))
}

// WithUploadWait pauses the syncer for the given duration before an
// upload batch starts. A zero duration schedules no timer at all.
func WithUploadWait(d time.Duration) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.WaitBeforeUpload = d
	}
}

// WithDeleteWait pauses the syncer for the given duration before a bulk
// delete. A zero duration schedules no timer at all.
func WithDeleteWait(d time.Duration) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.WaitBeforeDelete = d
	}
}

// WithFilesystem sets a custom filesystem implementation for local file
// access. This allows using in-memory filesystems for testing.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) synctypes.Option {
	return func(c *synctypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}
