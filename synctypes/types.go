// Package synctypes provides shared type definitions for the bucketsync module.
package synctypes

import (
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// ObjectACL represents the access level applied to an object at upload time.
type ObjectACL string

// Predefined object access levels
const (
	// ACLPrivate grants private access (default)
	ACLPrivate ObjectACL = "private"

	// ACLPublicRead grants public read access
	ACLPublicRead ObjectACL = "public-read"

	// ACLPublicReadWrite grants public read and write access
	ACLPublicReadWrite ObjectACL = "public-read-write"
)

// Canonical header names recognized by the storage layer.
// Unrecognized entries are passed through as object metadata.
const (
	// HeaderCacheControl sets the Cache-Control response header on the object
	HeaderCacheControl = "cache-control"

	// HeaderContentDisposition sets the Content-Disposition response header
	HeaderContentDisposition = "content-disposition"

	// HeaderContentEncoding sets the Content-Encoding response header
	HeaderContentEncoding = "content-encoding"

	// HeaderContentType sets the MIME type; sniffed from content when absent
	HeaderContentType = "content-type"

	// HeaderExpires sets the Expires response header
	HeaderExpires = "expires"

	// HeaderSSE selects the server-side encryption mode (AES256 or aws:kms)
	HeaderSSE = "server-side-encryption"

	// HeaderSSEKMSKeyID names the KMS key for aws:kms encryption
	HeaderSSEKMSKeyID = "server-side-encryption-kms-key-id"

	// HeaderObjectACL sets the object access level
	HeaderObjectACL = "object-acl"
)

// FileEntry describes one local file to upload.
// Entries are immutable and constructed by the caller before an upload batch.
type FileEntry struct {
	// RelativePath is the path of the file relative to the sync root.
	// Joined with the key prefix it forms the remote object key.
	RelativePath string

	// LocalPath is the path used to open the file on the local filesystem
	LocalPath string

	// ACL is the access level applied to this object, overriding any
	// default from the global header map
	ACL ObjectACL
}

// PutResult is the outcome of a streamed put against the remote store.
type PutResult struct {
	// StatusCode is the HTTP status of the put response
	StatusCode int

	// Body is the raw response body, populated on failure
	Body string
}

// ListPage is one page of a paginated listing.
type ListPage struct {
	// StatusCode is the HTTP status of the list response
	StatusCode int

	// Body is the raw response body, populated on failure
	Body string

	// Objects contains the object keys returned on this page, in order
	Objects []string

	// NextMarker is the continuation marker for the next page.
	// Empty means the listing is complete.
	NextMarker string
}

// DeleteResult is the outcome of a bulk-delete request.
type DeleteResult struct {
	// StatusCode is the HTTP status of the delete response
	StatusCode int

	// Body is the raw response body, populated on failure
	Body string

	// Deleted contains the keys the store confirmed as deleted
	Deleted []string
}

// SyncResult contains statistics about a full sync operation.
type SyncResult struct {
	// FilesUploaded is the number of files sent to the remote store
	FilesUploaded int

	// FilesDeleted is the number of stale remote keys deleted
	FilesDeleted int

	// Duration is how long the sync took, pacing waits included
	Duration time.Duration
}

// ClientConfig holds configuration for the storage client.
type ClientConfig struct {
	// AccessKeyID and SecretAccessKey are the static credentials.
	// When both are empty the default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	Bucket   string
	Region   string
	Endpoint string

	// Internal selects the in-network endpoint variant of the provider
	Internal bool

	// Secure toggles TLS on the endpoint scheme. Defaults to true.
	Secure bool

	// ForcePathStyle uses path-style addressing, required by most
	// S3-compatible services
	ForcePathStyle bool

	Timeout time.Duration

	// Headers are applied to every uploaded object; per-file entries win
	Headers map[string]string

	// WaitBeforeUpload pauses the syncer before an upload batch starts
	WaitBeforeUpload time.Duration

	// WaitBeforeDelete pauses the syncer before a bulk delete
	WaitBeforeDelete time.Duration

	// Filesystem abstraction for local file access
	Filesystem fs.Filesystem
}

// Option is a functional option for configuring the storage client.
type Option func(*ClientConfig)
