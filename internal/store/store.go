// Package store implements the narrow storage contract the syncer runs
// against, backed by the AWS S3 API.
//
// API errors from the SDK are folded into non-200 results carrying the
// HTTP status and raw error text, so callers can drive control flow off
// the response status the way the remote store reports it.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"

	"github.com/wrenlabs/bucketsync/synctypes"
)

// sniffLen is how many leading bytes are read for content-type detection.
const sniffLen = 512

// Store performs object storage operations against a single bucket.
type Store struct {
	client S3Interface
	bucket string
}

// S3Interface defines the S3 operations we need.
type S3Interface interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
	DeleteObjects(
		ctx context.Context,
		params *s3.DeleteObjectsInput,
		optFns ...func(*s3.Options),
	) (*s3.DeleteObjectsOutput, error)
}

// New creates a Store bound to the given bucket.
func New(client S3Interface, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
	}
}

// PutStream uploads the contents of reader to key with the given headers.
// Recognized header entries map to object properties; unrecognized entries
// are passed through as user metadata. When no content-type header is set
// the type is sniffed from the stream's leading bytes.
func (s *Store) PutStream(
	ctx context.Context,
	key string,
	reader io.Reader,
	headers map[string]string,
) (*synctypes.PutResult, error) {
	if reader == nil {
		return nil, fmt.Errorf("put stream %s: reader is nil", key)
	}

	body, contentType, err := s.resolveContentType(reader, headers)
	if err != nil {
		return nil, fmt.Errorf("put stream %s: %w", key, err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	s.applyHeaders(input, headers)

	if _, err := s.client.PutObject(ctx, input); err != nil {
		status, raw := statusAndBody(err)
		return &synctypes.PutResult{StatusCode: status, Body: raw}, nil
	}

	return &synctypes.PutResult{StatusCode: http.StatusOK}, nil
}

// List returns one page of object keys under prefix. A non-empty marker
// continues a previous page; the returned NextMarker is empty when the
// listing is complete.
func (s *Store) List(ctx context.Context, prefix, marker string) (*synctypes.ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	if marker != "" {
		input.ContinuationToken = aws.String(marker)
	}

	output, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		status, raw := statusAndBody(err)
		return &synctypes.ListPage{StatusCode: status, Body: raw}, nil
	}

	page := &synctypes.ListPage{
		StatusCode: http.StatusOK,
		Objects:    make([]string, 0, len(output.Contents)),
	}
	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, aws.ToString(obj.Key))
	}
	if aws.ToBool(output.IsTruncated) {
		page.NextMarker = aws.ToString(output.NextContinuationToken)
	}

	return page, nil
}

// DeleteMulti issues a single bulk-delete request for all keys and reports
// which of them the store confirmed as deleted.
func (s *Store) DeleteMulti(ctx context.Context, keys []string) (*synctypes.DeleteResult, error) {
	objects := make([]awstypes.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, awstypes.ObjectIdentifier{
			Key: aws.String(key),
		})
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &awstypes.Delete{
			Objects: objects,
			Quiet:   aws.Bool(false), // Get detailed results
		},
	}

	output, err := s.client.DeleteObjects(ctx, input)
	if err != nil {
		status, raw := statusAndBody(err)
		return &synctypes.DeleteResult{StatusCode: status, Body: raw}, nil
	}

	result := &synctypes.DeleteResult{
		StatusCode: http.StatusOK,
		Deleted:    make([]string, 0, len(output.Deleted)),
	}
	for _, deleted := range output.Deleted {
		result.Deleted = append(result.Deleted, aws.ToString(deleted.Key))
	}

	return result, nil
}

// resolveContentType returns the upload body and its content type. When the
// headers carry an explicit content-type it is used as-is; otherwise the
// leading bytes of the stream are sniffed and stitched back onto the body.
func (s *Store) resolveContentType(
	reader io.Reader,
	headers map[string]string,
) (io.Reader, string, error) {
	if ct, ok := headers[synctypes.HeaderContentType]; ok && ct != "" {
		return reader, ct, nil
	}

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			contentType = mt.String()
		}
	}

	return io.MultiReader(bytes.NewReader(buf[:n]), reader), contentType, nil
}

// applyHeaders maps recognized header entries onto the put request and
// collects the rest as user metadata.
func (s *Store) applyHeaders(input *s3.PutObjectInput, headers map[string]string) {
	metadata := map[string]string{}

	for name, value := range headers {
		if value == "" {
			continue
		}
		switch name {
		case synctypes.HeaderContentType:
			// Already resolved before the request was built.
		case synctypes.HeaderCacheControl:
			input.CacheControl = aws.String(value)
		case synctypes.HeaderContentDisposition:
			input.ContentDisposition = aws.String(value)
		case synctypes.HeaderContentEncoding:
			input.ContentEncoding = aws.String(value)
		case synctypes.HeaderExpires:
			if t, err := http.ParseTime(value); err == nil {
				input.Expires = aws.Time(t)
			}
		case synctypes.HeaderSSE:
			input.ServerSideEncryption = awstypes.ServerSideEncryption(value)
		case synctypes.HeaderSSEKMSKeyID:
			input.SSEKMSKeyId = aws.String(value)
		case synctypes.HeaderObjectACL:
			input.ACL = awstypes.ObjectCannedACL(value)
		default:
			metadata[name] = value
		}
	}

	if len(metadata) > 0 {
		input.Metadata = metadata
	}
}

// statusAndBody extracts the HTTP status and a raw response description
// from an SDK error. Status is zero when the failure happened before a
// response was received.
func statusAndBody(err error) (int, string) {
	status := 0
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		status = re.HTTPStatusCode()
	}

	body := err.Error()
	var ae smithy.APIError
	if errors.As(err, &ae) {
		body = fmt.Sprintf("%s: %s", ae.ErrorCode(), ae.ErrorMessage())
	}

	return status, body
}
