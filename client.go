// Package bucketsync provides client initialization and configuration.
package bucketsync

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/wrenlabs/bucketsync/errors"
	"github.com/wrenlabs/bucketsync/internal/s3api"
	"github.com/wrenlabs/bucketsync/internal/store"
	"github.com/wrenlabs/bucketsync/synctypes"
)

// Client holds the configured storage backend for one sync session.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// cfg holds the resolved client configuration
	cfg *synctypes.ClientConfig

	// fs is the filesystem abstraction for local file access
	fs fs.Filesystem
}

// New creates a new client with the provided options.
// Static credentials are used when an access key pair is configured;
// otherwise the default AWS credential chain applies.
//
// Example:
//
//	client, err := bucketsync.New(
//	    bucketsync.WithBucket("my-bucket"),
//	    bucketsync.WithRegion("us-west-2"),
//	    bucketsync.WithEndpoint("minio.internal:9000"),
//	    bucketsync.WithForcePathStyle(true),
//	)
func New(opts ...synctypes.Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Bucket == "" {
		return nil, errors.NewError("client initialization", errors.ErrMissingBucket)
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.NewError("client initialization", errors.ErrInvalidCredentials).
			WithMessage("access key id and secret must be set together")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, errors.NewError("client initialization", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1" // AWS default region
	}

	var s3Opts []func(*s3.Options)
	if endpoint := resolveEndpoint(cfg); endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: cfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	if cfg.Filesystem == nil {
		cfg.Filesystem = billy.NewOSFS("/")
	}

	return &Client{
		s3Client: s3.NewFromConfig(awsCfg, s3Opts...),
		cfg:      cfg,
		fs:       cfg.Filesystem,
	}, nil
}

// NewWithClient creates a client around a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...synctypes.Option) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Filesystem == nil {
		cfg.Filesystem = billy.NewOSFS("/")
	}

	return &Client{
		s3Client: s3Client,
		cfg:      cfg,
		fs:       cfg.Filesystem,
	}
}

// Syncer returns a Syncer bound to this client's bucket and options.
func (c *Client) Syncer() *Syncer {
	return NewSyncer(store.New(c.s3Client, c.cfg.Bucket), c.cfg)
}

// defaultConfig returns the baseline client configuration.
func defaultConfig() *synctypes.ClientConfig {
	return &synctypes.ClientConfig{
		Secure:  true,
		Headers: map[string]string{},
	}
}

// resolveEndpoint builds the base endpoint URL from the configured
// endpoint, TLS flag, and internal-network flag. An empty endpoint means
// the SDK's default resolution applies.
func resolveEndpoint(cfg *synctypes.ClientConfig) string {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		return ""
	}

	scheme := "https"
	if !cfg.Secure {
		scheme = "http"
	}
	if i := strings.Index(endpoint, "://"); i >= 0 {
		scheme = endpoint[:i]
		endpoint = endpoint[i+3:]
	}

	// In-network variants of S3-compatible providers address the same
	// host with an "-internal" suffix on the first label.
	if cfg.Internal {
		if i := strings.Index(endpoint, "."); i >= 0 {
			endpoint = endpoint[:i] + "-internal" + endpoint[i:]
		} else {
			endpoint += "-internal"
		}
	}

	return scheme + "://" + endpoint
}
