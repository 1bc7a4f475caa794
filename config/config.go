// Package config loads sync configuration from environment variables and
// optional config files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wrenlabs/bucketsync/synctypes"
)

// Config holds the sync session configuration aggregated from env/config files.
type Config struct {
	Credentials struct {
		AccessKeyID     string
		SecretAccessKey string
		SessionToken    string
	}
	Bucket struct {
		Name     string
		Region   string
		Endpoint string
		Internal bool
	}
	Transport struct {
		DisableSSL     bool
		ForcePathStyle bool
		Timeout        time.Duration
	}
	Sync struct {
		UploadWait time.Duration
		DeleteWait time.Duration
	}
	Headers map[string]string
}

// Load reads configuration from environment variables and an optional
// config file in the working directory. Environment variables use the
// BUCKETSYNC prefix with underscores, e.g. BUCKETSYNC_BUCKET_NAME.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("BUCKETSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("credentials.accesskeyid", "")
	v.SetDefault("credentials.secretaccesskey", "")
	v.SetDefault("credentials.sessiontoken", "")
	v.SetDefault("bucket.name", "")
	v.SetDefault("bucket.region", "")
	v.SetDefault("bucket.endpoint", "")
	v.SetDefault("bucket.internal", false)
	v.SetDefault("transport.disablessl", false)
	v.SetDefault("transport.forcepathstyle", false)
	v.SetDefault("transport.timeout", time.Duration(0))
	v.SetDefault("sync.uploadwait", time.Duration(0))
	v.SetDefault("sync.deletewait", time.Duration(0))
	v.SetDefault("headers", map[string]string{})

	v.SetConfigName("bucketsync")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Options converts the loaded configuration into client options.
func (c Config) Options() []synctypes.Option {
	opts := []synctypes.Option{
		func(cc *synctypes.ClientConfig) {
			cc.AccessKeyID = c.Credentials.AccessKeyID
			cc.SecretAccessKey = c.Credentials.SecretAccessKey
			cc.SessionToken = c.Credentials.SessionToken
			cc.Bucket = c.Bucket.Name
			cc.Region = c.Bucket.Region
			cc.Endpoint = c.Bucket.Endpoint
			cc.Internal = c.Bucket.Internal
			cc.Secure = !c.Transport.DisableSSL
			cc.ForcePathStyle = c.Transport.ForcePathStyle
			cc.Timeout = c.Transport.Timeout
			cc.WaitBeforeUpload = c.Sync.UploadWait
			cc.WaitBeforeDelete = c.Sync.DeleteWait
		},
	}

	if len(c.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			headers[strings.ToLower(k)] = v
		}
		opts = append(opts, func(cc *synctypes.ClientConfig) {
			if cc.Headers == nil {
				cc.Headers = make(map[string]string)
			}
			for k, v := range headers {
				cc.Headers[k] = v
			}
		})
	}

	return opts
}

// loadDotEnv exports KEY=VALUE pairs from a .env file in the working
// directory, when one exists. Already-set variables are not overridden.
func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.Trim(strings.TrimSpace(line[idx+1:]), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}
