package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendS3    = "s3"
	BackendLocal = "local"

	defaultTransportName    = "S3"
	defaultProbeConcurrency = 8
	defaultRegion           = "eu-west-3"
	defaultBucket           = "speckle-s3-transport"
	defaultRequestTimeout   = 30
	defaultAccessKeyEnv     = "ACCESS_KEY"
	defaultSecretKeyEnv     = "SECRET_KEY"
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
)

type Config struct {
	Backend     string            `toml:"backend"`
	Transport   TransportConfig   `toml:"transport"`
	S3          S3Config          `toml:"s3"`
	Credentials CredentialsConfig `toml:"credentials"`
	Log         LogConfig         `toml:"log"`
}

type TransportConfig struct {
	Name             string `toml:"name"`
	ProbeConcurrency int    `toml:"probe_concurrency"`
}

type S3Config struct {
	Endpoint              string `toml:"endpoint"`
	Region                string `toml:"region"`
	Bucket                string `toml:"bucket"`
	Prefix                string `toml:"prefix"`
	CreateBucket          bool   `toml:"create_bucket"`
	UsePathStyle          bool   `toml:"use_path_style"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type CredentialsConfig struct {
	AccessKeyEnv    string `toml:"access_key_env"`
	SecretKeyEnv    string `toml:"secret_key_env"`
	KeychainService string `toml:"keychain_service"`
	KeychainAccount string `toml:"keychain_account"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendS3,
		Transport: TransportConfig{
			Name:             defaultTransportName,
			ProbeConcurrency: defaultProbeConcurrency,
		},
		S3: S3Config{
			Endpoint:              "",
			Region:                defaultRegion,
			Bucket:                defaultBucket,
			Prefix:                "",
			RequestTimeoutSeconds: defaultRequestTimeout,
		},
		Credentials: CredentialsConfig{
			AccessKeyEnv: defaultAccessKeyEnv,
			SecretKeyEnv: defaultSecretKeyEnv,
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = BackendS3
	}
	if strings.TrimSpace(c.Transport.Name) == "" {
		c.Transport.Name = defaultTransportName
	}
	if c.Transport.ProbeConcurrency == 0 {
		c.Transport.ProbeConcurrency = defaultProbeConcurrency
	}
	if strings.TrimSpace(c.S3.Region) == "" {
		c.S3.Region = defaultRegion
	}
	if strings.TrimSpace(c.S3.Bucket) == "" {
		c.S3.Bucket = defaultBucket
	}
	if c.S3.RequestTimeoutSeconds == 0 {
		c.S3.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if strings.TrimSpace(c.Credentials.AccessKeyEnv) == "" {
		c.Credentials.AccessKeyEnv = defaultAccessKeyEnv
	}
	if strings.TrimSpace(c.Credentials.SecretKeyEnv) == "" {
		c.Credentials.SecretKeyEnv = defaultSecretKeyEnv
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Log.Format) == "" {
		c.Log.Format = defaultLogFormat
	}
}

func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Transport.Name = strings.TrimSpace(c.Transport.Name)
	c.S3.Endpoint = strings.TrimSpace(c.S3.Endpoint)
	c.S3.Region = strings.TrimSpace(c.S3.Region)
	c.S3.Bucket = strings.TrimSpace(c.S3.Bucket)
	c.S3.Prefix = strings.TrimSpace(c.S3.Prefix)
	if c.S3.Prefix != "" && !strings.HasSuffix(c.S3.Prefix, "/") {
		c.S3.Prefix += "/"
	}
	c.Credentials.AccessKeyEnv = strings.TrimSpace(c.Credentials.AccessKeyEnv)
	c.Credentials.SecretKeyEnv = strings.TrimSpace(c.Credentials.SecretKeyEnv)
	c.Credentials.KeychainService = strings.TrimSpace(c.Credentials.KeychainService)
	c.Credentials.KeychainAccount = strings.TrimSpace(c.Credentials.KeychainAccount)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendS3, BackendLocal:
	default:
		return errors.New("backend must be s3 or local")
	}
	if c.Transport.ProbeConcurrency < 0 {
		return errors.New("transport.probe_concurrency must be >= 0")
	}
	if err := ValidateBucketName(c.S3.Bucket); err != nil {
		return fmt.Errorf("s3.bucket: %w", err)
	}
	if c.S3.RequestTimeoutSeconds < 0 {
		return errors.New("s3.request_timeout_seconds must be >= 0")
	}
	if c.Credentials.KeychainService != "" && c.Credentials.KeychainAccount == "" {
		return errors.New("credentials.keychain_account is required when keychain_service is set")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.New("log.level must be debug, info, warn, or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("log.format must be text or json")
	}
	return nil
}

// ValidateBucketName applies the S3 general purpose bucket naming rules.
func ValidateBucketName(name string) error {
	if len(name) < 3 || len(name) > 63 {
		return fmt.Errorf("bucket name %q must be 3-63 characters", name)
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '.':
			if i == 0 || i == len(name)-1 {
				return fmt.Errorf("bucket name %q must start and end with a letter or digit", name)
			}
		default:
			return fmt.Errorf("bucket name %q contains invalid character %q", name, ch)
		}
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("bucket name %q must not contain adjacent periods", name)
	}
	return nil
}
