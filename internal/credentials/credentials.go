// Package credentials resolves the AWS credentials used by the S3 backend.
package credentials

import (
	"fmt"
	"os"
	"strings"

	appconfig "s3transport/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
)

var keychainLookup = SecretFromKeychain

// Resolve returns static credentials when the configured environment
// variables (or the keychain, for the secret key) provide them. A nil
// provider means the AWS default credential chain applies.
func Resolve(cfg appconfig.CredentialsConfig) (aws.CredentialsProvider, error) {
	accessKey := lookupEnv(cfg.AccessKeyEnv)
	secretKey := lookupEnv(cfg.SecretKeyEnv)

	if secretKey == "" && cfg.KeychainService != "" {
		secret, err := keychainLookup(cfg.KeychainService, cfg.KeychainAccount)
		if err != nil {
			return nil, fmt.Errorf("no %s set and keychain lookup failed: %w", cfg.SecretKeyEnv, err)
		}
		secretKey = secret
	}

	switch {
	case accessKey == "" && secretKey == "":
		return nil, nil
	case accessKey == "":
		return nil, fmt.Errorf("%s is required when a secret key is provided", cfg.AccessKeyEnv)
	case secretKey == "":
		return nil, fmt.Errorf("%s is required when %s is set", cfg.SecretKeyEnv, cfg.AccessKeyEnv)
	}

	return awscredentials.NewStaticCredentialsProvider(accessKey, secretKey, ""), nil
}

func lookupEnv(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}
