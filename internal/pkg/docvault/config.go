package docvault

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/immofund/ImmoFund/internal/pkg/env"
)

// Config holds S3 document vault configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads vault configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("DOCUMENT_VAULT_ENABLED", "false") == "true",
	}

	// Validate required fields if the vault is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the document vault is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the document vault is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the document vault is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if the document vault is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// GetObjectKey generates a standardized S3 object key for a project document
func (c *Config) GetObjectKey(projectUUID, documentUUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	// Format: documents/<project-uuid>/<document-uuid>.ext
	return fmt.Sprintf("documents/%s/%s%s", projectUUID, documentUUID, ext)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}

// GetBucketName returns the bucket name as configured (no automatic prefixing)
func (c *Config) GetBucketName() string {
	return c.BucketName
}
