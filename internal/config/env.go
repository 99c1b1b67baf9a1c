package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted for storage settings not set in the config file.
const (
	EnvStorageDriver = "VOCABOX_STORAGE_DRIVER"
	EnvS3Bucket      = "VOCABOX_S3_BUCKET"
	EnvS3Region      = "VOCABOX_S3_REGION"
	EnvS3Endpoint    = "VOCABOX_S3_ENDPOINT"
	EnvS3PathStyle   = "VOCABOX_S3_PATH_STYLE"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyStorageEnv fills storage fields left unset by the config file.
func ApplyStorageEnv(cfg *StorageConfig) {
	setFromEnv(&cfg.Driver, EnvStorageDriver)
	setFromEnv(&cfg.S3Bucket, EnvS3Bucket)
	setFromEnv(&cfg.S3Region, EnvS3Region)
	setFromEnv(&cfg.S3Endpoint, EnvS3Endpoint)
	if cfg.S3PathStyle == nil {
		if v, ok := os.LookupEnv(EnvS3PathStyle); ok {
			b := strings.EqualFold(strings.TrimSpace(v), "true")
			cfg.S3PathStyle = &b
		}
	}
}

func setFromEnv(target **string, name string) {
	if *target != nil {
		return
	}
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return
	}
	*target = &v
}
