// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Storage  StorageConfig  `toml:"storage"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Chapter   *int    `toml:"chapter"`
	Filter    *string `toml:"filter"`
	Mode      *string `toml:"mode"`
	Direction *string `toml:"direction"`
	Corpus    *string `toml:"corpus"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	Driver      *string `toml:"driver"`
	Path        *string `toml:"path"`
	Key         *string `toml:"key"`
	S3Bucket    *string `toml:"s3-bucket"`
	S3Region    *string `toml:"s3-region"`
	S3Endpoint  *string `toml:"s3-endpoint"`
	S3PathStyle *bool   `toml:"s3-path-style"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
