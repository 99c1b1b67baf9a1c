// Package store provides persistence gateways for the review state blob.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/vocabox/internal/model"
)

// DefaultKey names the persisted review state record.
const DefaultKey = "lt_tl_leitner_v1"

// Driver identifies a gateway backend.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverFile   Driver = "file"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

// ErrNotFound is returned by Read when no record has been written.
var ErrNotFound = errors.New("store: record not found")

// Gateway reads, writes and deletes a single opaque record.
type Gateway interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, blob []byte) error
	Delete(ctx context.Context) error
	Close() error
}

// Open selects a gateway from the storage config. Empty driver means sqlite.
func Open(ctx context.Context, cfg model.StorageConfig) (Gateway, error) {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	driver := Driver(strings.ToLower(strings.TrimSpace(cfg.Driver)))
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverSQLite:
		return OpenSQLite(cfg.Path, key)
	case DriverFile:
		return NewFile(cfg.Path)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Key:       key,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
