// Package storage persists the cache document to a local file or an S3 object.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("object not found")

// BlobStore defines the interface for abstract storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Location is a parsed cache location.
type Location struct {
	// Bucket is set for s3:// locations.
	Bucket string
	// Root is the local directory for file locations.
	Root string
	// Key is the object key (S3) or file name relative to Root.
	Key string
}

// IsS3 reports whether the location points at an S3 bucket.
func (l Location) IsS3() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.IsS3() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return filepath.Join(l.Root, l.Key)
}

// ParseLocation accepts a file path or an s3://bucket/key URL.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("empty cache location")
	}

	if strings.HasPrefix(raw, "s3://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Location{}, fmt.Errorf("invalid s3 url: %w", err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
			return Location{}, fmt.Errorf("s3 url %q must name a bucket and an object key", raw)
		}
		return Location{Bucket: u.Host, Key: key}, nil
	}

	clean := filepath.Clean(raw)
	return Location{Root: filepath.Dir(clean), Key: filepath.Base(clean)}, nil
}
