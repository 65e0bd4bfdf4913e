package domain

import (
	"context"
	"time"
)

// Cache defines the interface for summary caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// WheelBuilder builds Python wheels from the project directories of a package
type WheelBuilder interface {
	// Build builds the project in srcDir and writes wheels into outDir
	Build(ctx context.Context, srcDir, outDir string) error
}

// MarkdownRenderer renders markdown text to an HTML fragment
type MarkdownRenderer interface {
	Render(source []byte) (string, error)
}
