package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyPrefix constants for different cache types
const (
	PrefixSummary = "summary"
)

// GenerateKey generates a cache key from its parts.
// The key is a SHA256 hash of the parts joined with NUL bytes.
func GenerateKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix string, parts ...string) string {
	return prefix + ":" + GenerateKey(parts...)
}

// SummaryKey generates a cache key for the summary of an archive. The
// tool version is part of the key so upgrades never serve stale summaries.
func SummaryKey(archiveHash, toolVersion string) string {
	return GenerateKeyWithPrefix(PrefixSummary, strings.ToLower(archiveHash), toolVersion)
}
