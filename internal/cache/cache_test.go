package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

const testHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func newMemoryCache(t *testing.T) *BadgerCache {
	t.Helper()
	cache, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

// TestDefaultOptions tests default options
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Empty(t, opts.Directory)
	assert.False(t, opts.InMemory)
	assert.False(t, opts.Logger)
}

// TestGenerateKey tests cache key generation
func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		check func(t *testing.T, key string)
	}{
		{
			name:  "generates consistent keys for same parts",
			parts: []string{"a", "b"},
			check: func(t *testing.T, key string) {
				assert.Equal(t, key, GenerateKey("a", "b"))
			},
		},
		{
			name:  "part boundaries matter",
			parts: []string{"ab", "c"},
			check: func(t *testing.T, key string) {
				assert.NotEqual(t, key, GenerateKey("a", "bc"))
			},
		},
		{
			name:  "key length is 64 characters (SHA256 hex)",
			parts: []string{testHash},
			check: func(t *testing.T, key string) {
				assert.Len(t, key, 64)
			},
		},
		{
			name:  "handles no parts",
			parts: nil,
			check: func(t *testing.T, key string) {
				assert.Len(t, key, 64)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, GenerateKey(tt.parts...))
		})
	}
}

// TestSummaryKey tests summary key generation
func TestSummaryKey(t *testing.T) {
	key := SummaryKey(testHash, "1.0.0")
	assert.Contains(t, key, PrefixSummary+":")
	assert.Len(t, key, len(PrefixSummary)+1+64)

	assert.Equal(t, key, SummaryKey(fmt.Sprintf("%X", []byte{0x9f})+testHash[2:], "1.0.0"),
		"hash case is ignored")
	assert.NotEqual(t, key, SummaryKey(testHash, "1.1.0"),
		"tool version is part of the key")
}

// TestNewBadgerCache tests creating cache
func TestNewBadgerCache(t *testing.T) {
	t.Run("creates in-memory cache", func(t *testing.T) {
		cache, err := NewBadgerCache(Options{InMemory: true})
		require.NoError(t, err)
		assert.NotNil(t, cache)
		assert.NoError(t, cache.Close())
	})

	t.Run("creates file-based cache with temp directory", func(t *testing.T) {
		cache, err := NewBadgerCache(Options{Directory: t.TempDir()})
		require.NoError(t, err)
		assert.NotNil(t, cache)
		assert.NoError(t, cache.Close())
	})

	t.Run("creates file-based cache in default location", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		cache, err := NewBadgerCache(Options{})
		require.NoError(t, err)
		require.NoError(t, cache.Close())

		_, err = os.Stat(filepath.Join(home, filepath.FromSlash(DefaultDirName)))
		assert.NoError(t, err)
	})

	t.Run("second close reports an error", func(t *testing.T) {
		cache, err := NewBadgerCache(Options{InMemory: true})
		require.NoError(t, err)
		require.NoError(t, cache.Close())
		assert.Error(t, cache.Close())
	})
}

// TestBadgerCache_Get tests getting values from cache
func TestBadgerCache_Get(t *testing.T) {
	t.Run("returns cache miss for missing key", func(t *testing.T) {
		cache := newMemoryCache(t)

		value, err := cache.Get(context.Background(), SummaryKey(testHash, "1.0.0"))
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Nil(t, value)
	})

	t.Run("retrieves stored value", func(t *testing.T) {
		cache := newMemoryCache(t)
		ctx := context.Background()
		key := SummaryKey(testHash, "1.0.0")
		value := []byte(`{"uid":"my-package"}`)

		require.NoError(t, cache.Set(ctx, key, value, time.Hour))

		retrieved, err := cache.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, value, retrieved)
	})

	t.Run("honours a canceled context", func(t *testing.T) {
		cache := newMemoryCache(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := cache.Get(ctx, "k")
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, cache.Set(ctx, "k", []byte("v"), 0), context.Canceled)
	})
}

// TestBadgerCache_Set tests setting values in cache
func TestBadgerCache_Set(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "with TTL", ttl: time.Hour},
		{name: "without TTL", ttl: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newMemoryCache(t)
			ctx := context.Background()

			require.NoError(t, cache.Set(ctx, "k", []byte("v"), tt.ttl))
			assert.True(t, cache.Has(ctx, "k"))
		})
	}

	t.Run("overwrites existing value", func(t *testing.T) {
		cache := newMemoryCache(t)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "k", []byte("original"), time.Hour))
		require.NoError(t, cache.Set(ctx, "k", []byte("updated"), time.Hour))

		value, err := cache.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, []byte("updated"), value)
	})
}

// TestBadgerCache_Delete tests deleting keys
func TestBadgerCache_Delete(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))
	assert.NoError(t, cache.Delete(ctx, "k"))
	assert.False(t, cache.Has(ctx, "k"))

	assert.NoError(t, cache.Delete(ctx, "missing"), "deleting a missing key is no error")
}

// TestBadgerCache_ClearAndSize tests clearing and counting entries
func TestBadgerCache_ClearAndSize(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()
	assert.Equal(t, int64(0), cache.Size())

	for i := 0; i < 3; i++ {
		require.NoError(t, cache.Set(ctx, SummaryKey(fmt.Sprint(i), "1.0.0"), []byte("{}"), time.Hour))
	}
	assert.Equal(t, int64(3), cache.Size())

	stats := cache.Stats()
	assert.Contains(t, stats, "lsm_size")
	assert.Contains(t, stats, "vlog_size")
	assert.Equal(t, int64(3), stats["entries"])

	require.NoError(t, cache.Clear())
	assert.Equal(t, int64(0), cache.Size())
}

// TestBadgerCache_ConcurrentAccess tests concurrent access safety
func TestBadgerCache_ConcurrentAccess(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		key := SummaryKey(fmt.Sprint(i), "1.0.0")
		go func() {
			defer wg.Done()
			_ = cache.Set(ctx, key, []byte("{}"), time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(ctx, key)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), cache.Size())
}
