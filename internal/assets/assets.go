// Package assets resolves asset names to byte streams across layered sources
// and caches what it has read.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Source opens named assets. Implementations report a missing asset with an
// error wrapping fs.ErrNotExist.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// AssetUnavailableError reports an asset no source could open.
type AssetUnavailableError struct {
	Name string
	Err  error
}

func (e *AssetUnavailableError) Error() string {
	return fmt.Sprintf("asset %q unavailable: %v", e.Name, e.Err)
}

func (e *AssetUnavailableError) Unwrap() error {
	return e.Err
}

// Manager searches its sources in reverse order (last added = highest
// priority) and caches the bytes of every asset it reads.
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a manager with the given sources, lowest priority first.
func NewManager(sources ...Source) *Manager {
	return &Manager{
		sources: sources,
		cache:   NewCache(),
	}
}

// AddSource adds a source above all existing ones.
func (m *Manager) AddSource(src Source) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()
}

// Open returns a reader over the named asset.
func (m *Manager) Open(name string) (io.ReadCloser, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Load returns the full contents of the named asset. Failures are reported as
// *AssetUnavailableError and are not cached.
func (m *Manager) Load(name string) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var cause error
	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := readAll(m.sources[i], name)
		if err == nil {
			m.cache.Set(name, data)
			logger.Debug("asset loaded", zap.String("name", name), zap.Int("bytes", len(data)))
			return data, nil
		}
		// A real failure outranks "not here" from lower sources.
		if cause == nil || errors.Is(cause, fs.ErrNotExist) && !errors.Is(err, fs.ErrNotExist) {
			cause = err
		}
	}
	if cause == nil {
		cause = fs.ErrNotExist
	}
	return nil, &AssetUnavailableError{Name: name, Err: cause}
}

func readAll(src Source, name string) ([]byte, error) {
	rc, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Close drops all sources and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
