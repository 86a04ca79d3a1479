// Package cache holds analyzed datasets for the lifetime of a session. It is
// deliberately transient: entries expire on a TTL and nothing is persisted.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a dataset stays resident after its last touch.
const DefaultTTL = 30 * time.Minute

// Key is the content hash of an uploaded file. Identical bytes always map to
// the same key, so re-uploads hit the cache.
type Key string

// KeyFor hashes raw input bytes into a cache key.
func KeyFor(data []byte) Key {
	sum := blake2b.Sum256(data)
	return Key(hex.EncodeToString(sum[:]))
}

// Entry is one cached dataset with its derived artifacts.
type Entry struct {
	Key       Key
	Filename  string
	Raw       []byte
	Value     interface{}
	CreatedAt time.Time
	lastTouch time.Time
}

// Store is an in-memory TTL cache. Concurrent loads of the same key collapse
// into a single computation via singleflight.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*Entry
	ttl     time.Duration
	logger  *slog.Logger
	group   singleflight.Group
	stop    chan struct{}
	once    sync.Once
}

// NewStore creates a Store and starts its eviction loop. A nil logger falls
// back to slog.Default; a zero ttl uses DefaultTTL.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		entries: make(map[Key]*Entry),
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "cache")),
		stop:    make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Close stops the eviction loop.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// Put stores a dataset under its content key.
func (s *Store) Put(key Key, filename string, raw []byte, value interface{}) {
	now := time.Now()
	s.mu.Lock()
	s.entries[key] = &Entry{
		Key:       key,
		Filename:  filename,
		Raw:       raw,
		Value:     value,
		CreatedAt: now,
		lastTouch: now,
	}
	s.mu.Unlock()
}

// Get returns the entry for a key, refreshing its TTL.
func (s *Store) Get(key Key) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	entry.lastTouch = time.Now()
	return entry, true
}

// GetOrCompute returns the cached entry for the key, or runs compute exactly
// once even under concurrent callers and caches the result.
func (s *Store) GetOrCompute(ctx context.Context, key Key, filename string, raw []byte, compute func(context.Context) (interface{}, error)) (*Entry, error) {
	if entry, ok := s.Get(key); ok {
		return entry, nil
	}
	_, err, _ := s.group.Do(string(key), func() (interface{}, error) {
		if _, ok := s.Get(key); ok {
			return nil, nil
		}
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, filename, raw, value)
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("compute failed for %s: %w", key, err)
	}
	entry, ok := s.Get(key)
	if !ok {
		return nil, fmt.Errorf("entry %s evicted during compute", key)
	}
	return entry, nil
}

// Len returns the resident entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) evictLoop() {
	ticker := time.NewTicker(s.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if entry.lastTouch.Before(cutoff) {
			delete(s.entries, key)
			s.logger.Debug("dataset evicted",
				slog.String("key", string(key)),
				slog.String("filename", entry.Filename))
		}
	}
}
