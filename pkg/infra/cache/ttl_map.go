package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLMap is a thread-safe map whose entries expire TTL after being set.
// Expired entries are removed lazily on read and when the map is full.
type TTLMap[V any] struct {
	mu      sync.RWMutex
	data    map[string]ttlEntry[V]
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewTTLMap creates a map holding at most maxSize entries; 0 means unbounded.
func NewTTLMap[V any](ttl time.Duration, maxSize int) *TTLMap[V] {
	return &TTLMap[V]{
		data:    make(map[string]ttlEntry[V]),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (m *TTLMap[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()
	var zero V
	if !exists {
		return zero, false
	}

	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.data[key]; ok && m.now().After(current.expiresAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return zero, false
	}
	return entry.value, true
}

func (m *TTLMap[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && m.maxSize > 0 && len(m.data) >= m.maxSize {
		m.evictLocked()
	}
	m.data[key] = ttlEntry[V]{
		value:     value,
		expiresAt: m.now().Add(m.ttl),
	}
}

// evictLocked drops expired entries, or the entry closest to expiry when
// none has expired.
func (m *TTLMap[V]) evictLocked() {
	now := m.now()
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, entry := range m.data {
		if now.After(entry.expiresAt) {
			delete(m.data, key)
			continue
		}
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	if len(m.data) >= m.maxSize && oldestKey != "" {
		delete(m.data, oldestKey)
	}
}

func (m *TTLMap[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *TTLMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *TTLMap[V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]ttlEntry[V])
}
