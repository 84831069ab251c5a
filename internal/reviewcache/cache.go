// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package reviewcache implements GitAI's Review Cache (C7): a
// content-addressed disk store of review payloads with a bounded
// in-process LRU mirror and TTL-based lazy eviction.
package reviewcache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key is a hex-encoded SHA-256 digest identifying one cached review.
type Key string

// DeriveKey hashes the normalized diff text, the review options that
// affect output, and the prompt-template version into one content
// address, per spec.md §3's Review Cache Entry.
func DeriveKey(diff string, treeSitter, security, deviation bool, language, templateVersion string) Key {
	normalized := strings.TrimRight(strings.ReplaceAll(diff, "\r\n", "\n"), "\n")
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%v\x00%v\x00%v\x00%s\x00%s", normalized, treeSitter, security, deviation, language, templateVersion)
	return Key(hex.EncodeToString(h.Sum(nil)))
}

// Entry is one persisted review payload.
type Entry struct {
	Key        Key
	Language   string
	CreatedAt  time.Time
	TTLSeconds int64
	Payload    string
}

type meta struct {
	Language   string    `json:"language_tag"`
	CreatedAt  time.Time `json:"created_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

func (e Entry) expired(now time.Time) bool {
	if e.TTLSeconds <= 0 {
		return false
	}
	return now.After(e.CreatedAt.Add(time.Duration(e.TTLSeconds) * time.Second))
}

// Cache is C7's disk store plus its in-process LRU mirror. Writes to the
// same key are serialized via singleflight so concurrent cache-miss
// reviews for an identical diff don't race each other onto disk.
type Cache struct {
	root       string
	ttlSeconds int64

	mu       sync.Mutex
	lru      *list.List
	index    map[Key]*list.Element
	capacity int

	group singleflight.Group

	Hits, Misses int64
}

type lruEntry struct {
	key   Key
	entry Entry
}

// New constructs a Cache rooted at <root>/reviews, with a bounded LRU
// mirror of the given capacity and a default TTL for new entries.
func New(root string, capacity int, defaultTTLSeconds int64) *Cache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Cache{
		root:       filepath.Join(root, "reviews"),
		ttlSeconds: defaultTTLSeconds,
		lru:        list.New(),
		index:      make(map[Key]*list.Element),
		capacity:   capacity,
	}
}

// Get returns a cached entry, or (Entry{}, false) on miss or stale
// expiry. A stale disk entry is lazily removed on access.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	if el, ok := c.index[key]; ok {
		e := el.Value.(*lruEntry).entry
		if e.expired(time.Now()) {
			c.removeLocked(key)
			c.mu.Unlock()
			c.removeDisk(key)
			c.Misses++
			return Entry{}, false
		}
		c.lru.MoveToFront(el)
		c.mu.Unlock()
		c.Hits++
		return e, true
	}
	c.mu.Unlock()

	e, err := c.readDisk(key)
	if err != nil {
		c.Misses++
		return Entry{}, false
	}
	if e.expired(time.Now()) {
		c.removeDisk(key)
		c.Misses++
		return Entry{}, false
	}
	c.promote(key, e)
	c.Hits++
	return e, true
}

// Put persists a review payload under key, evicting the LRU tail if the
// in-process mirror is at capacity. Concurrent Put calls for the same key
// are serialized via singleflight so only one write reaches disk.
func (c *Cache) Put(key Key, language, payload string) error {
	_, err, _ := c.group.Do(string(key), func() (any, error) {
		e := Entry{
			Key: key, Language: language, CreatedAt: time.Now(),
			TTLSeconds: c.ttlSeconds, Payload: payload,
		}
		if err := c.writeDisk(e); err != nil {
			return nil, err
		}
		c.promote(key, e)
		return nil, nil
	})
	return err
}

func (c *Cache) promote(key Key, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*lruEntry).entry = e
		c.lru.MoveToFront(el)
		return
	}
	el := c.lru.PushFront(&lruEntry{key: key, entry: e})
	c.index[key] = el
	if c.lru.Len() > c.capacity {
		tail := c.lru.Back()
		if tail != nil {
			c.removeLocked(tail.Value.(*lruEntry).key)
		}
	}
}

func (c *Cache) removeLocked(key Key) {
	if el, ok := c.index[key]; ok {
		c.lru.Remove(el)
		delete(c.index, key)
	}
}

func (c *Cache) shardPath(key Key) (dir, payloadPath, metaPath string) {
	k := string(key)
	shard := k
	if len(k) >= 2 {
		shard = k[:2]
	}
	dir = filepath.Join(c.root, shard)
	payloadPath = filepath.Join(dir, k+".md")
	metaPath = filepath.Join(dir, k+".meta.json")
	return
}

func (c *Cache) readDisk(key Key) (Entry, error) {
	_, payloadPath, metaPath := c.shardPath(key)

	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return Entry{}, err
	}
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return Entry{}, err
	}
	var m meta
	if err := json.Unmarshal(metaBytes, &m); err != nil {
		return Entry{}, err
	}
	return Entry{
		Key: key, Language: m.Language, CreatedAt: m.CreatedAt,
		TTLSeconds: m.TTLSeconds, Payload: string(payload),
	}, nil
}

func (c *Cache) writeDisk(e Entry) error {
	dir, payloadPath, metaPath := c.shardPath(e.Key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	if err := os.WriteFile(payloadPath, []byte(e.Payload), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", payloadPath, err)
	}
	m := meta{Language: e.Language, CreatedAt: e.CreatedAt, TTLSeconds: e.TTLSeconds}
	metaBytes, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", metaPath, err)
	}
	return nil
}

func (c *Cache) removeDisk(key Key) {
	_, payloadPath, metaPath := c.shardPath(key)
	os.Remove(payloadPath)
	os.Remove(metaPath)
}
