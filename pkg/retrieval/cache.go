package retrieval

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the LRU capacity used when a config doesn't override
// it.
const DefaultCacheSize = 512

// Fingerprint returns the cache key for a query: a hash of its normalized
// text, language, stage, and sorted filter pairs, so two Query values that
// differ only in map iteration order still collide.
func Fingerprint(q Query) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s", q.Text, q.Language, q.Stage)

	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "\x00%s=%s", k, q.Filters[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

type cacheEntry struct {
	key    string
	result Result
}

// Cache is an LRU of fingerprinted Results guarded by a singleflight group,
// so concurrent identical queries share one backend round trip instead of
// stampeding it.
type Cache struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element
	group singleflight.Group
}

// NewCache creates a Cache with the given capacity (DefaultCacheSize if
// size <= 0).
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		cap:   size,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

func (c *Cache) get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return Result{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

func (c *Cache) put(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&cacheEntry{key: key, result: result})
	c.items[key] = el
	if c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// GetOrLoad returns the cached Result for key if present; otherwise it
// calls load exactly once even under concurrent callers for the same key,
// caches the outcome on success, and returns it.
func (c *Cache) GetOrLoad(key string, load func() (Result, error)) (Result, error) {
	if result, ok := c.get(key); ok {
		return result, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := load()
		if err != nil {
			return Result{}, err
		}
		c.put(key, result)
		return result, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}
