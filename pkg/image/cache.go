// Package image turns rendered ring frames into terminal output: Kitty,
// iTerm2 or Sixel escape sequences via go-termimg, or truecolor half-block
// cells when no image protocol is available.
package image

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

// DefaultCacheEntries bounds the frame cache. A countdown only ever shows a
// handful of distinct frames per terminal size.
const DefaultCacheEntries = 64

// CacheKey identifies one encoded frame.
type CacheKey struct {
	Protocol string
	Cols     int
	Rows     int
	Hash     [32]byte
}

// String returns a short key for debug logging.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%dx%d:%x", k.Protocol, k.Cols, k.Rows, k.Hash[:6])
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

type cacheEntry struct {
	key     CacheKey
	encoded string
}

// Cache is an LRU of encoded frames. Bubbletea calls View far more often
// than the ring changes, so most lookups hit.
type Cache struct {
	mu    sync.Mutex
	items map[CacheKey]*list.Element
	order *list.List // front = most recent
	max   int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates a cache holding at most maxEntries frames.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache{
		items: make(map[CacheKey]*list.Element),
		order: list.New(),
		max:   maxEntries,
	}
}

// Get returns the encoded frame for key.
func (c *Cache) Get(key CacheKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*cacheEntry).encoded, true
}

// Put stores an encoded frame, evicting the least recently used one when
// full.
func (c *Cache) Put(key CacheKey, encoded string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).encoded = encoded
		c.order.MoveToFront(elem)
		return
	}
	for c.order.Len() >= c.max {
		back := c.order.Back()
		delete(c.items, c.order.Remove(back).(*cacheEntry).key)
		c.evictions.Add(1)
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, encoded: encoded})
}

// Invalidate drops every entry, e.g. after a theme change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[CacheKey]*list.Element)
	c.order.Init()
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	n := c.order.Len()
	c.mu.Unlock()
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   n,
	}
}

// HashImage hashes the dimensions and every pixel of img.
func HashImage(img image.Image) [32]byte {
	nrgba := ImageToNRGBA(img)
	b := nrgba.Bounds()

	h := sha256.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Dy()))
	h.Write(dims[:])
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := nrgba.PixOffset(b.Min.X, y)
		h.Write(nrgba.Pix[off : off+4*b.Dx()])
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
