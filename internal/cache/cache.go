package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache holds computed results for a fixed time, bounded by total cost in bytes.
type Cache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func New(maxCost int64, ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl}, nil
}

func (c *Cache) Get(key string) (any, bool) { return c.c.Get(key) }

// Set stores val with the given cost. Admission is asynchronous; call Wait
// when a following Get must observe the value.
func (c *Cache) Set(key string, val any, cost int64) bool {
	if cost < 1 {
		cost = 1
	}
	return c.c.SetWithTTL(key, val, cost, c.ttl)
}

func (c *Cache) Wait() { c.c.Wait() }

func (c *Cache) Close() { c.c.Close() }

// Key digests parts into a fixed-size cache key. Parts are length-prefixed
// so ("ab", "c") and ("a", "bc") never collide.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
