package timeline

import "sync"

// effectsCache memoizes active-effect lookups keyed by the timestamp's
// exact bit pattern: two distinct floats never share an entry, so a hit
// is always the answer a recompute would give. It is purely an
// optimization: a miss recomputes from the project and must produce the
// identical slice. Entries are evicted oldest-first once the cap is
// reached so scrubbing cannot grow it without bound. Guarded by a
// mutex: export workers query concurrently.
type effectsCache struct {
	mu   sync.Mutex
	cap  int
	keys []uint64
	vals map[uint64][]*Effect
}

func newEffectsCache(capacity int) *effectsCache {
	if capacity <= 0 {
		capacity = 256
	}
	return &effectsCache{
		cap:  capacity,
		vals: make(map[uint64][]*Effect, capacity),
	}
}

func (c *effectsCache) get(key uint64) ([]*Effect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[key]
	return v, ok
}

func (c *effectsCache) put(key uint64, v []*Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.vals[key]; exists {
		c.vals[key] = v
		return
	}
	if len(c.keys) >= c.cap {
		oldest := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.vals, oldest)
	}
	c.keys = append(c.keys, key)
	c.vals[key] = v
}

func (c *effectsCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = c.keys[:0]
	c.vals = make(map[uint64][]*Effect, c.cap)
}
