package templates

import "sync"

// Cache maps template names to parsed roots for the duration of one build.
// A nil root is stored for templates that are missing or empty, so they are
// not read again.
type Cache struct {
	mu    sync.RWMutex
	roots map[string]*Node
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{roots: make(map[string]*Node)}
}

// Get returns the cached root for name and whether name has been parsed.
func (c *Cache) Get(name string) (*Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	root, ok := c.roots[name]
	return root, ok
}

// Put registers root under name, replacing any previous entry.
func (c *Cache) Put(name string, root *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roots[name] = root
}

// Len reports the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roots)
}
