package cache

import (
	"context"
	"sync"
)

// Memory is a minimal in-process key-value cache. The creation pipeline only
// removes keys; reads are left to the listing side.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]any
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]any)}
}

func (c *Memory) Set(ctx context.Context, key string, value any) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *Memory) Get(ctx context.Context, key string) (any, bool) {
	_ = ctx
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Remove deletes the key. Removing an absent key is not an error.
func (c *Memory) Remove(ctx context.Context, key string) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
