package types

import (
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// DefaultCacheSize bounds the open-world dict cache of a lattice
const DefaultCacheSize = 1024

// LRUCache is an in-memory, size-bounded Cache
type LRUCache struct {
	entries *lru.Cache[string, *Dict]
}

// NewLRUCache creates an LRU cache holding at most size dicts
func NewLRUCache(size int) *LRUCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, _ := lru.New[string, *Dict](size)
	return &LRUCache{entries: entries}
}

func (c *LRUCache) Get(datatype string) (*Dict, bool) {
	return c.entries.Get(datatype)
}

func (c *LRUCache) Add(datatype string, d *Dict) {
	c.entries.Add(datatype, d)
}

// Len returns the number of cached dicts
func (c *LRUCache) Len() int {
	return c.entries.Len()
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
