package overload

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCacheSize bounds the number of memoised signatures
const DefaultCacheSize = 4096

type cacheEntry struct {
	impl  Impl
	found bool
}

// Cache memoises overload resolution by call signature, including
// signatures with no implementation. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	hits    prometheus.Counter
	misses  prometheus.Counter
}

// NewCache creates a cache of at most size signatures. Hit and miss
// counters are registered with reg when it is not nil.
func NewCache(size int, reg prometheus.Registerer) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		entries: entries,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sparqlexpr",
			Subsystem: "overload",
			Name:      "cache_hits_total",
			Help:      "Overload resolutions served from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sparqlexpr",
			Subsystem: "overload",
			Name:      "cache_misses_total",
			Help:      "Overload resolutions that searched the overload tree.",
		}),
	}
	if reg != nil {
		for _, collector := range []prometheus.Collector{c.hits, c.misses} {
			if err := reg.Register(collector); err != nil {
				if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
					if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
						if collector == c.hits {
							c.hits = existing
						} else {
							c.misses = existing
						}
						continue
					}
				}
				return nil, err
			}
		}
	}
	return c, nil
}

// Get returns the memoised resolution; ok is false when sig was never seen
func (c *Cache) Get(sig string) (impl Impl, found bool, ok bool) {
	e, ok := c.entries.Get(sig)
	if !ok {
		c.misses.Inc()
		return nil, false, false
	}
	c.hits.Inc()
	return e.impl, e.found, true
}

// Add memoises a resolution; found is false for the no-match sentinel
func (c *Cache) Add(sig string, impl Impl, found bool) {
	c.entries.Add(sig, cacheEntry{impl: impl, found: found})
}

// Len returns the number of memoised signatures
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops all memoised resolutions
func (c *Cache) Purge() {
	c.entries.Purge()
}
