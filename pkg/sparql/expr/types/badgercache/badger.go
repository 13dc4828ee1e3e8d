// Package badgercache persists open-world datatype tables in BadgerDB so that
// several evaluator processes can share type discoveries.
package badgercache

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// keyPrefix namespaces cache entries inside a shared database
var keyPrefix = []byte("sparqlexpr/types/")

// Cache implements types.Cache on top of BadgerDB. Reads are served from an
// in-memory LRU front; writes go to both.
type Cache struct {
	db     *badger.DB
	owned  bool
	front  *types.LRUCache
	logger logrus.FieldLogger
}

// Open opens (or creates) a cache database at path
func Open(path string, logger logrus.FieldLogger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	c := New(db, logger)
	c.owned = true
	return c, nil
}

// OpenInMemory opens a non-persistent cache, mainly for tests
func OpenInMemory(logger logrus.FieldLogger) (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger db: %w", err)
	}
	c := New(db, logger)
	c.owned = true
	return c, nil
}

// New wraps an already open database. The caller keeps ownership of db.
func New(db *badger.DB, logger logrus.FieldLogger) *Cache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{
		db:     db,
		front:  types.NewLRUCache(types.DefaultCacheSize),
		logger: logger,
	}
}

func entryKey(datatype string) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(datatype))
	key = append(key, keyPrefix...)
	return append(key, datatype...)
}

// Get returns the dict of datatype, if stored
func (c *Cache) Get(datatype string) (*types.Dict, bool) {
	if d, ok := c.front.Get(datatype); ok {
		return d, true
	}

	var chain []string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(datatype))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &chain)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.WithError(err).WithField("datatype", datatype).Warn("Failed to read type cache entry")
		}
		return nil, false
	}
	if len(chain) == 0 || chain[0] != datatype {
		return nil, false
	}

	d := types.NewDict(chain)
	c.front.Add(datatype, d)
	return d, true
}

// Add stores the dict of datatype. Write failures are logged and dropped;
// the entry is recomputed on the next miss.
func (c *Cache) Add(datatype string, d *types.Dict) {
	c.front.Add(datatype, d)

	value, err := json.Marshal(d.Chain())
	if err != nil {
		c.logger.WithError(err).WithField("datatype", datatype).Warn("Failed to encode type cache entry")
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(datatype), value)
	})
	if err != nil {
		c.logger.WithError(err).WithField("datatype", datatype).Warn("Failed to write type cache entry")
	}
}

// Close closes the database if the cache opened it
func (c *Cache) Close() error {
	if !c.owned {
		return nil
	}
	return c.db.Close()
}
