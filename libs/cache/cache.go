// Package cache keeps upstream API responses keyed by request, and decides
// whether a stored response is still fresh enough to serve.
package cache

import (
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultMaxAge = 24 * time.Hour

// ErrNotFound is returned by a Store when nothing is stored under a key.
var ErrNotFound = errors.New("cache entry not found")

// ErrInvalidKey is returned by DiskStore for keys that do not name a single
// file inside its directory.
var ErrInvalidKey = errors.New("invalid cache key")

// Store persists raw encoded entries. Implementations do no freshness checks.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
}

// Cache layers the timestamp/freshness policy over a Store. Entries are never
// evicted; stale ones are ignored until the next write overwrites them.
type Cache struct {
	store  Store
	now    func() time.Time
	logger log.FieldLogger
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithLogger(logger log.FieldLogger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		now:    time.Now,
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the stored payload for key if it exists, is well-formed and is
// no older than maxAge. Every other outcome is a miss. A maxAge of 0 only
// accepts entries written at the current instant.
func (c *Cache) Get(key string, maxAge time.Duration) (json.RawMessage, bool) {
	raw, err := c.store.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.WithField("event", "cache_read").WithField("key", key).Warn(err)
		}
		return nil, false
	}

	entry, err := decode(raw)
	if err != nil {
		c.logger.WithField("event", "cache_read").WithField("key", key).Debug(err)
		return nil, false
	}

	age := c.now().Sub(entry.Timestamp)
	if age.Hours() > maxAge.Hours() {
		c.logger.WithField("event", "cache_stale").WithField("key", key).Debugf("entry is %.1fh old", age.Hours())
		return nil, false
	}

	return entry.Data, true
}

// Put overwrites key with data stamped at the current time.
func (c *Cache) Put(key string, data json.RawMessage) error {
	b, err := encode(Entry{Timestamp: c.now(), Data: data})
	if err != nil {
		return err
	}
	return c.store.Write(key, b)
}
