package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

type envelope struct {
	CapturedAt time.Time       `json:"captured_at"`
	Data       json.RawMessage `json:"data"`
}

// DiskCache persists snapshots as JSON files under a single directory, one
// file per key. There is no locking; concurrent writers to the same key may
// race. Acceptable for a single-process, low-concurrency deployment.
type DiskCache struct {
	dir    string
	logger *logrus.Logger
}

// NewDiskCache creates the cache directory if needed and returns a cache
// rooted there.
func NewDiskCache(dir string, logger *logrus.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir, logger: logger}, nil
}

func (c *DiskCache) Get(key string, v any) (time.Time, bool) {
	b, err := os.ReadFile(c.path(key))
	if err != nil {
		return time.Time{}, false
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding unreadable cache entry")
		return time.Time{}, false
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding unreadable cache entry")
		return time.Time{}, false
	}

	return env.CapturedAt, true
}

func (c *DiskCache) Put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		return
	}

	b, err := json.Marshal(envelope{CapturedAt: time.Now(), Data: data})
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		return
	}

	if err := os.WriteFile(c.path(key), b, 0o644); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
