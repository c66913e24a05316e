package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// snapshotFile is the on-disk shape of a persisted snapshot.
type snapshotFile[T any] struct {
	Items []T `json:"items"`
}

// primeFromDisk seeds the snapshot from the persisted copy so the first
// queries after startup have something to show. The primed snapshot keeps
// a zero lastRefreshed: it is always considered stale, so the first Get
// still refreshes from the provider.
func (c *Cache[T]) primeFromDisk() {
	data, err := os.ReadFile(c.persist)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Debugf("%s: read persisted snapshot: %v", c.name, err)
		}
		return
	}

	var f snapshotFile[T]
	if err := json.Unmarshal(data, &f); err != nil {
		// Corrupted: ignore, the next refresh overwrites it.
		c.logger.Debugf("%s: discarding corrupted snapshot file: %v", c.name, err)
		return
	}

	c.mu.Lock()
	if c.snapshot == nil {
		c.snapshot = f.Items
	}
	c.mu.Unlock()
}

// persistToDisk mirrors a successful snapshot to disk atomically
// (temp file + rename). Best effort: failures are logged, never surfaced.
func (c *Cache[T]) persistToDisk(items []T) {
	if err := os.MkdirAll(filepath.Dir(c.persist), 0o755); err != nil {
		c.logger.Debugf("%s: persist snapshot: %v", c.name, err)
		return
	}

	data, err := json.MarshalIndent(snapshotFile[T]{Items: items}, "", "  ")
	if err != nil {
		c.logger.Debugf("%s: persist snapshot: %v", c.name, err)
		return
	}

	tmp := c.persist + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		c.logger.Debugf("%s: persist snapshot: %v", c.name, err)
		return
	}
	if err := os.Rename(tmp, c.persist); err != nil {
		_ = os.Remove(tmp)
		c.logger.Debugf("%s: persist snapshot: %v", c.name, err)
	}
}
