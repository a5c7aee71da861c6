package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Disk is the persistent cache layer. Entries are JSON files under dir,
// sharded by key prefix to keep directories small.
type Disk struct {
	dir string
	ttl time.Duration
}

// NewDisk creates a disk cache rooted at dir with the given default TTL.
func NewDisk(dir string, ttl time.Duration) *Disk {
	return &Disk{dir: dir, ttl: ttl}
}

type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (d *Disk) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if time.Now().After(e.ExpiresAt) {
		_ = os.Remove(d.path(key))
		return nil, false
	}
	return e.Data, true
}

func (d *Disk) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = d.ttl
	}
	data, err := json.Marshal(entry{Data: value, ExpiresAt: time.Now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	path := d.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func (d *Disk) Delete(key string) error {
	return os.Remove(d.path(key))
}

func (d *Disk) Clear() error {
	return os.RemoveAll(d.dir)
}

// path shards entries into subdirectories by the first byte of the hashed
// portion of the key.
func (d *Disk) path(key string) string {
	name := key
	if idx := strings.LastIndexByte(key, ':'); idx >= 0 {
		name = key[idx+1:]
	}
	shard := "00"
	if len(name) >= 2 {
		shard = name[:2]
	}
	return filepath.Join(d.dir, shard, name+".json")
}
