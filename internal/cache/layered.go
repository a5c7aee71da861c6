package cache

import "time"

// Layered reads through memory into disk, promoting disk hits to memory.
type Layered struct {
	memory Store
	disk   Store
}

// NewLayered creates a memory-over-disk cache.
func NewLayered(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *Layered {
	return &Layered{
		memory: NewMemory(memoryTTL, 10*time.Minute),
		disk:   NewDisk(diskDir, diskTTL),
	}
}

func (l *Layered) Get(key string) ([]byte, bool) {
	if val, found := l.memory.Get(key); found {
		return val, true
	}
	if val, found := l.disk.Get(key); found {
		_ = l.memory.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

func (l *Layered) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, value, ttl)
}

func (l *Layered) Delete(key string) error {
	_ = l.memory.Delete(key)
	return l.disk.Delete(key)
}

func (l *Layered) Clear() error {
	_ = l.memory.Clear()
	return l.disk.Clear()
}
