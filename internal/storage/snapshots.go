// Package storage keeps exported agent snapshots in object storage.
package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// LinkExpiry is how long a snapshot download link stays valid.
const LinkExpiry = 15 * time.Minute

type Snapshots interface {
	PutSnapshot(ctx context.Context, key string, data []byte) error
	DownloadLink(ctx context.Context, key string, expires time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// SnapshotPrefix is the key prefix of every snapshot of agent id.
func SnapshotPrefix(id int64) string {
	return fmt.Sprintf("agents/%d/", id)
}

// SnapshotKey names the snapshot of agent id taken at t. Keys of one agent
// sort chronologically.
func SnapshotKey(id int64, t time.Time) string {
	return SnapshotPrefix(id) + t.UTC().Format("20060102T150405Z") + ".json"
}

// Memory keeps snapshots in process memory. Links use the memory:// scheme
// and are not downloadable.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}}
}

func (m *Memory) PutSnapshot(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = slices.Clone(data)
	return nil
}

func (m *Memory) DownloadLink(_ context.Context, key string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[key]; !ok {
		return "", fmt.Errorf("snapshot %s not found", key)
	}
	return "memory://" + key, nil
}

func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.files {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Get returns a stored snapshot.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[key]
	return slices.Clone(data), ok
}
