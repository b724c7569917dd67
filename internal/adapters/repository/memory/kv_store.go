package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cache "github.com/patrickmn/go-cache"
)

// KVStore は go-cache を利用したプロセス内の共有ストアです。
// snapshotPath を指定すると書き込みのたびに全エントリをファイルへ保存し、再起動後も値を復元します。
type KVStore struct {
	entries      *cache.Cache
	snapshotPath string
	fileMu       sync.Mutex
}

// NewKVStore は KVStore を生成します。snapshotPath が空の場合はファイルへ保存しません。
func NewKVStore(snapshotPath string) (*KVStore, error) {
	s := &KVStore{
		entries:      cache.New(cache.NoExpiration, 0),
		snapshotPath: snapshotPath,
	}
	if snapshotPath == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(snapshotPath), 0o755); err != nil {
		return nil, fmt.Errorf("memory: ensure snapshot dir: %w", err)
	}

	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("memory: read snapshot: %w", err)
	}

	var stored map[string][]byte
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("memory: decode snapshot: %w", err)
	}
	for key, value := range stored {
		s.entries.Set(key, value, cache.NoExpiration)
	}
	return s, nil
}

// Put はキーの値を上書きします。
func (s *KVStore) Put(_ context.Context, key string, value []byte) error {
	s.entries.Set(key, cloneBytes(value), cache.NoExpiration)
	return s.flush()
}

// Get はキーの値を取得します。
func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("memory: unexpected value type %T for %s", v, key)
	}
	return cloneBytes(value), true, nil
}

// Remove はキーを削除します。
func (s *KVStore) Remove(_ context.Context, key string) error {
	s.entries.Delete(key)
	return s.flush()
}

// Len は保持しているキーの数を返します。
func (s *KVStore) Len() int {
	return s.entries.ItemCount()
}

func (s *KVStore) flush() error {
	if s.snapshotPath == "" {
		return nil
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	items := s.entries.Items()
	stored := make(map[string][]byte, len(items))
	for key, item := range items {
		if value, ok := item.Object.([]byte); ok {
			stored[key] = value
		}
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("memory: encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.snapshotPath), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("memory: create snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("memory: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("memory: close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.snapshotPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("memory: replace snapshot: %w", err)
	}
	return nil
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
