// Package cache 按批次缓存译文，重复翻译同一文档时不再请求翻译接口
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache 批次译文缓存
type Cache interface {
	// Get 查找批次的译文，未命中时 ok 为 false
	Get(ctx context.Context, key string) (texts []string, ok bool, err error)
	// Put 保存批次的译文
	Put(ctx context.Context, key string, texts []string) error
	Close() error
}

// Key 由提供商标识（见 providers.Fingerprint）、语言方向与批次段落计算缓存键
func Key(provider, from, to string, segments []string) string {
	h := sha256.New()
	for _, part := range []string{provider, from, to} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	for _, s := range segments {
		h.Write([]byte(s))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Memory 进程内缓存
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]string
}

var _ Cache = (*Memory)(nil)

// NewMemory 创建进程内缓存
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]string)}
}

func (m *Memory) Get(_ context.Context, key string) ([]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	texts, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), texts...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, texts []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]string(nil), texts...)
	return nil
}

// Len 缓存的批次数
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
