// Package embedding 提供 core.EmbeddingSource 的实现：内存版（测试/原型）
// 和通用 Store 背书版（redis 等）。Embedding 的产生在本核心之外，
// 这里只负责按曲目 id 存取。
package embedding

import (
	"context"
	"sync"
)

// Memory 是内存实现的 EmbeddingSource，用于测试/开发/原型。
type Memory struct {
	mu      sync.RWMutex
	vectors map[string][]float64
}

func NewMemory() *Memory {
	return &Memory{vectors: make(map[string][]float64)}
}

// Set 写入一条 embedding。
func (m *Memory) Set(trackID string, vec []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[trackID] = vec
}

// Lookup 实现 core.EmbeddingSource 接口。不存在时返回 (nil, nil)。
func (m *Memory) Lookup(_ context.Context, trackID string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vec, ok := m.vectors[trackID]
	if !ok {
		return nil, nil
	}
	return vec, nil
}

// BatchLookup 实现 core.EmbeddingSource 接口。
func (m *Memory) BatchLookup(_ context.Context, trackIDs []string) (map[string][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]float64, len(trackIDs))
	for _, id := range trackIDs {
		if vec, ok := m.vectors[id]; ok {
			out[id] = vec
		}
	}
	return out, nil
}
