package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pkg/vectormath"
)

// MemoryVectorStore 是内存实现的 VectorStore，用于测试/开发/原型。
// 平替 Milvus 等向量数据库，暴力遍历全部向量。
//
// 距离约定与领域契约一致：
//   - cosine: 1 - cos(a,b)
//   - euclidean: L2 距离
//   - dot: 内积取负（内积越大距离越小）
//
// 线程安全；排除集在遍历时直接生效，被排除的 id 绝不出现在结果里。
type MemoryVectorStore struct {
	mu      sync.RWMutex
	vectors map[string][]float64
}

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{vectors: make(map[string][]float64)}
}

// Add 写入一条向量。
func (m *MemoryVectorStore) Add(trackID string, vec []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[trackID] = vec
}

// Remove 删除一条向量。
func (m *MemoryVectorStore) Remove(trackID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vectors, trackID)
}

// Len 返回向量条数。
func (m *MemoryVectorStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

// Nearest 实现 core.VectorStore 接口。
func (m *MemoryVectorStore) Nearest(_ context.Context, req *core.NearestRequest) ([]core.Neighbor, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "nearest request is nil")
	}
	if !req.Metric.Valid() {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			"unknown metric: "+string(req.Metric))
	}
	if len(req.Vector) == 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "query vector is empty")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	exclude := make(map[string]struct{}, len(req.Exclude))
	for _, id := range req.Exclude {
		exclude[id] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	neighbors := make([]core.Neighbor, 0, len(m.vectors))
	for id, vec := range m.vectors {
		if _, skip := exclude[id]; skip {
			continue
		}
		if len(vec) != len(req.Vector) {
			continue
		}
		neighbors = append(neighbors, core.Neighbor{
			ID:       id,
			Distance: nativeDistance(req.Metric, req.Vector, vec),
		})
	}

	// 原生顺序：距离升序即从优到劣；距离并列按 id 保证确定性
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors, nil
}

func (m *MemoryVectorStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors = make(map[string][]float64)
	return nil
}

func nativeDistance(metric core.Metric, query, vec []float64) float64 {
	switch metric {
	case core.MetricEuclidean:
		return vectormath.EuclideanDistance(query, vec)
	case core.MetricDot:
		return -vectormath.Dot(query, vec)
	default:
		cos, ok := vectormath.CosineSimilarity(query, vec)
		if !ok {
			return 1.0
		}
		return 1.0 - cos
	}
}

// 确保实现了接口
var _ core.VectorStore = (*MemoryVectorStore)(nil)
