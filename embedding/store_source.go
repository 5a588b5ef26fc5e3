package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tunelab/tunekit/core"
)

// StoreSource 是通用 Store 背书的 EmbeddingSource：embedding 以 JSON
// float 数组存在 KV 里，key 形如 "emb:<model>:<track_id>"。
// 用 redis 做后端时即是生产形态；用 MemoryStore 即是测试形态。
type StoreSource struct {
	Store core.Store
	Model string // embedding 模型标识，参与 key 前缀
}

func NewStoreSource(store core.Store, model string) *StoreSource {
	return &StoreSource{Store: store, Model: model}
}

func (s *StoreSource) key(trackID string) string {
	return fmt.Sprintf("emb:%s:%s", s.Model, trackID)
}

// Lookup 实现 core.EmbeddingSource 接口。
func (s *StoreSource) Lookup(ctx context.Context, trackID string) ([]float64, error) {
	data, err := s.Store.Get(ctx, s.key(trackID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnavailable,
			fmt.Sprintf("embedding lookup %s: %v", trackID, err))
	}
	return decodeVector(trackID, data)
}

// BatchLookup 实现 core.EmbeddingSource 接口，基于 Store 的 BatchGet。
func (s *StoreSource) BatchLookup(ctx context.Context, trackIDs []string) (map[string][]float64, error) {
	if len(trackIDs) == 0 {
		return map[string][]float64{}, nil
	}

	keys := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		keys[i] = s.key(id)
	}

	values, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnavailable,
			fmt.Sprintf("embedding batch lookup: %v", err))
	}

	out := make(map[string][]float64, len(values))
	for i, id := range trackIDs {
		data, ok := values[keys[i]]
		if !ok {
			continue
		}
		vec, err := decodeVector(id, data)
		if err != nil {
			return nil, err
		}
		out[id] = vec
	}
	return out, nil
}

// Put 写入一条 embedding（索引构建方使用；核心本身只读）。
func (s *StoreSource) Put(ctx context.Context, trackID string, vec []float64) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, s.key(trackID), data)
}

func decodeVector(trackID string, data []byte) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeInternalError,
			fmt.Sprintf("decode embedding %s: %v", trackID, err))
	}
	return vec, nil
}
