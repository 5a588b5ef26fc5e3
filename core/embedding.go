package core

import "context"

// EmbeddingSource 是曲目 Embedding 的来源接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（embedding）实现
//   - Embedding 的产生（音频解码、模型推理）在本核心之外；
//     这里只做按 id 查询
//
// 约定：
//   - 曲目没有 embedding 时返回 (nil, nil)，不是错误——
//     信号解析会静默丢弃这类 id
//   - 源不可达时返回 UNAVAILABLE 级错误，调用整体失败
type EmbeddingSource interface {
	// Lookup 查询单个曲目的 embedding。不存在时返回 (nil, nil)。
	Lookup(ctx context.Context, trackID string) ([]float64, error)

	// BatchLookup 批量查询，减少网络往返。结果 map 中不含缺失的 id。
	BatchLookup(ctx context.Context, trackIDs []string) (map[string][]float64, error)
}
