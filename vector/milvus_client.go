package vector

import (
	"context"
	"time"
)

// MilvusClient 是 Milvus SDK 客户端的接口抽象。
//
// 这个接口定义了适配器需要的最小操作面，不直接依赖具体 SDK；
// 实际实现通过依赖注入提供，主模块保持零 SDK 依赖。
//
// Search 的返回约定：ids 与 distances 等长，按库侧度量从优到劣排列，
// distance 是该度量的原生距离（COSINE 返回余弦距离，L2 返回欧氏距离，
// IP 返回内积取负）。
type MilvusClient interface {
	// Search 向量搜索。filter 是布尔表达式（排除集编译结果），空串表示无过滤。
	Search(ctx context.Context, collection string, vector []float64, topK int, metricType string, filter string) (ids []string, distances []float64, err error)

	// Close 关闭连接
	Close() error
}

// MilvusClientFactory 是客户端工厂接口（用于延迟建连与依赖注入）。
type MilvusClientFactory interface {
	NewClient(ctx context.Context, address, username, password, database string, timeout time.Duration) (MilvusClient, error)
}
