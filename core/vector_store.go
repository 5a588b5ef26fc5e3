package core

import "context"

// VectorStore 是向量近邻检索的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store / vector）实现
//   - 查询以结构化请求表达：排除集和 limit 是请求字段，
//     拼接查询语句（表达式/SQL）的细节全部留在实现侧
//
// 实现：
//   - store.MemoryVectorStore：内存暴力检索，测试/开发用
//   - vector.MilvusStore：Milvus 适配器（客户端以接口注入）
type VectorStore interface {
	// Nearest 检索与查询向量最近的 limit 个曲目，按度量的原生顺序
	// 从优到劣排列，排除集中的 id 绝不出现在结果里。
	// 无候选时返回空切片，不是错误。
	Nearest(ctx context.Context, req *NearestRequest) ([]Neighbor, error)

	// Close 关闭连接/释放资源。
	Close() error
}

// NearestRequest 是一次近邻检索的结构化请求。
type NearestRequest struct {
	// Vector 查询向量（通常是信号质心）。
	Vector []float64

	// Metric 距离度量。实现侧通过 Metric.StoreOperator 取库侧算子。
	Metric Metric

	// Exclude 排除的曲目 id。实际规模是几十到低几百（信号集合大小）。
	Exclude []string

	// Limit 返回条数（overfetch 后的值）。
	Limit int
}

// Neighbor 是检索结果：曲目 id 加该度量下的原始距离。
// 距离约定：cosine 为 1-cos，euclidean 为 L2 距离，dot 为内积取负。
type Neighbor struct {
	ID       string
	Distance float64
}
