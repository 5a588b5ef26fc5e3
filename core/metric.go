package core

import (
	"math"

	"github.com/tunelab/tunekit/pkg/vectormath"
)

// Metric 是距离度量的封闭枚举，同时携带两类行为：
//   - StoreOperator：向量库查询时使用的度量算子
//   - SimilarityFromDistance / Similarity：距离（或内积）到 [0,1] 相似度分数的换算
//
// 一次排序调用内只解析一次 Metric，之后显式透传，避免在各调用点
// 反复用字符串比较分发（那是旧实现的问题来源）。
type Metric string

const (
	// MetricCosine 余弦距离。向量库返回 1 - cos(a,b)。
	MetricCosine Metric = "cosine"
	// MetricEuclidean 欧氏距离（L2）。
	MetricEuclidean Metric = "euclidean"
	// MetricDot 内积。向量库按内积取负作为距离返回（内积越大越相似）。
	MetricDot Metric = "dot"
)

// ParseMetric 解析度量名称。
// 空字符串使用 def；未知名称返回 INVALID_INPUT 错误，绝不静默回退到默认值。
func ParseMetric(name string, def Metric) (Metric, error) {
	if name == "" {
		return def, nil
	}
	switch Metric(name) {
	case MetricCosine, MetricEuclidean, MetricDot:
		return Metric(name), nil
	default:
		return "", NewDomainError(ModuleVector, ErrorCodeInvalidInput, "unknown metric: "+name)
	}
}

// Valid 报告 m 是否为受支持的度量。
func (m Metric) Valid() bool {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDot:
		return true
	}
	return false
}

// StoreOperator 返回向量库侧的度量算子名（Milvus 等常见约定）。
func (m Metric) StoreOperator() string {
	switch m {
	case MetricEuclidean:
		return "L2"
	case MetricDot:
		return "IP"
	default:
		return "COSINE"
	}
}

// SimilarityFromDistance 将向量库返回的原始距离换算为相似度分数。
//   - cosine: 1 - distance
//   - euclidean: 1 / (1 + distance)
//   - dot: 1 / (1 + |distance|)，距离约定为内积取负
func (m Metric) SimilarityFromDistance(distance float64) float64 {
	switch m {
	case MetricEuclidean:
		return 1.0 / (1.0 + distance)
	case MetricDot:
		return 1.0 / (1.0 + math.Abs(distance))
	default:
		return 1.0 - distance
	}
}

// Similarity 直接从两个向量计算相似度分数。
//   - cosine: (cos(a,b) + 1) / 2，把自然区间 [-1,1] 映射到 [0,1]；零向量返回 0
//   - euclidean: 1 - min(distance/2, 1)。2 是单位向量间的最大距离；
//     该式假设 embedding 已单位归一化，未归一化时仅保证钳制在 [0,1]
//   - dot: max(0, a·b)
func (m Metric) Similarity(a, b []float64) float64 {
	switch m {
	case MetricEuclidean:
		d := vectormath.EuclideanDistance(a, b)
		s := 1.0 - math.Min(d/2.0, 1.0)
		return s
	case MetricDot:
		return math.Max(0, vectormath.Dot(a, b))
	default:
		cos, ok := vectormath.CosineSimilarity(a, b)
		if !ok {
			return 0
		}
		return (cos + 1.0) / 2.0
	}
}
