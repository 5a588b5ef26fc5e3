// Package vectormath 提供 Embedding 向量的基础运算：点积、范数、距离、加权质心。
// 所有函数都是纯函数，不持有状态，可安全并发调用。
package vectormath

import (
	"fmt"
	"math"
)

// Dot 计算两个向量的点积。
// 维度不一致或为空时返回 0。
func Dot(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm 计算向量的 L2 范数。
func Norm(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// EuclideanDistance 计算两个向量的欧氏距离。
// 维度不一致时返回 math.MaxFloat64。
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// CosineSimilarity 计算两个向量的余弦相似度，取值 [-1, 1]。
// 任一向量为零向量、为空或维度不一致时返回 (0, false)。
func CosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// Centroid 计算一组向量的加权均值：Σ(vec_i × w_i) / Σ(w_i)。
// 加权求和满足交换律，输入顺序不影响结果。
//
// 约束：
//   - vecs 非空，且与 weights 等长
//   - 所有向量维度一致
//   - 所有权重 > 0
//
// 空输入代表"质心不存在"，应由调用方短路处理，而不是调用本函数。
func Centroid(vecs [][]float64, weights []float64) ([]float64, error) {
	if len(vecs) == 0 {
		return nil, fmt.Errorf("vectormath: centroid of empty vector set is undefined")
	}
	if len(vecs) != len(weights) {
		return nil, fmt.Errorf("vectormath: vectors and weights length mismatch: %d != %d", len(vecs), len(weights))
	}

	dim := len(vecs[0])
	sum := make([]float64, dim)
	var totalWeight float64

	for i, vec := range vecs {
		if len(vec) != dim {
			return nil, fmt.Errorf("vectormath: vector dimension mismatch: %d != %d", len(vec), dim)
		}
		w := weights[i]
		if w <= 0 {
			return nil, fmt.Errorf("vectormath: weight must be positive, got %f", w)
		}
		for d, v := range vec {
			sum[d] += v * w
		}
		totalWeight += w
	}

	for d := range sum {
		sum[d] /= totalWeight
	}
	return sum, nil
}
