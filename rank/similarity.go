// Package rank 提供打分节点：把检索距离换算成相似度分数，叠加负向
// 质心惩罚，并显式排序。
package rank

import (
	"context"
	"sort"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pipeline"
	"github.com/tunelab/tunekit/pkg/utils"
)

// SimilarityRank 是相似度打分节点。
//
// 打分规则：
//   - Similarity = Metric.SimilarityFromDistance(Distance)
//   - 存在负向质心时，再查一次候选 embedding，直接计算与负向质心的
//     相似度：Score = Similarity - DislikeWeight × NegSimilarity
//   - 无负向质心时 Score = Similarity
//
// 排序永远显式执行：cosine/euclidean 的换算是单调的，检索顺序本来
// 就对，但这是实现细节不是契约；dot 或带惩罚时顺序必然变化。
// 并列分数按曲目 id 升序，保证任何输入下输出完全确定。
type SimilarityRank struct {
	Embeddings core.EmbeddingSource
}

func (n *SimilarityRank) Name() string        { return "rank.similarity" }
func (n *SimilarityRank) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SimilarityRank) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		it.Similarity = rctx.Metric.SimilarityFromDistance(it.Distance)
		it.Score = it.Similarity
	}

	if rctx.Negative != nil {
		if err := n.applyNegativePenalty(ctx, rctx, items); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	for _, it := range items {
		it.PutLabel("rank", utils.Label{Value: "similarity", Source: "rank"})
	}
	return items, nil
}

// applyNegativePenalty 对每个候选做第二次 embedding 查询，计算与负向
// 质心的直接相似度并按 DislikeWeight 扣分。查不到 embedding 的候选
// 不受惩罚（NegSimilarity 保持 0）。
func (n *SimilarityRank) applyNegativePenalty(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) error {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	found, err := n.Embeddings.BatchLookup(ctx, ids)
	if err != nil {
		return core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnavailable,
			"negative penalty lookup: "+err.Error())
	}

	for _, it := range items {
		vec, ok := found[it.ID]
		if !ok || len(vec) == 0 {
			continue
		}
		it.NegSimilarity = rctx.Metric.Similarity(vec, rctx.Negative)
		it.Score = it.Similarity - rctx.DislikeWeight*it.NegSimilarity
	}
	return nil
}
