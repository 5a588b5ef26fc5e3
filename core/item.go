package core

import "github.com/tunelab/tunekit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选曲目在各阶段累积的分数与标注。
// Distance 来自向量库检索；Similarity/NegSimilarity 由 rank 阶段换算；
// Score 是排序依据的最终分数；Track 由 catalog enrich 阶段补充。
type Item struct {
	ID            string
	Distance      float64 // 向量库返回的原始距离（度量的原生约定）
	Similarity    float64 // 与正向质心的相似度，[0,1]
	NegSimilarity float64 // 与负向质心的相似度，无负向质心时为 0
	Score         float64 // 最终分数 = Similarity - dislikeWeight × NegSimilarity
	Track         *Track  // 曲目元数据，enrich 之前为 nil
	Labels        map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
