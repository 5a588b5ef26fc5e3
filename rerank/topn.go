package rerank

import (
	"context"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pipeline"
)

// TopN 是截断节点：保留排序后的前 N 个候选。
// 多样性过滤关闭时，它就是链路的最后一步（结果 = 前 limit 个候选）；
// 多样性过滤开启时由 Diversity 的 Target 完成截断，不再需要本节点。
type TopN struct {
	// N 要保留的条数。N <= 0 时不截断。
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
