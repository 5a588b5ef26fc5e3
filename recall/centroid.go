// Package recall 提供候选召回节点：按信号质心对向量库做排除感知的
// 近邻检索。
package recall

import (
	"context"
	"fmt"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pipeline"
	"github.com/tunelab/tunekit/pkg/utils"
)

// CentroidRecall 是质心召回节点：以 rctx.Positive 为查询向量，按
// rctx.Metric 检索 rctx.Overfetch 个候选，排除集随请求下发。
//
// 短路条件：正向质心为 nil（信号收集没有解析出任何正向 embedding）
// 时直接返回空候选，链路正常走完并产出空结果，不报错。
type CentroidRecall struct {
	Store core.VectorStore
}

func (n *CentroidRecall) Name() string        { return "recall.centroid" }
func (n *CentroidRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *CentroidRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if rctx.Positive == nil {
		return nil, nil
	}

	req := &core.NearestRequest{
		Vector:  rctx.Positive,
		Metric:  rctx.Metric,
		Exclude: rctx.ExcludeIDs(),
		Limit:   rctx.Overfetch,
	}

	neighbors, err := n.Store.Nearest(ctx, req)
	if err != nil {
		if core.IsDomainError(err) {
			return nil, err
		}
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("nearest query: %v", err))
	}

	out := make([]*core.Item, 0, len(neighbors))
	for _, nb := range neighbors {
		it := core.NewItem(nb.ID)
		it.Distance = nb.Distance
		it.PutLabel("recall_source", utils.Label{Value: "centroid", Source: "recall"})
		it.PutLabel("recall_metric", utils.Label{Value: string(rctx.Metric), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
