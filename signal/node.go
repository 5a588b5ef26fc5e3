package signal

import (
	"context"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pipeline"
)

// CollectorNode 是信号收集的 Pipeline 入口节点：执行信号组装配步骤，
// 解析质心并写入 RecommendContext，供后续 recall / rank 节点读取。
//
// 四条工作流的差异全部收敛在 Assemble 里——节点本身和它之后的链路
// 是完全共享的。
type CollectorNode struct {
	Collector *Collector

	// Assemble 是工作流特定的信号组装配步骤。
	// 允许返回空组列表（表示无可用信号），链路会以空结果短路。
	Assemble func(ctx context.Context, rctx *core.RecommendContext) ([]Group, error)
}

func (n *CollectorNode) Name() string        { return "signal.collect" }
func (n *CollectorNode) Kind() pipeline.Kind { return pipeline.KindSignal }

func (n *CollectorNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Assemble == nil {
		return items, nil
	}

	groups, err := n.Assemble(ctx, rctx)
	if err != nil {
		return nil, err
	}

	collected, err := n.Collector.Collect(ctx, groups)
	if err != nil {
		return nil, err
	}

	rctx.Positive = collected.Positive
	rctx.Negative = collected.Negative
	rctx.PositiveSignals = collected.PositiveSignals
	rctx.NegativeSignals = collected.NegativeSignals
	for id := range collected.Exclude {
		rctx.AddExclude(id)
	}
	for _, w := range collected.Warnings {
		rctx.AddWarning(w)
	}

	return items, nil
}
