package filter

import (
	"context"

	"github.com/tunelab/tunekit/core"
)

// ExclusionFilter 复查检索排除集：任何作为输入信号出现过的曲目
// 绝不允许进入结果。向量库已经按请求排除过一次，这里是领域不变式
// 的第二道闸——实现有缺陷的向量库适配器不能破坏该约定。
type ExclusionFilter struct{}

func (f *ExclusionFilter) Name() string { return "filter.exclusion" }

func (f *ExclusionFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return rctx.Excluded(item.ID), nil
}
