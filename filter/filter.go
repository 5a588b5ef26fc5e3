// Package filter 提供候选过滤：排除集复查、CEL 规则过滤，以及把多个
// 过滤器组合成一个 Pipeline 节点的 FilterNode。
package filter

import (
	"context"

	"github.com/tunelab/tunekit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被剔除。
// 返回 true 表示剔除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被剔除
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
