package filter

import (
	"context"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pkg/dsl"
)

// RuleFilter 是 CEL 规则过滤器：表达式求值为 false 的候选被剔除。
// 注意语义方向：表达式描述的是"保留条件"。
//
// 规则在曲目元数据补充之后才有 track 变量可用；把 RuleFilter 放在
// catalog.EnrichNode 之后的 FilterNode 里。
type RuleFilter struct {
	eval *dsl.Eval
}

// NewRuleFilter 编译保留条件表达式，例如 `track.year >= 1990`。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	eval, err := dsl.NewEval(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{eval: eval}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.eval.Match(item)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
