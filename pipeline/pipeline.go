package pipeline

import (
	"context"

	"github.com/tunelab/tunekit/core"
)

// Pipeline 是 tunekit 的核心抽象：把一次推荐拆成可组合的 Node 链。
// 四条工作流（单曲电台/艺术家电台/偏好歌单/混合信息流）只是同一条
// 链的不同装配方式，打分与多样性逻辑不重复实现。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
