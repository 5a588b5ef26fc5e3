// Package catalog 提供曲库元数据的补充节点。
package catalog

import (
	"context"
	"fmt"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pipeline"
)

// EnrichNode 批量拉取候选的曲目元数据并按 id 回填。多样性过滤依赖
// 专辑身份和主唱，所以它必须排在 Diversity 之前。
//
// 曲库里查不到的候选不剔除：Track 保持 nil，多样性上限对其豁免，
// 最终结果里只有 id 和分数。曲库不可达是 UNAVAILABLE 级失败。
type EnrichNode struct {
	Store core.CatalogStore
}

func (n *EnrichNode) Name() string        { return "catalog.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	tracks, err := n.Store.Fetch(ctx, ids)
	if err != nil {
		if core.IsDomainError(err) {
			return nil, err
		}
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog fetch: %v", err))
	}

	// Fetch 返回无序结果，按 id 重新关联
	byID := make(map[string]*core.Track, len(tracks))
	for _, tr := range tracks {
		if tr != nil {
			byID[tr.ID] = tr
		}
	}
	for _, it := range items {
		if tr, ok := byID[it.ID]; ok {
			it.Track = tr
		}
	}
	return items, nil
}
