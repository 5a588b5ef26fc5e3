// Package rerank 提供重排节点：多样性约束与 Top-N 截断。
package rerank

import (
	"context"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pipeline"
	"github.com/tunelab/tunekit/pkg/utils"
)

// Diversity 是多样性过滤节点：对已按最终分数降序排列的候选做单次
// 贪心遍历，限制同专辑、同主唱的条数上限。
//
// 这是过滤不是重排：不回头捞被拒绝的候选，不改变被接受候选之间的
// 相对顺序。专辑身份无法解析的曲目豁免专辑上限；无艺术家的曲目豁免
// 主唱上限。计数器只在一次调用内存在，用完即弃。
type Diversity struct {
	// AlbumCap 同一专辑身份最多保留多少条，<=0 表示不限。
	AlbumCap int

	// ArtistCap 同一主唱最多保留多少条，<=0 表示不限。
	ArtistCap int

	// Target 输出条数，达到即停止遍历。<=0 表示遍历全部候选。
	Target int
}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	albumCounts := make(map[string]int, 32)
	artistCounts := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		if n.Target > 0 && len(out) >= n.Target {
			break
		}

		albumKey := ""
		artistKey := ""
		if it.Track != nil {
			albumKey = it.Track.AlbumIdentity()
			if primary, ok := it.Track.PrimaryArtist(); ok {
				artistKey = primary.ID
			}
		}

		if n.AlbumCap > 0 && albumKey != "" && albumCounts[albumKey] >= n.AlbumCap {
			it.PutLabel("diversity", utils.Label{Value: "album_cap", Source: "rerank"})
			continue
		}
		if n.ArtistCap > 0 && artistKey != "" && artistCounts[artistKey] >= n.ArtistCap {
			it.PutLabel("diversity", utils.Label{Value: "artist_cap", Source: "rerank"})
			continue
		}

		if albumKey != "" {
			albumCounts[albumKey]++
		}
		if artistKey != "" {
			artistCounts[artistKey]++
		}
		out = append(out, it)
	}

	return out, nil
}
