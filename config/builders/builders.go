// Package builders 内置纯配置即可构建的 Node。信号收集、质心召回、
// 打分、元数据补充依赖外部协作方（EmbeddingSource / VectorStore /
// CatalogStore），由调用方用闭包调用 config.Register 注册。
package builders

import (
	"fmt"

	"github.com/tunelab/tunekit/config"
	"github.com/tunelab/tunekit/filter"
	"github.com/tunelab/tunekit/pipeline"
	"github.com/tunelab/tunekit/pkg/conv"
	"github.com/tunelab/tunekit/rerank"
)

func init() {
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("filter", BuildFilterNode)
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGet(cfg, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}
	return &rerank.TopN{N: n}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		AlbumCap:  conv.ConfigGet(cfg, "album_cap", 0),
		ArtistCap: conv.ConfigGet(cfg, "artist_cap", 0),
		Target:    conv.ConfigGet(cfg, "target", 0),
	}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "exclusion":
			filters = append(filters, &filter.ExclusionFilter{})
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr not found")
			}
			rule, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rule)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.Node{Filters: filters}, nil
}
