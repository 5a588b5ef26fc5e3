package signal

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/pkg/vectormath"
)

// Collector 把信号组解析成质心。
//
// 解析规则：
//   - 每个组批量查 embedding；查不到的 id 静默丢弃（不算失败）
//   - 解析出 0 条 embedding 的组整组跳过，不影响其他组
//   - 所有信号 id（无论极性、无论是否解析成功）都进入排除集：
//     作为信号出现过的曲目绝不允许被推荐
//   - Embedding 源本身报错是 UNAVAILABLE 级失败，整个调用终止
type Collector struct {
	Embeddings core.EmbeddingSource
	Logger     *zap.Logger

	// MaxConcurrent 限制并发解析的信号组数，0 表示不限。
	MaxConcurrent int
}

// Collected 是一次信号收集的产物。
type Collected struct {
	Positive []float64 // 正向质心；nil 表示无可用正向信号
	Negative []float64 // 负向质心；nil 表示无负向信号

	PositiveSignals int // 解析出 embedding 的正向信号曲目数
	NegativeSignals int

	PositiveGroups int // 实际参与质心的信号组数
	NegativeGroups int

	Exclude  map[string]struct{}
	Warnings []string
}

type resolvedGroup struct {
	group Group
	vecs  [][]float64
}

// Collect 解析全部信号组并计算质心。组间并发解析，组内批量查询。
func (c *Collector) Collect(ctx context.Context, groups []Group) (*Collected, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := &Collected{Exclude: make(map[string]struct{})}
	for _, g := range groups {
		for _, id := range g.TrackIDs {
			if id != "" {
				out.Exclude[id] = struct{}{}
			}
		}
	}

	resolved := make([]resolvedGroup, len(groups))
	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	if c.MaxConcurrent > 0 {
		eg.SetLimit(c.MaxConcurrent)
	}

	for i, g := range groups {
		idx, grp := i, g
		eg.Go(func() error {
			if len(grp.TrackIDs) == 0 {
				return nil
			}
			vecs, err := c.resolveGroup(egCtx, grp)
			if err != nil {
				return err
			}
			mu.Lock()
			resolved[idx] = resolvedGroup{group: grp, vecs: vecs}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var posVecs, negVecs [][]float64
	var posWeights, negWeights []float64

	for _, rg := range resolved {
		if len(rg.vecs) == 0 {
			if len(rg.group.TrackIDs) > 0 {
				logger.Warn("信号组无可解析 embedding，整组跳过",
					zap.String("source", rg.group.Source),
					zap.Int("track_count", len(rg.group.TrackIDs)))
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("signal group %q skipped: no resolvable embeddings", rg.group.Source))
			}
			continue
		}
		if rg.group.Positive {
			out.PositiveGroups++
			out.PositiveSignals += len(rg.vecs)
			for _, v := range rg.vecs {
				posVecs = append(posVecs, v)
				posWeights = append(posWeights, rg.group.Weight)
			}
		} else {
			out.NegativeGroups++
			out.NegativeSignals += len(rg.vecs)
			for _, v := range rg.vecs {
				negVecs = append(negVecs, v)
				negWeights = append(negWeights, rg.group.Weight)
			}
		}
	}

	if len(posVecs) > 0 {
		centroid, err := vectormath.Centroid(posVecs, posWeights)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInternalError,
				"positive centroid: "+err.Error())
		}
		out.Positive = centroid
	}
	if len(negVecs) > 0 {
		centroid, err := vectormath.Centroid(negVecs, negWeights)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInternalError,
				"negative centroid: "+err.Error())
		}
		out.Negative = centroid
	}

	return out, nil
}

// resolveGroup 批量解析一个组的 embedding，保持 TrackIDs 的顺序，
// 缺失的 id 静默丢弃。顺序不影响质心（加权求和交换律），保持它只是
// 为了让重复调用的中间状态也完全一致。
func (c *Collector) resolveGroup(ctx context.Context, g Group) ([][]float64, error) {
	found, err := c.Embeddings.BatchLookup(ctx, g.TrackIDs)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnavailable,
			fmt.Sprintf("resolve signal group %q: %v", g.Source, err))
	}
	vecs := make([][]float64, 0, len(found))
	seen := make(map[string]struct{}, len(g.TrackIDs))
	for _, id := range g.TrackIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if vec, ok := found[id]; ok && len(vec) > 0 {
			vecs = append(vecs, vec)
		}
	}
	return vecs, nil
}
