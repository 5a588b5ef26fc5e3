// Package recommend 是 tunekit 的工作流门面：单曲电台、艺术家电台、
// 偏好歌单、混合信息流与自定义混音五个入口，全部是同一条
// signal → recall → filter → rank → enrich → rerank 链路的薄装配。
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tunelab/tunekit/catalog"
	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/filter"
	"github.com/tunelab/tunekit/pipeline"
	"github.com/tunelab/tunekit/rank"
	"github.com/tunelab/tunekit/recall"
	"github.com/tunelab/tunekit/rerank"
	"github.com/tunelab/tunekit/signal"
)

// Recommender 持有外部协作方与配置，提供推荐工作流入口。
// 自身无可变状态，可安全并发调用；每次调用新建 RecommendContext，
// 调用结束即丢弃。
type Recommender struct {
	cfg        core.Config
	embeddings core.EmbeddingSource
	vectors    core.VectorStore
	catalog    core.CatalogStore
	behavior   core.BehaviorSource // 可为 nil：混合信息流退化为纯显式偏好
	logger     *zap.Logger
	rules      []filter.Filter // 可选的附加过滤器（如 CEL 规则）

	collector *signal.Collector
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithLogger 注入日志器；默认 zap.NewNop()，库自身保持安静。
func WithLogger(logger *zap.Logger) Option {
	return func(r *Recommender) { r.logger = logger }
}

// WithBehaviorSource 注入行为信号源。不注入时混合信息流跳过行为
// 信号组并记录告警。
func WithBehaviorSource(source core.BehaviorSource) Option {
	return func(r *Recommender) { r.behavior = source }
}

// WithFilters 追加候选过滤器（在排除集复查之后执行）。
func WithFilters(filters ...filter.Filter) Option {
	return func(r *Recommender) { r.rules = append(r.rules, filters...) }
}

// New 创建 Recommender。embeddings / vectors / catalogStore 是必需
// 协作方；cfg 传零值时使用 DefaultConfig。
func New(
	embeddings core.EmbeddingSource,
	vectors core.VectorStore,
	catalogStore core.CatalogStore,
	cfg core.Config,
	opts ...Option,
) *Recommender {
	if cfg == (core.Config{}) {
		cfg = core.DefaultConfig()
	}
	r := &Recommender{
		cfg:        cfg,
		embeddings: embeddings,
		vectors:    vectors,
		catalog:    catalogStore,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.collector = &signal.Collector{
		Embeddings:    r.embeddings,
		Logger:        r.logger,
		MaxConcurrent: 4,
	}
	return r
}

// SeedRadio 单曲电台：以一首种子曲目为正向信号。
// 种子无 embedding 时返回空结果并携带告警，不是错误。
func (r *Recommender) SeedRadio(ctx context.Context, seedID string, limit int, metric core.Metric, diversify bool) (*Result, error) {
	if seedID == "" {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "seed track id is required")
	}

	assemble := func(context.Context, *core.RecommendContext) ([]signal.Group, error) {
		return []signal.Group{
			{Source: signal.SourceSeed, Weight: 1.0, TrackIDs: []string{seedID}, Positive: true},
		}, nil
	}
	return r.run(ctx, runParams{
		limit:     limit,
		metric:    metric,
		diversify: diversify,
		assemble:  assemble,
		noSignalWarning: fmt.Sprintf("seed track %s has no embedding", seedID),
	})
}

// ArtistRadio 艺术家电台：以该艺术家全部曲目的质心为正向信号；
// 艺术家自己的曲目全部进入排除集。
func (r *Recommender) ArtistRadio(ctx context.Context, artistID string, limit int, metric core.Metric, diversify bool) (*Result, error) {
	if artistID == "" {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "artist id is required")
	}

	assemble := func(ctx context.Context, _ *core.RecommendContext) ([]signal.Group, error) {
		tracks, err := r.catalog.TracksByArtist(ctx, artistID)
		if err != nil {
			if core.IsDomainError(err) {
				return nil, err
			}
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
				fmt.Sprintf("tracks by artist %s: %v", artistID, err))
		}
		ids := make([]string, 0, len(tracks))
		for _, tr := range tracks {
			if tr != nil && tr.ID != "" {
				ids = append(ids, tr.ID)
			}
		}
		if len(ids) == 0 {
			return nil, nil
		}
		return []signal.Group{
			{Source: signal.SourceArtist, Weight: 1.0, TrackIDs: ids, Positive: true},
		}, nil
	}
	return r.run(ctx, runParams{
		limit:     limit,
		metric:    metric,
		diversify: diversify,
		assemble:  assemble,
		noSignalWarning: fmt.Sprintf("artist %s has no tracks with embeddings", artistID),
	})
}

// PreferenceRequest 是偏好歌单的请求参数。
type PreferenceRequest struct {
	LikedIDs    []string
	DislikedIDs []string
	Limit       int
	Metric      core.Metric
	Diversify   bool

	// DislikeWeight 负向惩罚系数，[0,1]；<=0 时取配置默认值。
	DislikeWeight float64
}

// PreferencePlaylist 偏好歌单：显式喜欢为正向信号，显式不喜欢为负向。
// 喜欢列表为空返回空结果（无信号），不是错误。
func (r *Recommender) PreferencePlaylist(ctx context.Context, req PreferenceRequest) (*Result, error) {
	assemble := func(context.Context, *core.RecommendContext) ([]signal.Group, error) {
		groups := make([]signal.Group, 0, 2)
		if len(req.LikedIDs) > 0 {
			groups = append(groups, signal.Group{
				Source: signal.SourceLike, Weight: r.cfg.LikeWeight, TrackIDs: req.LikedIDs, Positive: true,
			})
		}
		if len(req.DislikedIDs) > 0 {
			groups = append(groups, signal.Group{
				Source: signal.SourceDislike, Weight: r.cfg.DislikeSigWeight, TrackIDs: req.DislikedIDs, Positive: false,
			})
		}
		return groups, nil
	}
	return r.run(ctx, runParams{
		limit:           req.Limit,
		metric:          req.Metric,
		diversify:       req.Diversify,
		dislikeWeight:   req.DislikeWeight,
		hasNegative:     len(req.DislikedIDs) > 0,
		assemble:        assemble,
		noSignalWarning: "no liked tracks with embeddings",
	})
}

// BlendedRequest 是混合信息流的请求参数。
type BlendedRequest struct {
	LikedIDs    []string
	DislikedIDs []string
	Limit       int
	Metric      core.Metric
	Diversify   bool
	DislikeWeight float64

	// UseBehaviorSignals 开启行为信号混入（高频播放/完整播放/高频跳过）。
	UseBehaviorSignals bool

	// HistoryWindowDays 行为统计窗口；<=0 时取配置默认值。
	HistoryWindowDays int
}

// BlendedFeed 混合信息流："为你推荐"。显式偏好与行为信号按固定权重
// 混合；每个行为信号组独立可降级——查询失败或为空只跳过该组并记告警，
// 其余信号组照常参与。
func (r *Recommender) BlendedFeed(ctx context.Context, req BlendedRequest) (*Result, error) {
	assemble := func(ctx context.Context, rctx *core.RecommendContext) ([]signal.Group, error) {
		groups := make([]signal.Group, 0, 5)
		if len(req.LikedIDs) > 0 {
			groups = append(groups, signal.Group{
				Source: signal.SourceLike, Weight: r.cfg.LikeWeight, TrackIDs: req.LikedIDs, Positive: true,
			})
		}
		if len(req.DislikedIDs) > 0 {
			groups = append(groups, signal.Group{
				Source: signal.SourceDislike, Weight: r.cfg.DislikeSigWeight, TrackIDs: req.DislikedIDs, Positive: false,
			})
		}
		if req.UseBehaviorSignals {
			days := req.HistoryWindowDays
			if days <= 0 {
				days = r.cfg.HistoryWindowDays
			}
			groups = append(groups, r.behaviorGroups(ctx, rctx, days)...)
		}
		return groups, nil
	}
	return r.run(ctx, runParams{
		limit:           req.Limit,
		metric:          req.Metric,
		diversify:       req.Diversify,
		dislikeWeight:   req.DislikeWeight,
		hasNegative:     true, // 负向信号组是否成立要到收集后才知道，按混合链路预留 overfetch
		assemble:        assemble,
		noSignalWarning: "no resolvable positive signals",
	})
}

// CustomMix 自定义混音：调用方直接给出带权种子列表（如"最近播放"
// 按新近度衰减的权重），同一条链路产出结果。
func (r *Recommender) CustomMix(ctx context.Context, seeds []signal.Group, limit int, metric core.Metric, diversify bool) (*Result, error) {
	if len(seeds) == 0 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "at least one seed group is required")
	}
	for _, g := range seeds {
		if g.Weight <= 0 {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
				fmt.Sprintf("seed group %q: weight must be positive", g.Source))
		}
	}

	hasNegative := false
	for _, g := range seeds {
		if !g.Positive {
			hasNegative = true
			break
		}
	}

	assemble := func(context.Context, *core.RecommendContext) ([]signal.Group, error) {
		return seeds, nil
	}
	return r.run(ctx, runParams{
		limit:           limit,
		metric:          metric,
		diversify:       diversify,
		hasNegative:     hasNegative,
		assemble:        assemble,
		noSignalWarning: "no resolvable seed embeddings",
	})
}

// runParams 是共享链路的装配参数：四条工作流的全部差异。
type runParams struct {
	limit         int
	metric        core.Metric
	diversify     bool
	dislikeWeight float64
	hasNegative   bool
	assemble      func(ctx context.Context, rctx *core.RecommendContext) ([]signal.Group, error)

	// noSignalWarning 在链路因无正向信号短路时写进结果告警。
	noSignalWarning string
}

// run 执行共享链路。所有打分、过滤、多样性逻辑只存在这一份。
func (r *Recommender) run(ctx context.Context, p runParams) (*Result, error) {
	if p.limit <= 0 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
			fmt.Sprintf("limit must be positive, got %d", p.limit))
	}
	limit := r.cfg.NormalizeLimit(p.limit)

	metric, err := core.ParseMetric(string(p.metric), r.cfg.DefaultMetric)
	if err != nil {
		return nil, err
	}

	dislikeWeight := p.dislikeWeight
	if dislikeWeight <= 0 {
		dislikeWeight = r.cfg.DislikeWeight
	}
	if dislikeWeight > 1 {
		dislikeWeight = 1
	}

	rctx := &core.RecommendContext{
		Metric:        metric,
		Limit:         limit,
		Overfetch:     r.cfg.OverfetchFor(limit, p.diversify, p.hasNegative),
		Diversify:     p.diversify,
		DislikeWeight: dislikeWeight,
	}

	filters := append([]filter.Filter{&filter.ExclusionFilter{}}, r.rules...)

	nodes := []pipeline.Node{
		&signal.CollectorNode{Collector: r.collector, Assemble: p.assemble},
		&recall.CentroidRecall{Store: r.vectors},
		&rank.SimilarityRank{Embeddings: r.embeddings},
		&catalog.EnrichNode{Store: r.catalog},
		&filter.Node{Filters: filters},
	}
	if p.diversify {
		nodes = append(nodes, &rerank.Diversity{
			AlbumCap:  r.cfg.AlbumCap,
			ArtistCap: r.cfg.ArtistCap,
			Target:    limit,
		})
	} else {
		nodes = append(nodes, &rerank.TopN{N: limit})
	}

	p2 := &pipeline.Pipeline{Nodes: nodes}
	items, err := p2.Run(ctx, rctx, nil)
	if err != nil {
		r.logger.Error("推荐链路失败", zap.Error(err), zap.String("metric", string(metric)))
		return nil, err
	}

	result := &Result{
		Tracks:          make([]Recommendation, 0, len(items)),
		Warnings:        rctx.Warnings,
		PositiveSignals: rctx.PositiveSignals,
		NegativeSignals: rctx.NegativeSignals,
		Metric:          metric,
	}
	if rctx.Positive == nil && p.noSignalWarning != "" {
		result.Warnings = append(result.Warnings, p.noSignalWarning)
	}
	for _, it := range items {
		result.Tracks = append(result.Tracks, Recommendation{
			TrackID:       it.ID,
			Score:         it.Score,
			Similarity:    it.Similarity,
			NegSimilarity: it.NegSimilarity,
			Track:         it.Track,
		})
	}
	return result, nil
}
