package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/signal"
)

// behaviorGroups 查询三类行为信号并组装成信号组：
//   - 高频播放（正向，FrequentWeight）
//   - 近期完整播放（正向，CompletedWeight）
//   - 高频跳过（负向，SkippedWeight）
//
// 每个查询独立降级：失败或为空只跳过该组并记告警，不影响其他组。
// 未注入 BehaviorSource 时整体跳过并记一条告警。
func (r *Recommender) behaviorGroups(ctx context.Context, rctx *core.RecommendContext, days int) []signal.Group {
	if r.behavior == nil {
		r.logger.Warn("未配置行为信号源，跳过行为信号")
		rctx.AddWarning("behavior signals requested but no behavior source configured")
		return nil
	}

	groups := make([]signal.Group, 0, 3)

	frequent, err := r.behavior.FrequentlyPlayed(ctx, core.FrequentQuery{
		MinPlays: r.cfg.MinPlays,
		Days:     days,
		Limit:    r.cfg.BehaviorLimit,
	})
	if g, ok := r.behaviorGroup(rctx, signal.SourceFrequent, r.cfg.FrequentWeight, true, frequent, err); ok {
		groups = append(groups, g)
	}

	completed, err := r.behavior.RecentlyCompleted(ctx, core.CompletedQuery{
		Days:             days,
		MinCompletionPct: r.cfg.MinCompletionPct,
		Limit:            r.cfg.BehaviorLimit,
	})
	if g, ok := r.behaviorGroup(rctx, signal.SourceCompleted, r.cfg.CompletedWeight, true, completed, err); ok {
		groups = append(groups, g)
	}

	skipped, err := r.behavior.OftenSkipped(ctx, core.SkippedQuery{
		MinSkips:         r.cfg.MinSkips,
		Days:             days,
		MaxCompletionPct: r.cfg.MaxCompletionPct,
		Limit:            r.cfg.BehaviorLimit,
	})
	if g, ok := r.behaviorGroup(rctx, signal.SourceSkipped, r.cfg.SkippedWeight, false, skipped, err); ok {
		groups = append(groups, g)
	}

	return groups
}

// behaviorGroup 把一次行为查询的结果转成信号组；失败或为空时记告警并
// 返回 ok=false。
func (r *Recommender) behaviorGroup(rctx *core.RecommendContext, source string, weight float64, positive bool, stats []core.PlayStat, err error) (signal.Group, bool) {
	if err != nil {
		r.logger.Warn("行为信号查询失败，跳过该信号组",
			zap.String("source", source), zap.Error(err))
		rctx.AddWarning(fmt.Sprintf("behavior signal %s unavailable: %v", source, err))
		return signal.Group{}, false
	}
	if len(stats) == 0 {
		rctx.AddWarning(fmt.Sprintf("behavior signal %s returned no tracks", source))
		return signal.Group{}, false
	}

	ids := make([]string, 0, len(stats))
	for _, s := range stats {
		if s.TrackID != "" {
			ids = append(ids, s.TrackID)
		}
	}
	if len(ids) == 0 {
		rctx.AddWarning(fmt.Sprintf("behavior signal %s returned no tracks", source))
		return signal.Group{}, false
	}
	return signal.Group{Source: source, Weight: weight, TrackIDs: ids, Positive: positive}, true
}
