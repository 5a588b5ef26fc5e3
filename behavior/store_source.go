// Package behavior 提供 core.BehaviorSource 的通用 Store 实现：
// 消费外部聚合任务预先写好的统计，自身不做任何事件级计算。
package behavior

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tunelab/tunekit/core"
)

// StoreSource 从 KeyValueStore 读取预聚合行为统计。
//
// 存储布局（聚合任务按窗口写入）：
//   - zset stats:<days>d:plays        member=track_id score=播放次数
//   - zset stats:<days>d:skips        member=track_id score=跳过次数
//   - hash stats:<days>d:completion   field=track_id value=平均完成率
//
// ZRange 降序扫描取 TopN，再按查询阈值过滤。
type StoreSource struct {
	Store core.KeyValueStore
}

func NewStoreSource(store core.KeyValueStore) *StoreSource {
	return &StoreSource{Store: store}
}

func playsKey(days int) string      { return fmt.Sprintf("stats:%dd:plays", days) }
func skipsKey(days int) string      { return fmt.Sprintf("stats:%dd:skips", days) }
func completionKey(days int) string { return fmt.Sprintf("stats:%dd:completion", days) }

// FrequentlyPlayed 实现 core.BehaviorSource 接口。
func (s *StoreSource) FrequentlyPlayed(ctx context.Context, q core.FrequentQuery) ([]core.PlayStat, error) {
	members, err := s.Store.ZRange(ctx, playsKey(q.Days), 0, scanStop(q.Limit))
	if err != nil {
		return nil, err
	}

	out := make([]core.PlayStat, 0, len(members))
	for _, id := range members {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		plays, err := s.Store.ZScore(ctx, playsKey(q.Days), id)
		if err != nil {
			continue
		}
		if int(plays) < q.MinPlays {
			// 降序扫描，第一个低于阈值之后全部低于阈值
			break
		}
		stat := core.PlayStat{TrackID: id, Plays: int(plays)}
		stat.CompletionPct = s.completion(ctx, q.Days, id)
		out = append(out, stat)
	}
	return out, nil
}

// RecentlyCompleted 实现 core.BehaviorSource 接口。
func (s *StoreSource) RecentlyCompleted(ctx context.Context, q core.CompletedQuery) ([]core.PlayStat, error) {
	// 以播放榜为底，筛完成率过线的曲目
	members, err := s.Store.ZRange(ctx, playsKey(q.Days), 0, -1)
	if err != nil {
		return nil, err
	}

	out := make([]core.PlayStat, 0, q.Limit)
	for _, id := range members {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		pct := s.completion(ctx, q.Days, id)
		if pct < q.MinCompletionPct {
			continue
		}
		plays, err := s.Store.ZScore(ctx, playsKey(q.Days), id)
		if err != nil {
			continue
		}
		out = append(out, core.PlayStat{TrackID: id, Plays: int(plays), CompletionPct: pct})
	}
	return out, nil
}

// OftenSkipped 实现 core.BehaviorSource 接口。
func (s *StoreSource) OftenSkipped(ctx context.Context, q core.SkippedQuery) ([]core.PlayStat, error) {
	members, err := s.Store.ZRange(ctx, skipsKey(q.Days), 0, scanStop(q.Limit))
	if err != nil {
		return nil, err
	}

	out := make([]core.PlayStat, 0, len(members))
	for _, id := range members {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		skips, err := s.Store.ZScore(ctx, skipsKey(q.Days), id)
		if err != nil {
			continue
		}
		if int(skips) < q.MinSkips {
			break
		}
		pct := s.completion(ctx, q.Days, id)
		if pct > q.MaxCompletionPct {
			continue
		}
		out = append(out, core.PlayStat{TrackID: id, Skips: int(skips), CompletionPct: pct})
	}
	return out, nil
}

func (s *StoreSource) completion(ctx context.Context, days int, trackID string) float64 {
	data, err := s.Store.HGet(ctx, completionKey(days), trackID)
	if err != nil {
		return 0
	}
	pct, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0
	}
	return pct
}

// scanStop 计算 ZRange 扫描深度：阈值过滤可能剔除部分成员，扫描
// 深度放大到 limit 的 4 倍再截断。
func scanStop(limit int) int64 {
	if limit <= 0 {
		return -1
	}
	return int64(limit)*4 - 1
}

// 确保实现了接口
var _ core.BehaviorSource = (*StoreSource)(nil)
