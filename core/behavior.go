package core

import "context"

// BehaviorSource 是预聚合行为信号的领域接口。
//
// 本核心不消费原始播放事件；聚合（按窗口统计播放/完成/跳过）在
// 协作方完成，这里只拿曲目 id 列表参与质心计算，统计值原样带进
// 返回元数据，不做二次解释。
//
// 约定：任何一个查询失败或为空都只导致对应信号组降级（记告警、跳过），
// 不影响其他信号组。
type BehaviorSource interface {
	// FrequentlyPlayed 高频播放曲目。
	FrequentlyPlayed(ctx context.Context, q FrequentQuery) ([]PlayStat, error)

	// RecentlyCompleted 近期完整播放曲目。
	RecentlyCompleted(ctx context.Context, q CompletedQuery) ([]PlayStat, error)

	// OftenSkipped 高频跳过曲目。
	OftenSkipped(ctx context.Context, q SkippedQuery) ([]PlayStat, error)
}

// PlayStat 是单条聚合统计。
type PlayStat struct {
	TrackID       string
	Plays         int     // 窗口内播放次数
	Skips         int     // 窗口内跳过次数
	CompletionPct float64 // 平均完成率，[0,1]
}

// FrequentQuery 高频播放查询参数。
type FrequentQuery struct {
	MinPlays int // 最低播放次数
	Days     int // 统计窗口（天）
	Limit    int
}

// CompletedQuery 近期完整播放查询参数。
type CompletedQuery struct {
	Days             int
	MinCompletionPct float64
	Limit            int
}

// SkippedQuery 高频跳过查询参数。
type SkippedQuery struct {
	MinSkips         int
	Days             int
	MaxCompletionPct float64
	Limit            int
}
