package core

// Config 是推荐核心的显式配置值对象，在构造 Recommender 时一次性传入。
// 不读环境变量、不依赖全局可变状态；同一进程内可以用不同配置
// 构造多个互不影响的实例。
type Config struct {
	// DefaultLimit 是未指定 limit 时的输出条数；MaxLimit 是上限。
	DefaultLimit int
	MaxLimit     int

	// DefaultMetric 是未指定度量时的默认值。
	DefaultMetric Metric

	// AlbumCap / ArtistCap 是多样性过滤的同专辑/同主唱上限。
	AlbumCap  int
	ArtistCap int

	// DislikeWeight 是负向质心惩罚系数的默认值，[0,1]。
	DislikeWeight float64

	// Overfetch 倍数：检索条数 = limit × 倍数。
	// 多样性过滤开启的单质心链路用 OverfetchDiversity，
	// 带负向质心的混合链路用 OverfetchBlended，其余用 OverfetchPlain。
	OverfetchDiversity int
	OverfetchBlended   int
	OverfetchPlain     int

	// 各信号组固定权重。
	LikeWeight      float64 // 显式喜欢
	FrequentWeight  float64 // 高频播放
	CompletedWeight float64 // 近期完整播放
	DislikeSigWeight float64 // 显式不喜欢
	SkippedWeight   float64 // 高频跳过

	// 行为信号查询默认参数。
	HistoryWindowDays int     // 行为统计窗口（天）
	MinPlays          int     // 高频播放最低播放次数
	MinCompletionPct  float64 // 完整播放最低完成率
	MinSkips          int     // 高频跳过最低跳过次数
	MaxCompletionPct  float64 // 高频跳过最高完成率
	BehaviorLimit     int     // 每个行为信号组最多取多少条
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		DefaultLimit:  25,
		MaxLimit:      200,
		DefaultMetric: MetricCosine,

		AlbumCap:  2,
		ArtistCap: 3,

		DislikeWeight: 0.5,

		OverfetchDiversity: 3,
		OverfetchBlended:   5,
		OverfetchPlain:     2,

		LikeWeight:       1.0,
		FrequentWeight:   0.8,
		CompletedWeight:  0.7,
		DislikeSigWeight: 1.0,
		SkippedWeight:    0.5,

		HistoryWindowDays: 30,
		MinPlays:          3,
		MinCompletionPct:  0.9,
		MinSkips:          2,
		MaxCompletionPct:  0.3,
		BehaviorLimit:     50,
	}
}

// NormalizeLimit 校正输出条数：非正值视为非法（由调用方先行拒绝），
// 超过 MaxLimit 时截断。
func (c Config) NormalizeLimit(limit int) int {
	if limit > c.MaxLimit && c.MaxLimit > 0 {
		return c.MaxLimit
	}
	return limit
}

// OverfetchFor 按链路形态计算检索条数。
//   - 带负向质心的混合链路：limit × OverfetchBlended
//   - 多样性过滤开启：limit × OverfetchDiversity
//   - 其余：limit × OverfetchPlain
func (c Config) OverfetchFor(limit int, diversify, hasNegative bool) int {
	switch {
	case hasNegative:
		return limit * c.OverfetchBlended
	case diversify:
		return limit * c.OverfetchDiversity
	default:
		return limit * c.OverfetchPlain
	}
}
